package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Procedures ProceduresConfig `mapstructure:"procedures"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	// Dialect overrides the call dialect derived from Driver.
	Dialect string `mapstructure:"dialect"`
}

type LogConfig struct {
	Verbosity int `mapstructure:"verbosity"`
}

type ProceduresConfig struct {
	File string `mapstructure:"file"`
}

// Load reads procmap.yaml from the working directory (or path, when given)
// and PROCMAP_* environment variables, e.g. PROCMAP_DATABASE_DSN. A missing
// default config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("database.driver", "godror")
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("procedures.file", "procedures.yaml")

	v.SetEnvPrefix("procmap")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only sees keys viper already knows about.
	for _, key := range []string{"database.dsn", "database.dialect"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("procmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings needed to open a connection.
func (c *Config) Validate() error {
	if c.Database.Driver == "" {
		return errors.New("database.driver is required")
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	return nil
}
