package cli

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"github.com/ignaciocaff/procmap/internal/config"
	"github.com/ignaciocaff/procmap/internal/declfile"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile     string
	ProceduresFile string
	Verbose        int
	Format         string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the procmap CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "procmap",
		Short: "Call stored procedures declared in YAML",
		Long: `procmap calls stored procedures and functions declared in a YAML
procedures file and prints the values of their OUT and INOUT parameters.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file (default ./procmap.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.ProceduresFile, "procedures", "p", "", "procedures file (overrides procedures.file)")
	cmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v", "log verbosity, repeat for more")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewTemplateCommand(opts))
	cmd.AddCommand(NewCallCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// load reads the configuration and the procedures catalog.
func (o *RootOptions) load() (*config.Config, *declfile.Catalog, error) {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return nil, nil, err
	}
	path := cfg.Procedures.File
	if o.ProceduresFile != "" {
		path = o.ProceduresFile
	}
	cat, err := declfile.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load procedures: %w", err)
	}
	return cfg, cat, nil
}

func (o *RootOptions) logger(w io.Writer, cfg *config.Config) logr.Logger {
	verbosity := cfg.Log.Verbosity
	if o.Verbose > verbosity {
		verbosity = o.Verbose
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintln(w, prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: verbosity})
}
