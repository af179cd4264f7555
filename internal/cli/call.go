package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ignaciocaff/procmap/internal/core"
	"github.com/ignaciocaff/procmap/internal/sqlconn"
)

// CallOptions holds flags for the call command.
type CallOptions struct {
	*RootOptions
	Set    []string
	Commit bool
}

// CallResult is the output of the call command.
type CallResult struct {
	Procedure string         `json:"procedure"`
	RowSet    bool           `json:"row_set"`
	Outputs   map[string]any `json:"outputs"`
}

// NewCallCommand creates the call command.
func NewCallCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CallOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "call <procedure>",
		Short: "Call a declared procedure and print its output parameters",
		Long: `Call a declared procedure on the configured database and print the
values of its OUT and INOUT parameters. Input values are given as name=value
and parsed according to the declared SQL type.

The call runs in a transaction that is rolled back unless --commit is given.

Example:
  procmap call bank.transfer --set account=7 --set balance=100 --commit`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "input parameter as name=value (repeatable)")
	cmd.Flags().BoolVar(&opts.Commit, "commit", false, "commit instead of rolling back")

	return cmd
}

func runCall(opts *CallOptions, name string, cmd *cobra.Command) (err error) {
	cfg, cat, err := opts.load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	rec, err := cat.Record(name)
	if err != nil {
		return err
	}
	for _, kv := range opts.Set {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q: want name=value", kv)
		}
		if err := rec.SetText(k, v); err != nil {
			return err
		}
	}

	log := opts.logger(cmd.ErrOrStderr(), cfg)
	connOpts := []sqlconn.Option{sqlconn.WithLogger(log.WithName("sqlconn"))}
	if cfg.Database.Dialect != "" {
		d, err := sqlconn.DialectByName(cfg.Database.Dialect)
		if err != nil {
			return err
		}
		connOpts = append(connOpts, sqlconn.WithDialect(d))
	}

	ctx := cmd.Context()
	conn, err := sqlconn.Connect(ctx, cfg.Database.Driver, cfg.Database.DSN, connOpts...)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	engine := core.NewEngine(conn, core.WithLogger(log.WithName("engine")))
	defer func() {
		if cerr := engine.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	tx := engine.Transaction()
	if err := tx.Begin(ctx); err != nil {
		return err
	}
	rows, err := engine.Call(ctx, rec)
	if err != nil {
		if rerr := tx.Rollback(ctx); rerr != nil {
			log.Error(rerr, "rollback failed")
		}
		return err
	}
	if opts.Commit {
		err = tx.Commit(ctx)
	} else {
		err = tx.Rollback(ctx)
	}
	if err != nil {
		return err
	}
	if err := tx.End(ctx); err != nil {
		return err
	}

	res := CallResult{Procedure: name, RowSet: rows, Outputs: rec.Outputs()}
	out := newFormatter(opts.RootOptions, cmd)
	if out.json() {
		return out.JSON(res)
	}
	keys := make([]string, 0, len(res.Outputs))
	for k := range res.Outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.Line(fmt.Sprintf("%s = %v", k, res.Outputs[k]))
	}
	return nil
}
