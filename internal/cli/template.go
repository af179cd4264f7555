package cli

import (
	"github.com/spf13/cobra"

	"github.com/ignaciocaff/procmap/internal/core"
	"github.com/ignaciocaff/procmap/internal/sqlconn"
)

// TemplateOptions holds flags for the template command.
type TemplateOptions struct {
	*RootOptions
	Dialect string
}

// TemplateResult is the output of the template command.
type TemplateResult struct {
	Procedure string `json:"procedure"`
	Template  string `json:"template"`
	Dialect   string `json:"dialect,omitempty"`
	Native    string `json:"native,omitempty"`
}

// NewTemplateCommand creates the template command.
func NewTemplateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TemplateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "template <procedure>",
		Short: "Print the call template of a declared procedure",
		Long: `Print the SQL-92 call escape of a declared procedure without
connecting to a database. With --dialect the native statement is printed too.

Example:
  procmap template bank.transfer --dialect godror`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "also render for a dialect (godror|go-ora|postgres)")

	return cmd
}

func runTemplate(opts *TemplateOptions, name string, cmd *cobra.Command) error {
	_, cat, err := opts.load()
	if err != nil {
		return err
	}
	rec, err := cat.Record(name)
	if err != nil {
		return err
	}
	md, err := core.NewResolver(nil).Resolve(rec)
	if err != nil {
		return err
	}

	res := TemplateResult{Procedure: name, Template: md.Template()}
	if opts.Dialect != "" {
		d, err := sqlconn.DialectByName(opts.Dialect)
		if err != nil {
			return err
		}
		spec, err := sqlconn.ParseCall(md.Template())
		if err != nil {
			return err
		}
		res.Dialect = d.Name()
		res.Native = d.Translate(spec)
	}

	out := newFormatter(opts.RootOptions, cmd)
	if out.json() {
		return out.JSON(res)
	}
	out.Line(res.Template)
	if res.Native != "" {
		out.Line(res.Native)
	}
	return nil
}
