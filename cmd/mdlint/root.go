package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/mdlint/internal/logging"
	_ "github.com/donaldgifford/mdlint/internal/rules" // Register rules via init().
	"github.com/donaldgifford/mdlint/internal/runner"
)

// execute runs the command line args with the streams of base and returns
// the process exit code. Usage errors are returned with ExitError.
func execute(ctx context.Context, args []string, base *runner.Options) (int, error) {
	code := runner.ExitOK
	cmd := newRootCmd(base, &code)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		return runner.ExitError, err
	}
	return code, nil
}

func newRootCmd(base *runner.Options, code *int) *cobra.Command {
	opts := *base
	var (
		verbosity   int
		showVersion bool
	)

	root := &cobra.Command{
		Use:   "mdlint [flags] [paths...]",
		Short: "Lint markdown documents",
		Long: `mdlint checks markdown documents against a catalog of lint rules.

Directories are searched for *.md and *.markdown files. With no paths,
the document is read from stdin. Exit status is 0 when no error-severity
problems are found, 1 when some are, and 2 on operational errors.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.SetupLogger(opts.Stderr, verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(opts.Stdout, "mdlint %s (%s) %s\n", version, commit, date)
				return nil
			}
			opts.Paths = args
			*code = runner.Run(cmd.Context(), &opts)
			return nil
		},
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(opts.Stdin)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", "", "path to config file")
	pf.StringArrayVar(&opts.RuleFiles, "rules", nil, "additional rule file (yaml, toml or json); repeatable")
	pf.CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	f := root.Flags()
	f.StringVar(&opts.Format, "format", "", "output format: text, json or checkstyle")
	f.StringVar(&opts.Color, "color", "", "colorize output: auto, always or never")
	f.IntVar(&opts.Jobs, "jobs", 0, "files linted in parallel (default: number of CPUs)")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "report error-severity problems only")
	f.BoolVar(&showVersion, "version", false, "print version and exit")

	root.AddCommand(&cobra.Command{
		Use:   "rules",
		Short: "List the active rules",
		Long:  "List every rule with its severity after applying rule files and config overrides.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			*code = runner.ListRules(&opts)
			return nil
		},
	})

	return root
}
