// Package runner orchestrates the load -> lint -> report pipeline.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/mdlint/internal/config"
	"github.com/donaldgifford/mdlint/internal/logging"
	"github.com/donaldgifford/mdlint/internal/parser"
	"github.com/donaldgifford/mdlint/internal/report"
	"github.com/donaldgifford/mdlint/internal/rules"
	"github.com/donaldgifford/mdlint/internal/walker"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitIssues = 1
	ExitError  = 2
)

// StdinName is the path reported for input read from stdin.
const StdinName = "<stdin>"

// Options configures the runner behavior. Non-zero Format, Color and Jobs
// override the loaded configuration; RuleFiles are loaded after the
// configured ones.
type Options struct {
	Paths      []string
	ConfigPath string
	RuleFiles  []string
	Format     string
	Color      string
	Jobs       int
	Quiet      bool // Report error-severity issues only.
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

func (o *Options) setDefaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// Run lints the configured paths, or stdin when there are none, and
// returns an exit code.
func Run(ctx context.Context, opts *Options) int {
	opts.setDefaults()
	logger := logging.GetLogger("runner")
	defer logging.LogOperationStart(logger, "lint")()

	cfg, err := loadConfig(opts)
	if err != nil {
		writeErr(opts.Stderr, "mdlint: %v\n", err)
		return ExitError
	}

	catalog, err := BuildCatalog(cfg)
	if err != nil {
		writeErr(opts.Stderr, "mdlint: %v\n", err)
		return ExitError
	}
	entries := catalog.Enabled()
	logger.Debug().Int("rules", len(entries)).Msg("Catalog assembled")

	reporter, err := report.New(cfg.Output.Format, report.Options{
		Color: useColor(cfg.Output.Color, opts.Stdout),
	})
	if err != nil {
		writeErr(opts.Stderr, "mdlint: %v\n", err)
		return ExitError
	}

	var (
		issues []report.Issue
		failed bool
	)
	if len(opts.Paths) == 0 {
		src, err := io.ReadAll(opts.Stdin)
		if err != nil {
			writeErr(opts.Stderr, "mdlint: reading stdin: %v\n", err)
			return ExitError
		}
		issues = Lint(StdinName, string(src), entries)
	} else {
		files, err := Expand(opts.Paths, cfg.Lint.Extensions, cfg.Lint.Exclude)
		if err != nil {
			writeErr(opts.Stderr, "mdlint: %v\n", err)
			return ExitError
		}

		var errs []error
		issues, errs = lintFiles(ctx, files, entries, cfg.Lint.Jobs)
		for _, err := range errs {
			writeErr(opts.Stderr, "mdlint: %v\n", err)
		}
		failed = len(errs) > 0
	}

	if opts.Quiet {
		issues = slices.DeleteFunc(issues, func(is report.Issue) bool {
			return is.Severity != rules.SeverityError
		})
	}
	report.Sort(issues)

	if err := reporter.Report(opts.Stdout, issues); err != nil {
		writeErr(opts.Stderr, "mdlint: writing report: %v\n", err)
		return ExitError
	}

	if failed {
		return ExitError
	}
	if errs, _ := report.Count(issues); errs > 0 {
		return ExitIssues
	}
	return ExitOK
}

// Lint evaluates every entry at every node of the document src. Rule
// failures are reported with error severity.
func Lint(path, src string, entries []*rules.Entry) []report.Issue {
	var issues []report.Issue

	root := parser.Parse(src)
	_ = walker.Walk(root, func(node *parser.Node, state *walker.State, content string) error {
		for _, e := range entries {
			d := e.Rule.Check(node, state, content)
			if d == nil {
				continue
			}

			sev := e.Severity
			if d.IsFailure() {
				sev = rules.SeverityError
			}
			issues = append(issues, report.Issue{
				Path:       path,
				Line:       node.SourceLine(d.Start),
				Severity:   sev,
				Diagnostic: *d,
				Content:    content,
			})
		}
		return nil
	})
	return issues
}

// lintFiles lints files concurrently, at most jobs at a time. Read errors
// do not stop the other files.
func lintFiles(ctx context.Context, files []string, entries []*rules.Entry, jobs int) ([]report.Issue, []error) {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	var (
		mu     sync.Mutex
		issues []report.Issue
		errs   []error
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			logger := logging.GetLogger("runner")
			logger.Info().Str("file", path).Msg("Linting")

			src, err := os.ReadFile(path)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}

			found := Lint(path, string(src), entries)
			mu.Lock()
			issues = append(issues, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errs = append(errs, err)
	}
	return issues, errs
}

func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}
	if opts.Color != "" {
		cfg.Output.Color = opts.Color
	}
	if opts.Jobs > 0 {
		cfg.Lint.Jobs = opts.Jobs
	}
	cfg.Lint.RuleFiles = append(cfg.Lint.RuleFiles, opts.RuleFiles...)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return os.Getenv("NO_COLOR") == "" && logging.IsTerminal(w)
	}
}

// writeErr formats and writes to stderr.
func writeErr(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
