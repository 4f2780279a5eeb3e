package runner

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/donaldgifford/mdlint/internal/config"
	"github.com/donaldgifford/mdlint/internal/rulefile"
	"github.com/donaldgifford/mdlint/internal/rules"
	"github.com/donaldgifford/mdlint/internal/rules/markdown"
)

// BuildCatalog assembles the rules for a run: the built-in catalog with
// the configured paragraph limit, the rules of every rule file in order,
// and finally the severity overrides.
func BuildCatalog(cfg *config.Config) (*rules.Catalog, error) {
	catalog := rules.Builtin()

	if e, ok := catalog.Lookup(markdown.LongParagraphName); ok {
		catalog.Add(&rules.Entry{
			Rule:     markdown.LongParagraph(cfg.Lint.MaxParagraphLength),
			Summary:  e.Summary,
			Severity: e.Severity,
		})
	}

	for _, path := range cfg.Lint.RuleFiles {
		defs, err := rulefile.Load(path, rules.LintFunc)
		if err != nil {
			return nil, err
		}
		if err := catalog.AddDefinitions(defs); err != nil {
			return nil, fmt.Errorf("rule file %s: %w", path, err)
		}
	}

	for name, value := range cfg.Lint.Rules {
		sev, err := rules.ParseSeverity(value, rules.SeverityWarn)
		if err != nil {
			return nil, fmt.Errorf("lint.rules.%s: %w", name, err)
		}
		if !catalog.SetSeverity(name, sev) {
			return nil, fmt.Errorf("lint.rules.%s: unknown rule", name)
		}
	}
	return catalog, nil
}

// ListRules writes the assembled catalog as an aligned table and returns
// an exit code.
func ListRules(opts *Options) int {
	opts.setDefaults()

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

	if err := writeRules(opts.Stdout, catalog.Entries()); err != nil {
		writeErr(opts.Stderr, "mdlint: %v\n", err)
		return ExitError
	}
	return ExitOK
}

func writeRules(w io.Writer, entries []*rules.Entry) error {
	header := []string{"NAME", "SEVERITY", "SELECTOR", "DESCRIPTION"}
	rows := [][]string{header}
	for _, e := range entries {
		rows = append(rows, []string{e.Name(), e.Severity.String(), e.Rule.Selector().String(), e.Summary})
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for _, row := range rows {
		line := ""
		for i, cell := range row {
			if i == len(row)-1 {
				line += cell
				break
			}
			line += runewidth.FillRight(cell, widths[i]+2)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
