// Package report renders lint findings as text, JSON or checkstyle XML.
package report

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/donaldgifford/mdlint/internal/lint"
	"github.com/donaldgifford/mdlint/internal/rules"
)

// ErrUnknownFormat is returned by New for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Output formats.
const (
	FormatText       = "text"
	FormatJSON       = "json"
	FormatCheckstyle = "checkstyle"
)

// Issue is a diagnostic located in a file.
type Issue struct {
	Path       string
	Line       int // Source line of the diagnostic start.
	Severity   rules.Severity
	Diagnostic lint.Diagnostic
	Content    string // Rendered content the diagnostic offsets refer to.
}

// Position returns the 1-based line and column of the diagnostic start.
// The column counts runes from the start of the content line holding the
// (clamped) start offset.
func (i Issue) Position() (line, column int) {
	column = 1

	start := clamp(i.Diagnostic.Start, runeLen(i.Content))
	n := 0
	for _, r := range i.Content {
		if n == start {
			break
		}
		n++
		if r == '\n' {
			column = 1
			continue
		}
		column++
	}
	return max(i.Line, 1), column
}

// Summary returns the first line of the diagnostic message.
func (i Issue) Summary() string {
	first, _, _ := strings.Cut(i.Diagnostic.Message, "\n")
	return first
}

// Reporter writes a set of issues.
type Reporter interface {
	Report(w io.Writer, issues []Issue) error
}

// Options configures reporters.
type Options struct {
	Color bool
}

// New returns the reporter for format.
func New(format string, opts Options) (Reporter, error) {
	switch format {
	case "", FormatText:
		return &TextReporter{Color: opts.Color}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	case FormatCheckstyle:
		return &CheckstyleReporter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Sort orders issues by path, position and rule name.
func Sort(issues []Issue) {
	slices.SortStableFunc(issues, func(a, b Issue) int {
		if c := cmp.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		al, ac := a.Position()
		bl, bc := b.Position()
		if c := cmp.Compare(al, bl); c != 0 {
			return c
		}
		if c := cmp.Compare(ac, bc); c != 0 {
			return c
		}
		return cmp.Compare(a.Diagnostic.Rule, b.Diagnostic.Rule)
	})
}

// Count returns the number of error and warning issues.
func Count(issues []Issue) (errs, warnings int) {
	for _, is := range issues {
		switch is.Severity {
		case rules.SeverityError:
			errs++
		case rules.SeverityWarn:
			warnings++
		}
	}
	return errs, warnings
}

func severityLabel(s rules.Severity) string {
	if s == rules.SeverityError {
		return "error"
	}
	return "warning"
}

func runeLen(s string) int {
	return len([]rune(s))
}

func clamp(v, hi int) int {
	return min(max(v, 0), hi)
}
