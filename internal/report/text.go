package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/donaldgifford/mdlint/internal/rules"
)

// TextReporter prints one issue per block: a location header followed by
// the offending line with a caret underline.
//
//	docs/intro.md:3:11: warning: found "FIXME" (no-todo)
//	  This is a FIXME note.
//	            ^^^^^
type TextReporter struct {
	Color bool
}

// Report implements Reporter.
func (r *TextReporter) Report(w io.Writer, issues []Issue) error {
	var (
		bold  = r.paint(color.Bold)
		red   = r.paint(color.FgRed, color.Bold)
		amber = r.paint(color.FgYellow, color.Bold)
		faint = r.paint(color.Faint)
		caret = r.paint(color.FgGreen)
	)

	for _, is := range issues {
		line, col := is.Position()

		sev := amber
		if is.Severity == rules.SeverityError {
			sev = red
		}

		_, err := fmt.Fprintf(w, "%s %s %s %s\n",
			bold.Sprintf("%s:%d:%d:", is.Path, line, col),
			sev.Sprintf("%s:", severityLabel(is.Severity)),
			is.Summary(),
			faint.Sprintf("(%s)", is.Diagnostic.Rule),
		)
		if err != nil {
			return err
		}

		if is.Diagnostic.IsFailure() {
			continue
		}
		if src, pad, width, ok := excerpt(is); ok {
			if _, err := fmt.Fprintf(w, "  %s\n  %s%s\n", src, pad, caret.Sprint(strings.Repeat("^", width))); err != nil {
				return err
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}

	errs, warnings := Count(issues)
	_, err := fmt.Fprintf(w, "\n%s\n", bold.Sprintf("%d %s (%d %s, %d %s)",
		len(issues), plural(len(issues), "problem"),
		errs, plural(errs, "error"),
		warnings, plural(warnings, "warning")))
	return err
}

func (r *TextReporter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// excerpt returns the content line holding the diagnostic start, the
// padding that aligns a caret under it, and the caret width. Tabs in the
// padding are kept so terminals expand them the same way.
func excerpt(is Issue) (src, pad string, width int, ok bool) {
	runes := []rune(is.Content)
	start := clamp(is.Diagnostic.Start, len(runes))
	end := clamp(is.Diagnostic.End, len(runes))

	lineStart := start
	for lineStart > 0 && runes[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := start
	for lineEnd < len(runes) && runes[lineEnd] != '\n' {
		lineEnd++
	}
	if lineStart == lineEnd {
		return "", "", 0, false
	}

	var b strings.Builder
	for _, r := range runes[lineStart:start] {
		if r == '\t' {
			b.WriteRune('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	end = min(max(end, start), lineEnd)
	width = runewidth.StringWidth(string(runes[start:end]))
	return string(runes[lineStart:lineEnd]), b.String(), max(width, 1), true
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
