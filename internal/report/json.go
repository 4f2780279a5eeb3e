package report

import (
	"encoding/json"
	"io"
)

// JSONReporter writes issues as a JSON array.
type JSONReporter struct{}

type jsonIssue struct {
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// Report implements Reporter.
func (r *JSONReporter) Report(w io.Writer, issues []Issue) error {
	out := make([]jsonIssue, 0, len(issues))
	for _, is := range issues {
		line, col := is.Position()
		out = append(out, jsonIssue{
			Path:     is.Path,
			Line:     line,
			Column:   col,
			Severity: is.Severity.String(),
			Rule:     is.Diagnostic.Rule,
			Message:  is.Diagnostic.Message,
			Start:    is.Diagnostic.Start,
			End:      is.Diagnostic.End,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
