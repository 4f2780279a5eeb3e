package lint

import (
	"fmt"

	"github.com/donaldgifford/mdlint/internal/selector"
)

// Description is the data form of a rule, as found in rule files. Exactly
// one of Message and Lint is normally set; with neither, the rule reports
// every match with an empty message.
type Description struct {
	Name     string
	Selector string      // Selector query; empty for the default selector.
	Pattern  PatternSpec // Nil for no pattern.
	Message  string
	Lint     DiagnoseFunc
}

// FromDescription builds a rule from its data form. Selector syntax errors
// and pattern compile errors are returned.
func FromDescription(d Description) (*Rule, error) {
	opts := Options{Name: d.Name}

	if d.Selector != "" {
		sel, err := selector.Parse(d.Selector)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", d.Name, err)
		}
		opts.Selector = sel
	}

	pat, err := CompilePattern(d.Pattern)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", d.Name, err)
	}
	opts.Pattern = pat

	if d.Lint != nil {
		opts.Diagnosis = Func(d.Lint)
	} else {
		opts.Diagnosis = Message(d.Message)
	}

	r, err := New(opts)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", d.Name, err)
	}
	return r, nil
}
