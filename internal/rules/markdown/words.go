package markdown

import (
	"fmt"
	"strings"

	"github.com/donaldgifford/mdlint/internal/lint"
	"github.com/donaldgifford/mdlint/internal/parser"
	"github.com/donaldgifford/mdlint/internal/selector"
	"github.com/donaldgifford/mdlint/internal/walker"
)

// DuplicateWord flags a word repeated back to back ("the the").
func DuplicateWord() *lint.Rule {
	return lint.MustNew(lint.Options{
		Name:     "duplicate-word",
		Selector: selector.MustParse(parser.TypeText),
		Pattern:  lint.MustCompilePattern(`/\b(\w+)\s+\1\b/i`),
		Diagnosis: lint.Func(func(_ *walker.State, _ string, _ []*parser.Node, m *lint.PatternMatch) (lint.Result, error) {
			return lint.Span{
				Message: fmt.Sprintf("duplicate word %q", strings.ToLower(m.Groups[1])),
				Start:   m.Index,
				End:     m.End(),
			}, nil
		}),
	})
}
