// Package markdown contains the code-defined markdown lint rules and the
// diagnosis functions rule files can refer to by name.
package markdown

import (
	"fmt"
	"unicode/utf8"

	"github.com/donaldgifford/mdlint/internal/lint"
	"github.com/donaldgifford/mdlint/internal/parser"
	"github.com/donaldgifford/mdlint/internal/selector"
	"github.com/donaldgifford/mdlint/internal/walker"
)

// DefaultMaxParagraphLength is the long-paragraph limit when none is
// configured.
const DefaultMaxParagraphLength = 500

// LongParagraphName is the name of the rule built by LongParagraph.
const LongParagraphName = "long-paragraph"

// LongParagraph flags paragraphs longer than limit characters.
func LongParagraph(limit int) *lint.Rule {
	if limit <= 0 {
		limit = DefaultMaxParagraphLength
	}

	return lint.MustNew(lint.Options{
		Name:     LongParagraphName,
		Selector: selector.MustParse(parser.TypeParagraph),
		Pattern:  lint.MustCompilePattern(fmt.Sprintf("/^.{%d,}/s", limit+1)),
		Diagnosis: lint.Func(func(_ *walker.State, content string, _ []*parser.Node, _ *lint.PatternMatch) (lint.Result, error) {
			return lint.WholeContent{
				Message: fmt.Sprintf("paragraph is %d characters long (max %d)", utf8.RuneCountInString(content), limit),
			}, nil
		}),
	})
}
