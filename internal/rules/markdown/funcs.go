package markdown

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/donaldgifford/mdlint/internal/lint"
	"github.com/donaldgifford/mdlint/internal/parser"
	"github.com/donaldgifford/mdlint/internal/walker"
)

// minCapsLetters is the number of letters a heading needs before AllCaps
// considers it shouting; short acronyms like "API" are fine.
const minCapsLetters = 4

// Empty reports nodes whose content is blank, e.g. links without text.
func Empty(state *walker.State, content string, _ []*parser.Node, _ *lint.PatternMatch) (lint.Result, error) {
	if strings.TrimSpace(content) != "" {
		return lint.NoViolation, nil
	}
	return lint.WholeContent{Message: fmt.Sprintf("%s has no text", state.Node().Type)}, nil
}

// AllCaps reports content written entirely in capital letters.
func AllCaps(_ *walker.State, content string, _ []*parser.Node, _ *lint.PatternMatch) (lint.Result, error) {
	letters := 0
	for _, r := range content {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return lint.NoViolation, nil
		}
		letters++
	}
	if letters < minCapsLetters {
		return lint.NoViolation, nil
	}
	return lint.WholeContent{Message: "avoid writing in all caps"}, nil
}
