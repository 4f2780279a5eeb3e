package lint

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// ErrInvalidFlag is returned when a delimited pattern carries an unknown flag.
var ErrInvalidFlag = errors.New("invalid pattern flag")

// matchTimeout bounds a single Find. Backreferences and nested
// quantifiers can backtrack for a very long time on hostile input.
var matchTimeout = 2 * time.Second

// Pattern is a compiled content pattern. Offsets reported by matches are
// rune offsets into the searched string.
//
// Patterns use the regexp2 engine in its RE2 compatibility mode: \d, \s
// and \w are ASCII classes and $ without the m flag only matches at the
// very end of the content. Backreferences and look-around are available.
type Pattern struct {
	re     *regexp2.Regexp
	source string
	flags  string
}

// Source returns the pattern source without delimiters or flags.
func (p *Pattern) Source() string { return p.source }

// Flags returns the flag set the pattern was compiled with.
func (p *Pattern) Flags() string { return p.flags }

// String returns the pattern in delimited "/source/flags" form.
func (p *Pattern) String() string {
	return "/" + p.source + "/" + p.flags
}

// Find returns the first match of the pattern in s, or nil when there is
// none. An error is only returned when the regexp engine gives up, e.g.
// on a match timeout.
func (p *Pattern) Find(s string) (*PatternMatch, error) {
	m, err := p.re.FindStringMatch(s)
	if err != nil || m == nil {
		return nil, err
	}

	groups := m.Groups()
	pm := &PatternMatch{
		Groups: make([]string, len(groups)),
		Index:  m.Index,
		Input:  s,
	}
	for i, g := range groups {
		pm.Groups[i] = g.String()
	}
	return pm, nil
}

// PatternMatch is the outcome of testing a rule's pattern against a node's
// content. Rules without a pattern receive a match covering the whole
// content.
type PatternMatch struct {
	// Groups holds the matched text followed by each capture group.
	Groups []string
	// Index is the rune offset of the match within Input.
	Index int
	// Input is the content that was searched.
	Input string
}

// Text returns the overall matched substring.
func (m *PatternMatch) Text() string {
	if len(m.Groups) == 0 {
		return ""
	}
	return m.Groups[0]
}

// End returns the rune offset just past the match.
func (m *PatternMatch) End() int {
	return m.Index + utf8.RuneCountInString(m.Text())
}

// wholeContentMatch is the match used when a rule has no pattern.
func wholeContentMatch(content string) *PatternMatch {
	return &PatternMatch{
		Groups: []string{content},
		Index:  0,
		Input:  content,
	}
}

// PatternSpec describes a pattern before compilation: either an already
// compiled Pattern or pattern source text with flags. A nil PatternSpec
// means the rule has no pattern.
type PatternSpec interface {
	patternSpec()
}

// Compiled wraps a pattern that is already compiled.
type Compiled struct {
	Pattern *Pattern
}

// Source is uncompiled pattern source text plus its flags.
type Source struct {
	Text  string
	Flags string
}

func (Compiled) patternSpec() {}
func (Source) patternSpec()   {}

// ParsePatternSpec converts the string form used in rule files into a
// PatternSpec. An empty string yields nil. A string starting with '/' and
// containing another '/' is read as "/source/flags", splitting at the last
// delimiter; any other string is flagless source.
func ParsePatternSpec(s string) PatternSpec {
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "/") {
		if last := strings.LastIndex(s, "/"); last > 0 {
			return Source{Text: s[1:last], Flags: s[last+1:]}
		}
	}
	return Source{Text: s}
}

// CompilePattern turns a PatternSpec into a Pattern. A nil spec, or source
// with empty text, yields a nil Pattern. A Compiled spec is returned
// unchanged.
func CompilePattern(spec PatternSpec) (*Pattern, error) {
	switch s := spec.(type) {
	case nil:
		return nil, nil
	case Compiled:
		return s.Pattern, nil
	case Source:
		if s.Text == "" {
			return nil, nil
		}
		return compileSource(s.Text, s.Flags)
	default:
		return nil, fmt.Errorf("unsupported pattern spec %T", spec)
	}
}

// MustCompilePattern is like CompilePattern for a rule-file style string
// and panics on error. It is intended for patterns fixed at compile time.
func MustCompilePattern(s string) *Pattern {
	p, err := CompilePattern(ParsePatternSpec(s))
	if err != nil {
		panic(err)
	}
	return p
}

func compileSource(source, flags string) (*Pattern, error) {
	opts := regexp2.RE2
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'x':
			opts |= regexp2.IgnorePatternWhitespace
		case 'g', 'u', 'y':
			// Accepted and ignored; a rule only looks at the first match.
		default:
			return nil, fmt.Errorf("%w %q in /%s/%s", ErrInvalidFlag, f, source, flags)
		}
	}

	re, err := regexp2.Compile(source, opts)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern /%s/%s: %w", source, flags, err)
	}
	re.MatchTimeout = matchTimeout
	return &Pattern{re: re, source: source, flags: flags}, nil
}
