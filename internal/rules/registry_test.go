package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/mdlint/internal/lint"
	"github.com/donaldgifford/mdlint/internal/parser"
	"github.com/donaldgifford/mdlint/internal/rulefile"
	"github.com/donaldgifford/mdlint/internal/selector"
	"github.com/donaldgifford/mdlint/internal/walker"
)

func names(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name()
	}
	return out
}

func TestBuiltinCatalog(t *testing.T) {
	c := Builtin()

	assert.Equal(t, []string{
		"nested-lists",
		"no-todo",
		"heading-punctuation",
		"no-hard-tabs",
		"no-multiple-spaces",
		"no-empty-links",
		"heading-all-caps",
		"long-paragraph",
		"duplicate-word",
	}, names(c.Entries()))

	e, ok := c.Lookup("no-empty-links")
	require.True(t, ok)
	assert.Equal(t, SeverityError, e.Severity)
	assert.Equal(t, "Links need visible text.", e.Summary)

	assert.NotContains(t, names(c.Enabled()), "no-multiple-spaces")
}

func TestBuiltinIsCopied(t *testing.T) {
	c := Builtin()
	require.True(t, c.SetSeverity("no-todo", SeverityOff))

	e, ok := Builtin().Lookup("no-todo")
	require.True(t, ok)
	assert.Equal(t, SeverityWarn, e.Severity)
}

func TestCatalogAddReplacesInPlace(t *testing.T) {
	sel := selector.MustParse("paragraph")
	a := &Entry{Rule: lint.MustNew(lint.Options{Name: "a", Selector: sel}), Severity: SeverityWarn}
	b := &Entry{Rule: lint.MustNew(lint.Options{Name: "b", Selector: sel}), Severity: SeverityWarn}
	a2 := &Entry{Rule: lint.MustNew(lint.Options{Name: "a", Selector: sel}), Severity: SeverityError}

	c := NewCatalog()
	c.Add(a)
	c.Add(b)
	c.Add(a2)

	assert.Equal(t, []string{"a", "b"}, names(c.Entries()))
	got, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Same(t, a2, got)

	assert.False(t, c.SetSeverity("missing", SeverityOff))
	_, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestAddDefinitions(t *testing.T) {
	f, err := rulefile.Decode([]byte(`rules:
  - name: no-todo
    pattern: TODO
    message: custom todo
    severity: error
  - name: custom-empty
    selector: heading
    lint: empty
`), rulefile.FormatYAML)
	require.NoError(t, err)

	defs, err := f.Definitions(LintFunc)
	require.NoError(t, err)

	c := Builtin()
	require.NoError(t, c.AddDefinitions(defs))

	e, ok := c.Lookup("no-todo")
	require.True(t, ok)
	assert.Equal(t, "custom todo", e.Rule.Message())
	assert.Equal(t, SeverityError, e.Severity)

	last := c.Entries()[len(c.Entries())-1]
	assert.Equal(t, "custom-empty", last.Name())
	assert.Equal(t, SeverityWarn, last.Severity)

	d := last.Rule.Check(nil, walker.NewState(&parser.Node{Type: parser.TypeHeading}), "")
	require.NotNil(t, d)
	assert.Equal(t, "heading has no text", d.Message)
}

func TestEntryFromDefinitionBadSeverity(t *testing.T) {
	_, err := EntryFromDefinition(rulefile.Definition{
		Description: lint.Description{Name: "x", Selector: "text"},
		Severity:    "loud",
	})
	assert.Error(t, err)
}

func TestLintFuncs(t *testing.T) {
	assert.Equal(t, []string{"all-caps", "empty"}, LintFuncNames())

	fn, ok := LintFunc("empty")
	require.True(t, ok)
	assert.NotNil(t, fn)

	_, ok = LintFunc("nope")
	assert.False(t, ok)
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
		err  bool
	}{
		{"", SeverityWarn, false},
		{"off", SeverityOff, false},
		{"warn", SeverityWarn, false},
		{"Warning", SeverityWarn, false},
		{" error ", SeverityError, false},
		{"fatal", SeverityWarn, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in, SeverityWarn)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(9).String())
}
