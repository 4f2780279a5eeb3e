package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/mdlint/internal/config"
	"github.com/donaldgifford/mdlint/internal/lint"
	"github.com/donaldgifford/mdlint/internal/logging"
	"github.com/donaldgifford/mdlint/internal/parser"
	"github.com/donaldgifford/mdlint/internal/rules"
	"github.com/donaldgifford/mdlint/internal/selector"
	"github.com/donaldgifford/mdlint/internal/walker"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// emptyConfig returns the path of a config file holding only defaults so
// tests do not pick up a config from the environment.
func emptyConfig(t *testing.T, content string) string {
	t.Helper()
	return writeFile(t, filepath.Join(t.TempDir(), "mdlint.yml"), content)
}

func run(t *testing.T, opts *Options) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	opts.Stdout = &out
	opts.Stderr = &errOut
	if opts.ConfigPath == "" {
		opts.ConfigPath = emptyConfig(t, "")
	}
	code = Run(context.Background(), opts)
	return code, out.String(), errOut.String()
}

func TestRunCleanFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "clean.md"), "# Title\n\nSome text.\n")

	code, stdout, stderr := run(t, &Options{Paths: []string{path}})
	assert.Equal(t, ExitOK, code, stderr)
	assert.Empty(t, stdout)
}

func TestRunWarningsOnly(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "notes.md"), "Intro.\n\nThis is a FIXME note.\n")

	code, stdout, _ := run(t, &Options{Paths: []string{path}})
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "notes.md:3:11: warning:")
	assert.Contains(t, stdout, "(no-todo)")
}

func TestRunErrorSeverity(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "dup.md"), "This is is wrong.\n")

	code, stdout, _ := run(t, &Options{Paths: []string{path}})
	assert.Equal(t, ExitIssues, code)
	assert.Contains(t, stdout, `error: duplicate word "is" (duplicate-word)`)
}

func TestRunSeverityOverride(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "notes.md"), "A TODO here.\n")

	cfg := emptyConfig(t, "lint:\n  rules:\n    no-todo: error\n")
	code, stdout, _ := run(t, &Options{Paths: []string{path}, ConfigPath: cfg})
	assert.Equal(t, ExitIssues, code)
	assert.Contains(t, stdout, "error:")

	cfg = emptyConfig(t, "lint:\n  rules:\n    no-todo: off\n")
	code, stdout, _ = run(t, &Options{Paths: []string{path}, ConfigPath: cfg})
	assert.Equal(t, ExitOK, code)
	assert.Empty(t, stdout)
}

func TestRunUnknownRuleOverride(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.md"), "text\n")

	cfg := emptyConfig(t, "lint:\n  rules:\n    no-such-rule: error\n")
	code, _, stderr := run(t, &Options{Paths: []string{path}, ConfigPath: cfg})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "no-such-rule")
}

func TestRunQuiet(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "notes.md"), "A TODO here.\n")

	code, stdout, _ := run(t, &Options{Paths: []string{path}, Quiet: true})
	assert.Equal(t, ExitOK, code)
	assert.Empty(t, stdout)
}

func TestRunJSON(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "notes.md"), "A TODO here.\n")

	code, stdout, _ := run(t, &Options{Paths: []string{path}, Format: "json"})
	assert.Equal(t, ExitOK, code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "no-todo", got[0]["rule"])
	assert.Equal(t, path, got[0]["path"])
	assert.Equal(t, float64(2), got[0]["start"])
	assert.Equal(t, float64(6), got[0]["end"])
}

func TestRunInvalidFormat(t *testing.T) {
	code, _, stderr := run(t, &Options{Stdin: strings.NewReader(""), Format: "sarif"})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "output.format")
}

func TestRunStdin(t *testing.T) {
	code, stdout, _ := run(t, &Options{Stdin: strings.NewReader("# Setup.\n")})
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "<stdin>:1:")
	assert.Contains(t, stdout, "(heading-punctuation)")
}

func TestRunMissingFile(t *testing.T) {
	code, _, stderr := run(t, &Options{Paths: []string{"/nonexistent/path/test.md"}})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "mdlint:")
}

func TestRunRuleFile(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, filepath.Join(dir, "team.yml"), `rules:
  - name: no-draft-headings
    description: Headings must not mark drafts.
    selector: heading
    pattern: /draft/i
    message: remove the draft marker
    severity: error
`)
	path := writeFile(t, filepath.Join(dir, "doc.md"), "# Draft plan\n")

	code, stdout, stderr := run(t, &Options{Paths: []string{path}, RuleFiles: []string{rulesPath}})
	assert.Equal(t, ExitIssues, code, stderr)
	assert.Contains(t, stdout, "remove the draft marker (no-draft-headings)")
}

func TestRunRuleFileFromConfig(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, filepath.Join(dir, "team.toml"), `[[rules]]
name = "no-foo"
pattern = "/foo/"
message = "no foo"
`)
	cfg := emptyConfig(t, "lint:\n  rule_files:\n    - "+rulesPath+"\n")
	path := writeFile(t, filepath.Join(dir, "doc.md"), "a foo b\n")

	code, stdout, stderr := run(t, &Options{Paths: []string{path}, ConfigPath: cfg})
	assert.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "doc.md:1:3: warning: no foo (no-foo)")
}

func TestRunBadRuleFile(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, filepath.Join(dir, "bad.yml"), "rules:\n  - name: broken\n    pattern: /(/\n")

	code, _, stderr := run(t, &Options{Stdin: strings.NewReader(""), RuleFiles: []string{rulesPath}})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "broken")
}

func TestRunDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "A TODO.\n")
	writeFile(t, filepath.Join(dir, "sub", "b.markdown"), "Dup dup word.\n")
	writeFile(t, filepath.Join(dir, "vendor", "c.md"), "A TODO.\n")

	cfg := emptyConfig(t, "lint:\n  exclude:\n    - vendor/**\n")
	code, stdout, _ := run(t, &Options{Paths: []string{dir}, ConfigPath: cfg, Jobs: 2})
	assert.Equal(t, ExitIssues, code)
	assert.Contains(t, stdout, "a.md:1:")
	assert.Contains(t, stdout, "b.markdown:1:")
	assert.NotContains(t, stdout, "c.md")

	// Issues are sorted by path.
	assert.Less(t, strings.Index(stdout, "a.md"), strings.Index(stdout, "b.markdown"))
}

func TestRunVerbose(t *testing.T) {
	var logs bytes.Buffer
	logging.SetupLogger(&logs, 1)
	t.Cleanup(func() { logging.SetupLogger(io.Discard, 0) })

	path := writeFile(t, filepath.Join(t.TempDir(), "verbose.md"), "text\n")
	_, _, _ = run(t, &Options{Paths: []string{path}})

	assert.Contains(t, logs.String(), "verbose.md")
}

func TestRunCanceled(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.md"), "text\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	code := Run(ctx, &Options{
		Paths:      []string{path},
		ConfigPath: emptyConfig(t, ""),
		Stdout:     &out,
		Stderr:     &errOut,
	})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut.String(), context.Canceled.Error())
}

func TestLintReportsRuleFailures(t *testing.T) {
	broken := lint.MustNew(lint.Options{
		Name:     "broken",
		Selector: lint.DefaultSelector(),
		Diagnosis: lint.Func(func(*walker.State, string, []*parser.Node, *lint.PatternMatch) (lint.Result, error) {
			return nil, errors.New("boom")
		}),
	})
	entries := []*rules.Entry{{Rule: broken, Severity: rules.SeverityWarn}}

	issues := Lint("a.md", "hello\n", entries)
	require.Len(t, issues, 1)
	assert.Equal(t, lint.FailureRule, issues[0].Diagnostic.Rule)
	assert.Equal(t, rules.SeverityError, issues[0].Severity)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, 0, issues[0].Diagnostic.Start)
	assert.Equal(t, 5, issues[0].Diagnostic.End)
	assert.Contains(t, issues[0].Diagnostic.Message, "boom")
}

func TestLintLocatesLinesInsideContainers(t *testing.T) {
	quoteTodo := lint.MustNew(lint.Options{
		Name:      "quote-todo",
		Selector:  selector.MustParse("blockquote"),
		Pattern:   lint.MustCompilePattern("/TODO/"),
		Diagnosis: lint.Message("todo in quote"),
	})
	entries := []*rules.Entry{{Rule: quoteTodo, Severity: rules.SeverityWarn}}

	src := "# Notes\n\n> first\n>\n> second\n>\n> TODO here\n"
	issues := Lint("a.md", src, entries)
	require.Len(t, issues, 1)
	assert.Equal(t, 7, issues[0].Line)

	line, col := issues[0].Position()
	assert.Equal(t, 7, line)
	assert.Equal(t, 1, col)
}

func TestBuildCatalog(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Lint.MaxParagraphLength = 10
	cfg.Lint.Rules = map[string]string{"duplicate-word": "warn", "no-multiple-spaces": "error"}

	catalog, err := BuildCatalog(cfg)
	require.NoError(t, err)

	dup, ok := catalog.Lookup("duplicate-word")
	require.True(t, ok)
	assert.Equal(t, rules.SeverityWarn, dup.Severity)

	spaces, ok := catalog.Lookup("no-multiple-spaces")
	require.True(t, ok)
	assert.Equal(t, rules.SeverityError, spaces.Severity)

	long, ok := catalog.Lookup("long-paragraph")
	require.True(t, ok)
	issues := Lint("a.md", "This paragraph is long.\n", []*rules.Entry{long})
	require.Len(t, issues, 1)
	assert.Equal(t, "paragraph is 23 characters long (max 10)", issues[0].Diagnostic.Message)

	// The built-in catalog is untouched.
	builtin, ok := rules.Builtin().Lookup("duplicate-word")
	require.True(t, ok)
	assert.Equal(t, rules.SeverityError, builtin.Severity)
}

func TestListRules(t *testing.T) {
	var out, errOut bytes.Buffer
	code := ListRules(&Options{
		ConfigPath: emptyConfig(t, "lint:\n  rules:\n    no-todo: error\n"),
		Stdout:     &out,
		Stderr:     &errOut,
	})
	require.Equal(t, ExitOK, code, errOut.String())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))

	var todo string
	for _, l := range lines {
		if strings.HasPrefix(l, "no-todo ") {
			todo = l
		}
	}
	require.NotEmpty(t, todo)
	assert.Contains(t, todo, " error ")
	assert.Contains(t, out.String(), "long-paragraph")
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.md"), "")
	b := writeFile(t, filepath.Join(dir, "b.MARKDOWN"), "")
	writeFile(t, filepath.Join(dir, "c.txt"), "")
	writeFile(t, filepath.Join(dir, ".git", "x.md"), "")
	writeFile(t, filepath.Join(dir, "vendor", "v.md"), "")
	writeFile(t, filepath.Join(dir, "sub", "skip.draft.md"), "")
	d := writeFile(t, filepath.Join(dir, "sub", "d.md"), "")
	txt := writeFile(t, filepath.Join(t.TempDir(), "notes.txt"), "")

	got, err := Expand(
		[]string{dir, txt, a},
		[]string{".md", ".markdown"},
		[]string{"vendor/**", "*.draft.md"},
	)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b, d, txt}, got)
}

func TestExpandMissing(t *testing.T) {
	_, err := Expand([]string{"/nonexistent/dir"}, []string{".md"}, nil)
	assert.Error(t, err)
}
