package rules

import (
	_ "embed"
	"fmt"

	"github.com/donaldgifford/mdlint/internal/rulefile"
)

//go:embed builtin.yml
var builtinRules []byte

// builtinDefinitions decodes the embedded rule file.
func builtinDefinitions() ([]rulefile.Definition, error) {
	f, err := rulefile.Decode(builtinRules, rulefile.FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("built-in rules: %w", err)
	}
	return f.Definitions(LintFunc)
}
