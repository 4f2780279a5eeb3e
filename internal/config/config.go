// Package config defines the configuration types and defaults for mdlint.
package config

import (
	"fmt"

	"github.com/donaldgifford/mdlint/internal/rules"
	"github.com/donaldgifford/mdlint/internal/rules/markdown"
)

// Config is the top-level configuration.
type Config struct {
	Lint   LintConfig   `koanf:"lint"`
	Output OutputConfig `koanf:"output"`
}

// LintConfig holds rule selection and file discovery settings.
type LintConfig struct {
	// Rules maps rule names to a severity: off, warn or error.
	Rules              map[string]string `koanf:"rules"`
	RuleFiles          []string          `koanf:"rule_files"`
	Exclude            []string          `koanf:"exclude"`
	Extensions         []string          `koanf:"extensions"`
	Jobs               int               `koanf:"jobs"`
	MaxParagraphLength int               `koanf:"max_paragraph_length"`
}

// OutputConfig holds reporting settings.
type OutputConfig struct {
	Format string `koanf:"format"` // text, json or checkstyle.
	Color  string `koanf:"color"`  // auto, always or never.
}

// Output formats.
const (
	FormatText       = "text"
	FormatJSON       = "json"
	FormatCheckstyle = "checkstyle"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Lint: LintConfig{
			Rules:              map[string]string{},
			Extensions:         []string{".md", ".markdown"},
			Jobs:               0,
			MaxParagraphLength: markdown.DefaultMaxParagraphLength,
		},
		Output: OutputConfig{
			Format: FormatText,
			Color:  ColorAuto,
		},
	}
}

// defaultMap is DefaultConfig in the flat key form koanf loads. Empty
// collections are left out so they decode to their zero values.
func defaultMap() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"lint.extensions":           d.Lint.Extensions,
		"lint.jobs":                 d.Lint.Jobs,
		"lint.max_paragraph_length": d.Lint.MaxParagraphLength,
		"output.format":             d.Output.Format,
		"output.color":              d.Output.Color,
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatCheckstyle:
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}

	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color: unknown mode %q", c.Output.Color)
	}

	if c.Lint.Jobs < 0 {
		return fmt.Errorf("lint.jobs: must not be negative, got %d", c.Lint.Jobs)
	}
	if c.Lint.MaxParagraphLength < 0 {
		return fmt.Errorf("lint.max_paragraph_length: must not be negative, got %d", c.Lint.MaxParagraphLength)
	}

	for name, sev := range c.Lint.Rules {
		if _, err := rules.ParseSeverity(sev, rules.SeverityWarn); err != nil {
			return fmt.Errorf("lint.rules.%s: %w", name, err)
		}
	}
	return nil
}
