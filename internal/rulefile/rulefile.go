// Package rulefile loads data-defined lint rules from YAML, TOML or JSON.
//
// A rule file holds a list of rules:
//
//	rules:
//	  - name: no-todo
//	    pattern: /\bTODO\b/
//	    message: resolve TODO markers
//	    severity: warn
//	  - name: nested-lists
//	    selector: list list
//	    message: avoid nested lists
//
// A rule whose logic does not fit in a pattern and a message may name a
// diagnosis function registered in Go with "lint".
package rulefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/mdlint/internal/lint"
)

var (
	// ErrUnknownFormat is returned for files whose extension is not a
	// supported rule file format.
	ErrUnknownFormat = errors.New("unknown rule file format")
	// ErrUnknownLintFunc is returned when a rule names a diagnosis
	// function that is not registered.
	ErrUnknownLintFunc = errors.New("unknown lint function")
	// ErrMissingName is returned for rules without a name.
	ErrMissingName = errors.New("rule has no name")
)

// Format is a rule file encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// RuleSpec is a rule as written in a rule file.
type RuleSpec struct {
	Name        string `yaml:"name" toml:"name" json:"name"`
	Description string `yaml:"description" toml:"description" json:"description"`
	Selector    string `yaml:"selector" toml:"selector" json:"selector"`
	Pattern     string `yaml:"pattern" toml:"pattern" json:"pattern"`
	Message     string `yaml:"message" toml:"message" json:"message"`
	Lint        string `yaml:"lint" toml:"lint" json:"lint"`
	Severity    string `yaml:"severity" toml:"severity" json:"severity"`
}

// File is the top-level document of a rule file.
type File struct {
	Rules []RuleSpec `yaml:"rules" toml:"rules" json:"rules"`
}

// Resolver looks up a diagnosis function by the name used in rule files.
type Resolver func(name string) (lint.DiagnoseFunc, bool)

// Definition is a rule file entry resolved into a rule description plus
// the metadata the catalog keeps alongside the rule.
type Definition struct {
	lint.Description
	Summary  string
	Severity string
}

// Decode parses rule file data in the given format.
func Decode(data []byte, format Format) (*File, error) {
	var f File
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	case FormatTOML:
		err = toml.Unmarshal(data, &f)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s rules: %w", format, err)
	}
	return &f, nil
}

// Definitions resolves every rule spec of f. Lint function names are
// looked up with resolve, which may be nil when no functions are
// available.
func (f *File) Definitions(resolve Resolver) ([]Definition, error) {
	defs := make([]Definition, 0, len(f.Rules))
	for i, spec := range f.Rules {
		def, err := spec.Definition(resolve)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Definition resolves a single spec.
func (s RuleSpec) Definition(resolve Resolver) (Definition, error) {
	if s.Name == "" {
		return Definition{}, ErrMissingName
	}

	def := Definition{
		Description: lint.Description{
			Name:     s.Name,
			Selector: s.Selector,
			Pattern:  lint.ParsePatternSpec(s.Pattern),
			Message:  s.Message,
		},
		Summary:  s.Description,
		Severity: s.Severity,
	}

	if s.Lint != "" {
		var fn lint.DiagnoseFunc
		ok := false
		if resolve != nil {
			fn, ok = resolve(s.Lint)
		}
		if !ok {
			return Definition{}, fmt.Errorf("%s: %w %q", s.Name, ErrUnknownLintFunc, s.Lint)
		}
		def.Lint = fn
	}
	return def, nil
}

// Build compiles a definition into a rule.
func (d Definition) Build() (*lint.Rule, error) {
	return lint.FromDescription(d.Description)
}

// Load reads and resolves the rule file at path. The format is taken from
// the file extension.
func Load(path string, resolve Resolver) ([]Definition, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file %s: %w", path, err)
	}

	f, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing rule file %s: %w", path, err)
	}

	defs, err := f.Definitions(resolve)
	if err != nil {
		return nil, fmt.Errorf("rule file %s: %w", path, err)
	}
	return defs, nil
}
