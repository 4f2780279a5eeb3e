// Package rules manages the catalog of lint rules: the built-in rules,
// rules loaded from rule files, and the diagnosis functions rule files may
// refer to by name.
package rules

import (
	"fmt"
	"sort"
	"sync"

	"github.com/donaldgifford/mdlint/internal/lint"
	"github.com/donaldgifford/mdlint/internal/rulefile"
)

// Entry is a rule together with its catalog metadata.
type Entry struct {
	Rule     *lint.Rule
	Summary  string
	Severity Severity
}

// Name returns the rule name.
func (e *Entry) Name() string {
	return e.Rule.Name()
}

// Catalog is an ordered set of rules keyed by name. Adding a rule whose
// name is already present replaces it in place.
type Catalog struct {
	entries []*Entry
	index   map[string]int
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Add inserts or replaces an entry.
func (c *Catalog) Add(e *Entry) {
	if i, ok := c.index[e.Name()]; ok {
		c.entries[i] = e
		return
	}
	c.index[e.Name()] = len(c.entries)
	c.entries = append(c.entries, e)
}

// AddDefinitions builds and adds rules loaded from a rule file.
func (c *Catalog) AddDefinitions(defs []rulefile.Definition) error {
	for _, def := range defs {
		e, err := EntryFromDefinition(def)
		if err != nil {
			return err
		}
		c.Add(e)
	}
	return nil
}

// Lookup returns the entry with the given name.
func (c *Catalog) Lookup(name string) (*Entry, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.entries[i], true
}

// SetSeverity changes the severity of a rule. It returns false when the
// rule is unknown.
func (c *Catalog) SetSeverity(name string, s Severity) bool {
	e, ok := c.Lookup(name)
	if !ok {
		return false
	}
	clone := *e
	clone.Severity = s
	c.Add(&clone)
	return true
}

// Entries returns all entries in insertion order.
func (c *Catalog) Entries() []*Entry {
	out := make([]*Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Enabled returns the entries whose severity is not SeverityOff.
func (c *Catalog) Enabled() []*Entry {
	var out []*Entry
	for _, e := range c.entries {
		if e.Severity != SeverityOff {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a copy that can be modified independently.
func (c *Catalog) Clone() *Catalog {
	out := NewCatalog()
	for _, e := range c.entries {
		out.Add(e)
	}
	return out
}

// EntryFromDefinition builds a catalog entry from a rule file definition.
// Rules default to SeverityWarn.
func EntryFromDefinition(def rulefile.Definition) (*Entry, error) {
	sev, err := ParseSeverity(def.Severity, SeverityWarn)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", def.Name, err)
	}

	r, err := def.Build()
	if err != nil {
		return nil, err
	}
	return &Entry{Rule: r, Summary: def.Summary, Severity: sev}, nil
}

var (
	mu        sync.RWMutex
	builtin   = NewCatalog()
	lintFuncs = map[string]lint.DiagnoseFunc{}
)

// Register adds a built-in rule. Rules are evaluated in the order they
// are registered.
func Register(e *Entry) {
	mu.Lock()
	defer mu.Unlock()
	builtin.Add(e)
}

// Builtin returns a fresh copy of the built-in catalog.
func Builtin() *Catalog {
	mu.RLock()
	defer mu.RUnlock()
	return builtin.Clone()
}

// RegisterLintFunc makes a diagnosis function available to rule files
// under name.
func RegisterLintFunc(name string, fn lint.DiagnoseFunc) {
	mu.Lock()
	defer mu.Unlock()
	lintFuncs[name] = fn
}

// LintFunc returns the diagnosis function registered under name. It has
// the signature of rulefile.Resolver.
func LintFunc(name string) (lint.DiagnoseFunc, bool) {
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := lintFuncs[name]
	return fn, ok
}

// LintFuncNames returns the registered function names, sorted.
func LintFuncNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(lintFuncs))
	for name := range lintFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
