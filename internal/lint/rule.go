// Package lint evaluates lint rules against the nodes of a markdown tree.
//
// A Rule combines a selector (which nodes), an optional pattern (which
// content) and a diagnosis function (is this a violation, and where).
// Rules are built once and evaluated with Check at every visited node.
package lint

import (
	"errors"
	"sync"

	"github.com/donaldgifford/mdlint/internal/parser"
	"github.com/donaldgifford/mdlint/internal/selector"
)

// UnnamedRule is the name given to rules built without one.
const UnnamedRule = "unnamed rule"

// ErrNoSelectorOrPattern is returned when a rule has neither a selector nor
// a pattern.
var ErrNoSelectorOrPattern = errors.New("rule needs a selector, a pattern, or both")

var defaultSelector = sync.OnceValue(func() *selector.Selector {
	return selector.MustParse(parser.TypeText)
})

// DefaultSelector returns the selector used by rules built without one. It
// matches text nodes.
func DefaultSelector() *selector.Selector {
	return defaultSelector()
}

// Rule is a single lint rule. It holds no per-call state and is safe for
// concurrent use once built.
type Rule struct {
	name     string
	selector *selector.Selector
	pattern  *Pattern
	diagnose DiagnoseFunc
	message  string // Only set for static-message rules.
}

// Options configures New.
type Options struct {
	// Name tags diagnostics. Defaults to UnnamedRule.
	Name string
	// Selector picks the nodes the rule applies to. Defaults to
	// DefaultSelector.
	Selector *selector.Selector
	// Pattern, when set, must match the node content for the rule to apply.
	Pattern *Pattern
	// Diagnosis is a Func or a Message.
	Diagnosis DiagnosisSpec
}

// New builds a rule. It fails with ErrNoSelectorOrPattern when neither a
// selector nor a pattern is given.
func New(opts Options) (*Rule, error) {
	if opts.Selector == nil && opts.Pattern == nil {
		return nil, ErrNoSelectorOrPattern
	}

	r := &Rule{
		name:     opts.Name,
		selector: opts.Selector,
		pattern:  opts.Pattern,
	}
	if r.name == "" {
		r.name = UnnamedRule
	}
	if r.selector == nil {
		r.selector = DefaultSelector()
	}

	switch d := opts.Diagnosis.(type) {
	case Func:
		if d != nil {
			r.diagnose = DiagnoseFunc(d)
			return r, nil
		}
	case Message:
		r.message = string(d)
	}
	r.diagnose = r.diagnoseStatic
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(opts Options) *Rule {
	r, err := New(opts)
	if err != nil {
		panic(err)
	}
	return r
}

// Name returns the rule name.
func (r *Rule) Name() string { return r.name }

// Selector returns the rule's selector.
func (r *Rule) Selector() *selector.Selector { return r.selector }

// Pattern returns the rule's pattern, or nil.
func (r *Rule) Pattern() *Pattern { return r.pattern }

// Message returns the static message of a message-based rule.
func (r *Rule) Message() string { return r.message }
