package lint

import (
	"fmt"
	"runtime/debug"
	"unicode/utf8"

	"github.com/donaldgifford/mdlint/internal/logging"
	"github.com/donaldgifford/mdlint/internal/parser"
	"github.com/donaldgifford/mdlint/internal/walker"
)

// FailureRule is the rule name of diagnostics reporting a rule that failed
// while being evaluated.
const FailureRule = "lint-rule-failure"

// Diagnostic is a single rule violation within a node's content. Start and
// End are rune offsets into that content.
type Diagnostic struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// IsFailure reports whether the diagnostic describes a failing rule rather
// than a violation.
func (d *Diagnostic) IsFailure() bool {
	return d.Rule == FailureRule
}

// Check evaluates the rule at one node. content is the node's rendered
// text and state its position in the walk; a nil state evaluates node as
// a root, and a nil node as well gives an empty stack that no selector
// matches. It returns nil when the rule does not apply or finds nothing.
//
// Check never panics because of a diagnosis function: failures are
// returned as a diagnostic named FailureRule spanning the whole content.
func (r *Rule) Check(node *parser.Node, state *walker.State, content string) *Diagnostic {
	if state == nil {
		state = walker.NewState()
		if node != nil {
			state = walker.NewState(node)
		}
	}

	selected := r.selector.Match(state)
	if selected == nil {
		return nil
	}

	match := wholeContentMatch(content)
	if r.pattern != nil {
		m, err := r.pattern.Find(content)
		if err != nil {
			return r.failure(content, &Error{Rule: r.name, Err: err})
		}
		if m == nil {
			return nil
		}
		match = m
	}

	res, err := r.invoke(state, content, selected, match)
	if err != nil {
		return r.failure(content, err)
	}

	switch v := res.(type) {
	case nil, noViolation:
		return nil
	case WholeContent:
		return &Diagnostic{Rule: r.name, Message: v.Message, Start: 0, End: runeLen(content)}
	case Span:
		// Spans are passed through as given, even when they fall outside
		// the content.
		return &Diagnostic{Rule: r.name, Message: v.Message, Start: v.Start, End: v.End}
	default:
		return r.failure(content, &Error{Rule: r.name, Err: fmt.Errorf("unsupported result type %T", res)})
	}
}

// invoke runs the diagnosis function, turning a panic into an *Error.
func (r *Rule) invoke(state *walker.State, content string, selected []*parser.Node, match *PatternMatch) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &Error{Rule: r.name, Err: panicError(p), Stack: debug.Stack()}
		}
	}()

	res, err = r.diagnose(state, content, selected, match)
	if err != nil {
		err = &Error{Rule: r.name, Err: err, Stack: debug.Stack()}
	}
	return res, err
}

func (r *Rule) failure(content string, err error) *Diagnostic {
	logger := logging.GetLogger("lint")
	logger.Debug().Err(err).Str("rule", r.name).Msg("Rule failed")

	return &Diagnostic{
		Rule:    FailureRule,
		Message: err.Error(),
		Start:   0,
		End:     runeLen(content),
	}
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
