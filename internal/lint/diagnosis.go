package lint

import (
	"github.com/donaldgifford/mdlint/internal/parser"
	"github.com/donaldgifford/mdlint/internal/walker"
)

// DiagnoseFunc decides whether a node that passed a rule's selector and
// pattern really violates the rule. selected holds the nodes matched by
// the selector, outermost first; match is the pattern match (or the whole
// content when the rule has no pattern).
//
// A DiagnoseFunc fails by returning an error or by panicking. Either way
// Check reports the failure as a diagnostic instead of propagating it.
type DiagnoseFunc func(state *walker.State, content string, selected []*parser.Node, match *PatternMatch) (Result, error)

// Result is what a DiagnoseFunc returns: NoViolation, WholeContent or Span.
// A nil Result is treated as NoViolation.
type Result interface {
	result()
}

type noViolation struct{}

// NoViolation reports that the node is fine.
var NoViolation Result = noViolation{}

// WholeContent reports a violation spanning the whole content.
type WholeContent struct {
	Message string
}

// Span reports a violation covering [Start, End) of the content, in runes.
type Span struct {
	Message string
	Start   int
	End     int
}

func (noViolation) result()  {}
func (WholeContent) result() {}
func (Span) result()         {}

// DiagnosisSpec is either a diagnosis function (Func) or a static
// message (Message). A nil DiagnosisSpec behaves like an empty Message.
type DiagnosisSpec interface {
	diagnosisSpec()
}

// Func uses a custom diagnosis function.
type Func DiagnoseFunc

// Message reports every selector and pattern match with a fixed message,
// spanning the matched text.
type Message string

func (Func) diagnosisSpec()    {}
func (Message) diagnosisSpec() {}

// diagnoseStatic is the diagnosis function of static-message rules.
func (r *Rule) diagnoseStatic(_ *walker.State, _ string, _ []*parser.Node, match *PatternMatch) (Result, error) {
	return Span{
		Message: r.message,
		Start:   match.Index,
		End:     match.End(),
	}, nil
}
