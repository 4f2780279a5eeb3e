package lint

import (
	"errors"
	"fmt"
	"strings"
)

// Error describes a rule that failed during evaluation.
type Error struct {
	Rule  string
	Err   error
	Stack []byte // Goroutine stack where the failure was caught, if any.
}

// Error includes the rule name, the cause and, when known, the stack. A
// cause that formats itself with a trace under %+v keeps that trace.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rule %q failed: %v", e.Rule, e.Err)

	if detailed := fmt.Sprintf("%+v", e.Err); detailed != e.Err.Error() {
		b.WriteString("\n")
		b.WriteString(detailed)
	}
	if len(e.Stack) > 0 {
		b.WriteString("\n")
		b.Write(e.Stack)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// PanicError wraps a value recovered from a panicking diagnosis function.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func panicError(v any) error {
	return &PanicError{Value: v}
}

// IsPanic reports whether err came from a panicking diagnosis function.
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}
