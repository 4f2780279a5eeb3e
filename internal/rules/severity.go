package rules

import (
	"fmt"
	"strings"
)

// Severity controls whether a rule runs and how its findings count.
type Severity int

const (
	// SeverityOff disables a rule.
	SeverityOff Severity = iota
	// SeverityWarn reports findings without failing the run.
	SeverityWarn
	// SeverityError reports findings and fails the run.
	SeverityError
)

// String returns the config spelling of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity parses "off", "warn"/"warning" or "error". An empty string
// yields def.
func ParseSeverity(s string, def Severity) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "off", "none", "disable", "disabled":
		return SeverityOff, nil
	case "warn", "warning":
		return SeverityWarn, nil
	case "error", "err":
		return SeverityError, nil
	default:
		return def, fmt.Errorf("invalid severity %q (want off, warn or error)", s)
	}
}
