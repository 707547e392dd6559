// Package findings defines issues raised by rules and the collector that gathers them.
package findings

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity ranks an issue. Higher values are more severe.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lower-case name of a Severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// ParseSeverity converts a string into a Severity value.
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info", "note":
		return SeverityInfo, nil
	default:
		return SeverityInfo, fmt.Errorf("unsupported severity %q", raw)
	}
}

// MarshalJSON encodes a Severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a Severity from its name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Issue is a single rule violation. Line 0 means the whole artifact.
type Issue struct {
	Rule     string   `json:"category"`
	Severity Severity `json:"severity"`
	Line     int      `json:"line"`
	Message  string   `json:"message"`
}

// New creates an Issue with a formatted message.
func New(rule string, severity Severity, line int, format string, args ...interface{}) Issue {
	return Issue{
		Rule:     rule,
		Severity: severity,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	}
}

// String renders the issue in the canonical one-line form.
func (i Issue) String() string {
	return fmt.Sprintf("[%s] L%d %s: %s", strings.ToUpper(i.Severity.String()), i.Line, i.Rule, i.Message)
}
