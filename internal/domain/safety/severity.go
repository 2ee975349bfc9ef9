package safety

import (
	"fmt"
	"strings"
)

// Severity is the tier assigned to alerts, incidents and scenarios.
type Severity string

// Severity tiers, ordered from least to most urgent.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ParseSeverity converts string input to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityLow:
		return SeverityLow, nil
	case SeverityMedium:
		return SeverityMedium, nil
	case SeverityHigh:
		return SeverityHigh, nil
	case SeverityCritical:
		return SeverityCritical, nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}

// Valid reports whether the severity is one of the known tiers.
func (s Severity) Valid() bool {
	_, err := ParseSeverity(string(s))

	return err == nil
}
