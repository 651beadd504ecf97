package types

import "fmt"

// AcceptanceSource records where a risk acceptance originated. Immutable
// after creation.
type AcceptanceSource string

const (
	SourceRiskRegister   AcceptanceSource = "RISK_REGISTER"
	SourceControlTesting AcceptanceSource = "CONTROL_TESTING"
	SourceIncident       AcceptanceSource = "INCIDENT"
	SourceAdHoc          AcceptanceSource = "AD_HOC"
)

// AllAcceptanceSources returns all valid acceptance sources
func AllAcceptanceSources() []AcceptanceSource {
	return []AcceptanceSource{
		SourceRiskRegister,
		SourceControlTesting,
		SourceIncident,
		SourceAdHoc,
	}
}

// IsValid checks if the acceptance source is valid
func (s AcceptanceSource) IsValid() bool {
	switch s {
	case SourceRiskRegister,
		SourceControlTesting,
		SourceIncident,
		SourceAdHoc:
		return true
	default:
		return false
	}
}

// String returns the string representation of the acceptance source
func (s AcceptanceSource) String() string {
	return string(s)
}

// ParseAcceptanceSource parses a string into an AcceptanceSource
func ParseAcceptanceSource(s string) (AcceptanceSource, error) {
	source := AcceptanceSource(s)
	if !source.IsValid() {
		return "", fmt.Errorf("invalid acceptance source: %s", s)
	}
	return source, nil
}
