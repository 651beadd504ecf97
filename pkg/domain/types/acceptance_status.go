package types

import "fmt"

// AcceptanceStatus represents the workflow status of a risk acceptance
type AcceptanceStatus string

const (
	StatusProposed         AcceptanceStatus = "PROPOSED"
	StatusCCROReview       AcceptanceStatus = "CCRO_REVIEW"
	StatusAwaitingApproval AcceptanceStatus = "AWAITING_APPROVAL"
	StatusApproved         AcceptanceStatus = "APPROVED"
	StatusReturned         AcceptanceStatus = "RETURNED"
	StatusRejected         AcceptanceStatus = "REJECTED"
	StatusExpired          AcceptanceStatus = "EXPIRED"
)

// AllAcceptanceStatuses returns all valid acceptance statuses
func AllAcceptanceStatuses() []AcceptanceStatus {
	return []AcceptanceStatus{
		StatusProposed,
		StatusCCROReview,
		StatusAwaitingApproval,
		StatusApproved,
		StatusReturned,
		StatusRejected,
		StatusExpired,
	}
}

// IsValid checks if the acceptance status is valid
func (s AcceptanceStatus) IsValid() bool {
	switch s {
	case StatusProposed,
		StatusCCROReview,
		StatusAwaitingApproval,
		StatusApproved,
		StatusReturned,
		StatusRejected,
		StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no user-driven transition leaves this status.
// APPROVED is time-limited, not terminal: the sweeper may still expire it.
func (s AcceptanceStatus) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusExpired:
		return true
	default:
		return false
	}
}

// String returns the string representation of the acceptance status
func (s AcceptanceStatus) String() string {
	return string(s)
}

// ParseAcceptanceStatus parses a string into an AcceptanceStatus
func ParseAcceptanceStatus(s string) (AcceptanceStatus, error) {
	status := AcceptanceStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid acceptance status: %s", s)
	}
	return status, nil
}
