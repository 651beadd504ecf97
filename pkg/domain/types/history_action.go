package types

import "fmt"

// HistoryAction names a workflow transition in the audit ledger
type HistoryAction string

const (
	ActionCreated              HistoryAction = "CREATED"
	ActionSubmittedForReview   HistoryAction = "SUBMITTED_FOR_REVIEW"
	ActionForwardedForApproval HistoryAction = "FORWARDED_FOR_APPROVAL"
	ActionApproved             HistoryAction = "APPROVED"
	ActionRejected             HistoryAction = "REJECTED"
	ActionReturned             HistoryAction = "RETURNED"
	ActionResubmitted          HistoryAction = "RESUBMITTED"
	ActionExpired              HistoryAction = "EXPIRED"
)

// AllHistoryActions returns all valid history actions
func AllHistoryActions() []HistoryAction {
	return []HistoryAction{
		ActionCreated,
		ActionSubmittedForReview,
		ActionForwardedForApproval,
		ActionApproved,
		ActionRejected,
		ActionReturned,
		ActionResubmitted,
		ActionExpired,
	}
}

// IsValid checks if the history action is valid
func (a HistoryAction) IsValid() bool {
	switch a {
	case ActionCreated,
		ActionSubmittedForReview,
		ActionForwardedForApproval,
		ActionApproved,
		ActionRejected,
		ActionReturned,
		ActionResubmitted,
		ActionExpired:
		return true
	default:
		return false
	}
}

// String returns the string representation of the history action
func (a HistoryAction) String() string {
	return string(a)
}

// ParseHistoryAction parses a string into a HistoryAction
func ParseHistoryAction(s string) (HistoryAction, error) {
	action := HistoryAction(s)
	if !action.IsValid() {
		return "", fmt.Errorf("invalid history action: %s", s)
	}
	return action, nil
}
