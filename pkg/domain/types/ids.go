package types

import "github.com/google/uuid"

// AcceptanceID identifies a risk acceptance record. Opaque and immutable;
// human-facing lookup goes through the allocated reference instead.
type AcceptanceID string

// NewAcceptanceID generates a new random acceptance ID
func NewAcceptanceID() AcceptanceID {
	return AcceptanceID(uuid.NewString())
}

// String returns the string representation of the acceptance ID
func (x AcceptanceID) String() string {
	return string(x)
}

// CommentID identifies a comment on an acceptance
type CommentID string

// NewCommentID generates a new random comment ID
func NewCommentID() CommentID {
	return CommentID(uuid.NewString())
}

// String returns the string representation of the comment ID
func (x CommentID) String() string {
	return string(x)
}

// HistoryID identifies a history ledger row
type HistoryID string

// NewHistoryID generates a new random history ID
func NewHistoryID() HistoryID {
	return HistoryID(uuid.NewString())
}

// String returns the string representation of the history ID
func (x HistoryID) String() string {
	return string(x)
}

// UserID identifies a user in the collaborator user store
type UserID string

// String returns the string representation of the user ID
func (x UserID) String() string {
	return string(x)
}

// SystemUserID is the reserved actor ID used by the expiry sweeper
const SystemUserID UserID = "system"

// RiskID identifies a risk register entry
type RiskID string

// ControlID identifies a control library entry
type ControlID string

// OutcomeID identifies a consumer duty outcome record
type OutcomeID string

// ActionID identifies a remediation action linked for traceability
type ActionID string
