package model

import "github.com/m-mizutani/goerr/v2"

// Workflow error taxonomy. Every failure of a create, transition or comment
// operation wraps exactly one of these so callers can branch with errors.Is.
var (
	// ErrNotFound indicates an unknown acceptance, user or linked record
	ErrNotFound = goerr.New("not found")

	// ErrConflict indicates the stored status no longer matches what the
	// caller observed. Expected under concurrent review; re-read and retry.
	ErrConflict = goerr.New("status conflict")

	// ErrForbidden indicates the actor does not match the required actor
	// for the attempted operation. Retrying with the same actor never helps.
	ErrForbidden = goerr.New("forbidden")

	// ErrValidation indicates a missing or malformed field for the
	// attempted operation
	ErrValidation = goerr.New("validation failed")
)

// Context keys for error values
const (
	AcceptanceIDKey = "acceptance_id"
	FromStatusKey   = "from_status"
	ToStatusKey     = "to_status"
	ActorIDKey      = "actor_id"
)
