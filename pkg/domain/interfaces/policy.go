package interfaces

import (
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/auth"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// AccessPolicy decides who may view, comment on, or transition an
// acceptance. Implementations are pure lookups; swapping the policy never
// touches the state machine.
type AccessPolicy interface {
	// CanPropose reports whether the actor may create acceptances
	CanPropose(actor *auth.Actor) bool

	// CanTransition implements the actor-required column of the workflow
	// edge table
	CanTransition(actor *auth.Actor, acceptance *model.RiskAcceptance, from, to types.AcceptanceStatus) bool

	// CanView governs read access to an acceptance with its comments and
	// history
	CanView(actor *auth.Actor, acceptance *model.RiskAcceptance) bool

	// CanComment reports whether the actor may write comments on the
	// acceptance
	CanComment(actor *auth.Actor, acceptance *model.RiskAcceptance) bool
}
