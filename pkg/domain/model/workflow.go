package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// ActorRequirement names who may drive a given workflow edge
type ActorRequirement string

const (
	// ActorReviewer is any user whose role carries the review capability
	ActorReviewer ActorRequirement = "reviewer"
	// ActorApprover is exactly the user held in ApproverID
	ActorApprover ActorRequirement = "approver"
	// ActorProposer is exactly the user held in ProposerID
	ActorProposer ActorRequirement = "proposer"
	// ActorSystem is the expiry sweeper only
	ActorSystem ActorRequirement = "system"
)

// TransitionRule is one edge of the acceptance state machine
type TransitionRule struct {
	From   types.AcceptanceStatus
	To     types.AcceptanceStatus
	Action types.HistoryAction
	Actor  ActorRequirement
}

// transitionRules is the closed edge set of the workflow. Creation
// (-> PROPOSED) is not an edge here; it is handled by Create.
var transitionRules = []TransitionRule{
	{From: types.StatusProposed, To: types.StatusCCROReview, Action: types.ActionSubmittedForReview, Actor: ActorReviewer},
	{From: types.StatusCCROReview, To: types.StatusAwaitingApproval, Action: types.ActionForwardedForApproval, Actor: ActorReviewer},
	{From: types.StatusCCROReview, To: types.StatusReturned, Action: types.ActionReturned, Actor: ActorReviewer},
	{From: types.StatusCCROReview, To: types.StatusRejected, Action: types.ActionRejected, Actor: ActorReviewer},
	{From: types.StatusAwaitingApproval, To: types.StatusApproved, Action: types.ActionApproved, Actor: ActorApprover},
	{From: types.StatusAwaitingApproval, To: types.StatusReturned, Action: types.ActionReturned, Actor: ActorApprover},
	{From: types.StatusAwaitingApproval, To: types.StatusRejected, Action: types.ActionRejected, Actor: ActorApprover},
	{From: types.StatusReturned, To: types.StatusProposed, Action: types.ActionResubmitted, Actor: ActorProposer},
	{From: types.StatusApproved, To: types.StatusExpired, Action: types.ActionExpired, Actor: ActorSystem},
}

// RuleFor returns the rule for the edge from -> to, if it exists
func RuleFor(from, to types.AcceptanceStatus) (TransitionRule, bool) {
	for _, rule := range transitionRules {
		if rule.From == from && rule.To == to {
			return rule, true
		}
	}
	return TransitionRule{}, false
}

// NextStatuses returns the legal target statuses from the given status
func NextStatuses(from types.AcceptanceStatus) []types.AcceptanceStatus {
	var next []types.AcceptanceStatus
	for _, rule := range transitionRules {
		if rule.From == from {
			next = append(next, rule.To)
		}
	}
	return next
}

// TransitionInput carries the caller-supplied fields of a transition request
type TransitionInput struct {
	ReviewNote string
	ApproverID types.UserID
	Now        time.Time
}

// CheckTransitionGuard validates the field-level guard of the edge onto the
// current record. Actor checks live in the access policy; status race checks
// live in the repository compare-and-swap.
func (a *RiskAcceptance) CheckTransitionGuard(rule TransitionRule, input TransitionInput) error {
	switch rule.To {
	case types.StatusAwaitingApproval:
		if input.ApproverID == "" && a.ApproverID == "" {
			return goerr.Wrap(ErrValidation, "approver must be assigned before forwarding for approval",
				goerr.V(AcceptanceIDKey, a.ID))
		}

	case types.StatusReturned, types.StatusRejected:
		if input.ReviewNote == "" {
			return goerr.Wrap(ErrValidation, "review note is required",
				goerr.V(AcceptanceIDKey, a.ID), goerr.V(ToStatusKey, rule.To))
		}

	case types.StatusProposed:
		if !a.ContentChangedSinceReturn() {
			return goerr.Wrap(ErrValidation, "content must change before resubmission",
				goerr.V(AcceptanceIDKey, a.ID))
		}

	case types.StatusExpired:
		if a.ReviewDate == nil || !a.ReviewDate.Before(input.Now) {
			return goerr.Wrap(ErrValidation, "review date has not elapsed",
				goerr.V(AcceptanceIDKey, a.ID))
		}
	}

	return nil
}

// ApplyTransition mutates the acceptance for the given edge. Guards must
// already have passed; the repository applies this inside its
// compare-and-swap transaction.
func (a *RiskAcceptance) ApplyTransition(rule TransitionRule, input TransitionInput) {
	switch rule.To {
	case types.StatusAwaitingApproval:
		if input.ApproverID != "" {
			a.ApproverID = input.ApproverID
		}
		a.ReviewNote = input.ReviewNote

	case types.StatusReturned:
		a.ReviewNote = input.ReviewNote
		returnedAt := input.Now
		a.ReturnedAt = &returnedAt

	case types.StatusRejected, types.StatusApproved:
		if input.ReviewNote != "" {
			a.ReviewNote = input.ReviewNote
		}

	case types.StatusProposed:
		// Resubmission: the prior cycle's note stays readable in the
		// ledger, but the live field resets so the next reviewer sees a
		// clean slate. The approver is preserved unless replaced.
		a.ReviewNote = ""
		a.ReturnedAt = nil
		if input.ApproverID != "" {
			a.ApproverID = input.ApproverID
		}
	}

	a.Status = rule.To
	a.UpdatedAt = input.Now
}
