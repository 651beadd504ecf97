package model

import (
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// RiskAcceptance is a formal decision to knowingly tolerate a risk above
// normal appetite, subject to multi-party review and time-bounded validity.
type RiskAcceptance struct {
	ID        types.AcceptanceID
	Reference string
	Source    types.AcceptanceSource

	Title              string
	Description        string
	ProposedRationale  string
	ProposedConditions string

	// Weak references to collaborator records; empty means unlinked.
	// Deleting the referenced record never cascades here.
	RiskID                types.RiskID
	LinkedControlID       types.ControlID
	ConsumerDutyOutcomeID types.OutcomeID
	LinkedActionIDs       []types.ActionID

	Status     types.AcceptanceStatus
	ProposerID types.UserID
	ApproverID types.UserID
	ReviewDate *time.Time
	ReviewNote string

	// ReturnedAt marks the most recent return-for-rework; the resubmission
	// guard compares it against ContentUpdatedAt.
	ReturnedAt       *time.Time
	ContentUpdatedAt time.Time

	// HistorySeq is the per-acceptance ledger counter, bumped inside the
	// same transaction as every status swap.
	HistorySeq int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields required for a proposal
func (a *RiskAcceptance) Validate() error {
	if a.Title == "" {
		return goerr.Wrap(ErrValidation, "title is required")
	}
	if a.Description == "" {
		return goerr.Wrap(ErrValidation, "description is required")
	}
	if a.ProposedRationale == "" {
		return goerr.Wrap(ErrValidation, "proposed rationale is required")
	}
	if !a.Source.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid acceptance source", goerr.V("source", a.Source))
	}
	return nil
}

// ContentEditable reports whether the proposer may still edit content fields
func (a *RiskAcceptance) ContentEditable() bool {
	return a.Status == types.StatusProposed || a.Status == types.StatusReturned
}

// ContentChangedSinceReturn reports whether any content field was updated
// after the most recent return. Guards resubmission.
func (a *RiskAcceptance) ContentChangedSinceReturn() bool {
	if a.ReturnedAt == nil {
		return false
	}
	return a.ContentUpdatedAt.After(*a.ReturnedAt)
}

// ContentEquals reports whether both records hold the same values in every
// proposer-editable field. A save that changes nothing is not an edit.
func (a *RiskAcceptance) ContentEquals(other *RiskAcceptance) bool {
	if a.Title != other.Title ||
		a.Description != other.Description ||
		a.ProposedRationale != other.ProposedRationale ||
		a.ProposedConditions != other.ProposedConditions {
		return false
	}
	if a.RiskID != other.RiskID ||
		a.LinkedControlID != other.LinkedControlID ||
		a.ConsumerDutyOutcomeID != other.ConsumerDutyOutcomeID ||
		a.ApproverID != other.ApproverID {
		return false
	}
	if !slices.Equal(a.LinkedActionIDs, other.LinkedActionIDs) {
		return false
	}
	if (a.ReviewDate == nil) != (other.ReviewDate == nil) {
		return false
	}
	if a.ReviewDate != nil && !a.ReviewDate.Equal(*other.ReviewDate) {
		return false
	}
	return true
}

// ReviewDue reports whether an approved acceptance has passed its review
// horizon. Meaningless in any other status.
func (a *RiskAcceptance) ReviewDue(now time.Time) bool {
	if a.Status != types.StatusApproved || a.ReviewDate == nil {
		return false
	}
	return a.ReviewDate.Before(now)
}

// Clone returns a deep copy to keep repository-held state isolated from
// callers
func (a *RiskAcceptance) Clone() *RiskAcceptance {
	copied := *a
	if a.ReviewDate != nil {
		d := *a.ReviewDate
		copied.ReviewDate = &d
	}
	if a.ReturnedAt != nil {
		d := *a.ReturnedAt
		copied.ReturnedAt = &d
	}
	copied.LinkedActionIDs = slices.Clone(a.LinkedActionIDs)
	return &copied
}

// NormalizeLinkedActions sorts and deduplicates the linked remediation
// action IDs, which are set-valued
func (a *RiskAcceptance) NormalizeLinkedActions() {
	if len(a.LinkedActionIDs) == 0 {
		return
	}
	slices.Sort(a.LinkedActionIDs)
	a.LinkedActionIDs = slices.Compact(a.LinkedActionIDs)
}
