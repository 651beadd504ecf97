package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/auth"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/config"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

type AcceptanceUseCase struct {
	repo           interfaces.Repository
	policy         interfaces.AccessPolicy
	notifier       interfaces.Notifier
	workflowConfig *config.WorkflowConfig
}

func NewAcceptanceUseCase(repo interfaces.Repository, policy interfaces.AccessPolicy,
	notifier interfaces.Notifier, cfg *config.WorkflowConfig) *AcceptanceUseCase {
	return &AcceptanceUseCase{
		repo:           repo,
		policy:         policy,
		notifier:       notifier,
		workflowConfig: cfg,
	}
}

// CreateAcceptanceInput carries the proposer-supplied content of a new
// acceptance
type CreateAcceptanceInput struct {
	Source             types.AcceptanceSource
	Title              string
	Description        string
	ProposedRationale  string
	ProposedConditions string

	RiskID                types.RiskID
	LinkedControlID       types.ControlID
	ConsumerDutyOutcomeID types.OutcomeID
	LinkedActionIDs       []types.ActionID

	ApproverID types.UserID
	ReviewDate *time.Time
}

// Create proposes a new risk acceptance. The human-readable reference is
// allocated from the sequence counter, so two concurrent proposals never
// share one.
func (uc *AcceptanceUseCase) Create(ctx context.Context, actor *auth.Actor, input *CreateAcceptanceInput) (*model.RiskAcceptance, error) {
	if !uc.policy.CanPropose(actor) {
		return nil, goerr.Wrap(model.ErrForbidden, "actor may not propose acceptances",
			goerr.V(model.ActorIDKey, actorID(actor)))
	}

	acceptance := &model.RiskAcceptance{
		ID:                    types.NewAcceptanceID(),
		Source:                input.Source,
		Title:                 input.Title,
		Description:           input.Description,
		ProposedRationale:     input.ProposedRationale,
		ProposedConditions:    input.ProposedConditions,
		RiskID:                input.RiskID,
		LinkedControlID:       input.LinkedControlID,
		ConsumerDutyOutcomeID: input.ConsumerDutyOutcomeID,
		LinkedActionIDs:       input.LinkedActionIDs,
		Status:                types.StatusProposed,
		ProposerID:            actor.ID,
		ApproverID:            input.ApproverID,
		ReviewDate:            input.ReviewDate,
	}
	acceptance.NormalizeLinkedActions()

	if err := acceptance.Validate(); err != nil {
		return nil, err
	}

	seq, err := uc.repo.Sequence().Allocate(ctx, uc.workflowConfig.ReferencePrefix)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to allocate reference")
	}
	acceptance.Reference = fmt.Sprintf("%s-%03d", uc.workflowConfig.ReferencePrefix, seq)

	entry := &model.HistoryEntry{
		ID:           types.NewHistoryID(),
		AcceptanceID: acceptance.ID,
		UserID:       actor.ID,
		Action:       types.ActionCreated,
		ToStatus:     types.StatusProposed,
	}

	created, err := uc.repo.Acceptance().Create(ctx, acceptance, entry)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create acceptance")
	}

	return created, nil
}

// UpdateContentInput carries proposer edits to the content fields
type UpdateContentInput struct {
	Title              string
	Description        string
	ProposedRationale  string
	ProposedConditions string

	RiskID                types.RiskID
	LinkedControlID       types.ControlID
	ConsumerDutyOutcomeID types.OutcomeID
	LinkedActionIDs       []types.ActionID

	ApproverID types.UserID
	ReviewDate *time.Time
}

// UpdateContent applies proposer edits while the acceptance is editable.
// Updating content is what unlocks resubmission after a return.
func (uc *AcceptanceUseCase) UpdateContent(ctx context.Context, actor *auth.Actor, id types.AcceptanceID, input *UpdateContentInput) (*model.RiskAcceptance, error) {
	existing, err := uc.repo.Acceptance().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor == nil || actor.ID != existing.ProposerID {
		return nil, goerr.Wrap(model.ErrForbidden, "only the proposer may edit content",
			goerr.V(model.AcceptanceIDKey, id), goerr.V(model.ActorIDKey, actorID(actor)))
	}

	if !existing.ContentEditable() {
		return nil, goerr.Wrap(model.ErrConflict, "acceptance is under review",
			goerr.V(model.AcceptanceIDKey, id), goerr.V(model.FromStatusKey, existing.Status))
	}

	edited := existing.Clone()
	edited.Title = input.Title
	edited.Description = input.Description
	edited.ProposedRationale = input.ProposedRationale
	edited.ProposedConditions = input.ProposedConditions
	edited.RiskID = input.RiskID
	edited.LinkedControlID = input.LinkedControlID
	edited.ConsumerDutyOutcomeID = input.ConsumerDutyOutcomeID
	edited.LinkedActionIDs = input.LinkedActionIDs
	edited.ApproverID = input.ApproverID
	edited.ReviewDate = input.ReviewDate
	edited.NormalizeLinkedActions()

	if err := edited.Validate(); err != nil {
		return nil, err
	}

	// A save holding the same values throughout is not an edit; writing it
	// would bump ContentUpdatedAt and unlock resubmission without a change.
	if edited.ContentEquals(existing) {
		return existing, nil
	}

	updated, err := uc.repo.Acceptance().UpdateContent(ctx, edited)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func actorID(actor *auth.Actor) types.UserID {
	if actor == nil {
		return ""
	}
	return actor.ID
}
