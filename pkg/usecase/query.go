package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/auth"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// GetDetail assembles the full read-side projection of one acceptance:
// the record, its linked collaborator records, ordered comments, and the
// complete audit ledger. A dangling collaborator reference leaves the
// corresponding field nil rather than failing the projection.
func (uc *AcceptanceUseCase) GetDetail(ctx context.Context, actor *auth.Actor, id types.AcceptanceID) (*model.AcceptanceDetail, error) {
	acceptance, err := uc.repo.Acceptance().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !uc.policy.CanView(actor, acceptance) {
		return nil, goerr.Wrap(model.ErrForbidden, "actor may not view this acceptance",
			goerr.V(model.AcceptanceIDKey, id), goerr.V(model.ActorIDKey, actorID(actor)))
	}

	detail := &model.AcceptanceDetail{Acceptance: acceptance}

	if acceptance.RiskID != "" {
		risk, err := uc.repo.Risk().Get(ctx, acceptance.RiskID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(err, "failed to get linked risk")
		}
		detail.Risk = risk
	}
	if acceptance.LinkedControlID != "" {
		control, err := uc.repo.Control().Get(ctx, acceptance.LinkedControlID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(err, "failed to get linked control")
		}
		detail.Control = control
	}
	if acceptance.ConsumerDutyOutcomeID != "" {
		outcome, err := uc.repo.Outcome().Get(ctx, acceptance.ConsumerDutyOutcomeID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(err, "failed to get linked outcome")
		}
		detail.Outcome = outcome
	}

	comments, err := uc.repo.Comment().List(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list comments")
	}
	detail.Comments = comments

	history, err := uc.repo.History().List(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list history")
	}
	detail.History = history

	return detail, nil
}

// ListInput carries the optional filters of an acceptance listing
type ListInput struct {
	Status *types.AcceptanceStatus
	Source *types.AcceptanceSource
}

// List returns acceptances matching the filters
func (uc *AcceptanceUseCase) List(ctx context.Context, actor *auth.Actor, input *ListInput) ([]*model.RiskAcceptance, error) {
	if actor == nil {
		return nil, goerr.Wrap(model.ErrForbidden, "authentication required")
	}

	var opts []interfaces.ListAcceptanceOption
	if input != nil {
		if input.Status != nil {
			if !input.Status.IsValid() {
				return nil, goerr.Wrap(model.ErrValidation, "invalid status filter",
					goerr.V(model.FromStatusKey, *input.Status))
			}
			opts = append(opts, interfaces.WithStatus(*input.Status))
		}
		if input.Source != nil {
			if !input.Source.IsValid() {
				return nil, goerr.Wrap(model.ErrValidation, "invalid source filter")
			}
			opts = append(opts, interfaces.WithSource(*input.Source))
		}
	}

	acceptances, err := uc.repo.Acceptance().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list acceptances")
	}

	visible := make([]*model.RiskAcceptance, 0, len(acceptances))
	for _, a := range acceptances {
		if uc.policy.CanView(actor, a) {
			visible = append(visible, a)
		}
	}

	return visible, nil
}

// Get returns one acceptance without the detail projection
func (uc *AcceptanceUseCase) Get(ctx context.Context, actor *auth.Actor, id types.AcceptanceID) (*model.RiskAcceptance, error) {
	acceptance, err := uc.repo.Acceptance().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !uc.policy.CanView(actor, acceptance) {
		return nil, goerr.Wrap(model.ErrForbidden, "actor may not view this acceptance",
			goerr.V(model.AcceptanceIDKey, id), goerr.V(model.ActorIDKey, actorID(actor)))
	}

	return acceptance, nil
}
