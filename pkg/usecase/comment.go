package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/auth"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// AddComment appends a discussion comment to an acceptance. Comments are
// append-only and allowed in every status, terminal ones included.
func (uc *AcceptanceUseCase) AddComment(ctx context.Context, actor *auth.Actor, id types.AcceptanceID, body string) (*model.Comment, error) {
	acceptance, err := uc.repo.Acceptance().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !uc.policy.CanComment(actor, acceptance) {
		return nil, goerr.Wrap(model.ErrForbidden, "actor may not comment on this acceptance",
			goerr.V(model.AcceptanceIDKey, id), goerr.V(model.ActorIDKey, actorID(actor)))
	}

	comment := &model.Comment{
		AcceptanceID: id,
		UserID:       actor.ID,
		Body:         body,
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Comment().Add(ctx, comment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to add comment")
	}

	return created, nil
}
