package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/auth"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"github.com/secmon-lab/riskaccept/pkg/utils/async"
)

// TransitionInput carries the caller-supplied fields of a transition request
type TransitionInput struct {
	To         types.AcceptanceStatus
	ReviewNote string
	ApproverID types.UserID
}

// Transition drives one edge of the acceptance workflow. The precondition
// checks here read a snapshot; the repository re-checks the status inside
// its transaction, so a lost race surfaces as ErrConflict rather than a
// double transition.
func (uc *AcceptanceUseCase) Transition(ctx context.Context, actor *auth.Actor, id types.AcceptanceID, input *TransitionInput) (*model.RiskAcceptance, error) {
	acceptance, err := uc.repo.Acceptance().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := acceptance.Status
	rule, ok := model.RuleFor(from, input.To)
	if !ok {
		return nil, goerr.Wrap(model.ErrValidation, "illegal status transition",
			goerr.V(model.AcceptanceIDKey, id),
			goerr.V(model.FromStatusKey, from),
			goerr.V(model.ToStatusKey, input.To))
	}

	if !uc.policy.CanTransition(actor, acceptance, from, input.To) {
		return nil, goerr.Wrap(model.ErrForbidden, "actor may not drive this transition",
			goerr.V(model.AcceptanceIDKey, id),
			goerr.V(model.ActorIDKey, actorID(actor)),
			goerr.V(model.FromStatusKey, from),
			goerr.V(model.ToStatusKey, input.To))
	}

	transitionInput := model.TransitionInput{
		ReviewNote: input.ReviewNote,
		ApproverID: input.ApproverID,
		Now:        time.Now().UTC(),
	}

	if err := acceptance.CheckTransitionGuard(rule, transitionInput); err != nil {
		return nil, err
	}

	entry := &model.HistoryEntry{
		ID:           types.NewHistoryID(),
		AcceptanceID: id,
		UserID:       actorID(actor),
		Action:       rule.Action,
		FromStatus:   rule.From,
		ToStatus:     rule.To,
		Details:      input.ReviewNote,
	}

	updated, err := uc.repo.Acceptance().Transition(ctx, id, from, func(current *model.RiskAcceptance) error {
		if err := current.CheckTransitionGuard(rule, transitionInput); err != nil {
			return err
		}
		current.ApplyTransition(rule, transitionInput)
		return nil
	}, entry)
	if err != nil {
		return nil, err
	}

	uc.notifyTransition(ctx, actor, updated, rule)

	return updated, nil
}

// notifyTransition sends best-effort notifications to the parties who need
// to act next. Failures are logged by the dispatcher and never propagate.
func (uc *AcceptanceUseCase) notifyTransition(ctx context.Context, actor *auth.Actor, acceptance *model.RiskAcceptance, rule model.TransitionRule) {
	if uc.notifier == nil {
		return
	}

	var recipients []types.UserID
	switch rule.To {
	case types.StatusAwaitingApproval:
		recipients = append(recipients, acceptance.ApproverID)
	case types.StatusApproved, types.StatusReturned, types.StatusRejected, types.StatusExpired:
		recipients = append(recipients, acceptance.ProposerID)
	}

	message := fmt.Sprintf("%s %s: %s -> %s", acceptance.Reference, acceptance.Title, rule.From, rule.To)

	for _, recipient := range recipients {
		if recipient == "" || (actor != nil && recipient == actor.ID) {
			continue
		}
		userID := recipient
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.Notify(ctx, userID, message)
		})
	}
}
