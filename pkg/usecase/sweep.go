package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/auth"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"github.com/secmon-lab/riskaccept/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

const sweepConcurrency = 8

// SweepResult summarises one expiry sweep run
type SweepResult struct {
	Scanned int
	Expired int
	Skipped int
	Failed  int
}

// Sweep expires every APPROVED acceptance whose review date has passed.
// Each expiry is an independent compare-and-swap, so a concurrent human
// transition on one record only skips that record. Re-running the sweep is
// harmless: already-expired records no longer match the query.
func (uc *AcceptanceUseCase) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	due, err := uc.repo.Acceptance().List(ctx,
		interfaces.WithStatus(types.StatusApproved),
		interfaces.WithReviewDateBefore(now),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list acceptances due for expiry")
	}

	result := &SweepResult{Scanned: len(due)}
	if len(due) == 0 {
		return result, nil
	}

	rule, ok := model.RuleFor(types.StatusApproved, types.StatusExpired)
	if !ok {
		return nil, goerr.New("expiry edge missing from transition rules")
	}

	system := auth.SystemActor()
	logger := logging.From(ctx)

	var eg errgroup.Group
	eg.SetLimit(sweepConcurrency)

	results := make([]error, len(due))
	for i, acceptance := range due {
		eg.Go(func() error {
			results[i] = uc.expireOne(ctx, system, acceptance, rule, now)
			return nil
		})
	}
	// Goroutines report through the results slice; the group itself never
	// fails.
	_ = eg.Wait()

	for i, err := range results {
		switch {
		case err == nil:
			result.Expired++
		case errors.Is(err, model.ErrConflict):
			// Lost the race to a human transition. The record is no longer
			// APPROVED, so expiry no longer applies.
			result.Skipped++
		default:
			result.Failed++
			logger.Error("failed to expire acceptance",
				"acceptance_id", due[i].ID, "error", err)
		}
	}

	logger.Info("expiry sweep completed",
		"scanned", result.Scanned,
		"expired", result.Expired,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)

	return result, nil
}

func (uc *AcceptanceUseCase) expireOne(ctx context.Context, system *auth.Actor,
	acceptance *model.RiskAcceptance, rule model.TransitionRule, now time.Time) error {

	input := model.TransitionInput{Now: now}
	if err := acceptance.CheckTransitionGuard(rule, input); err != nil {
		return err
	}

	entry := &model.HistoryEntry{
		ID:           types.NewHistoryID(),
		AcceptanceID: acceptance.ID,
		UserID:       system.ID,
		Action:       rule.Action,
		FromStatus:   rule.From,
		ToStatus:     rule.To,
	}

	updated, err := uc.repo.Acceptance().Transition(ctx, acceptance.ID, types.StatusApproved,
		func(current *model.RiskAcceptance) error {
			if err := current.CheckTransitionGuard(rule, input); err != nil {
				return err
			}
			current.ApplyTransition(rule, input)
			return nil
		}, entry)
	if err != nil {
		return err
	}

	uc.notifyTransition(ctx, system, updated, rule)
	return nil
}
