package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

type outcomeRepository struct {
	mu       sync.RWMutex
	outcomes map[types.OutcomeID]*model.ConsumerDutyOutcome
}

func newOutcomeRepository() *outcomeRepository {
	return &outcomeRepository{
		outcomes: make(map[types.OutcomeID]*model.ConsumerDutyOutcome),
	}
}

func (r *outcomeRepository) Get(ctx context.Context, id types.OutcomeID) (*model.ConsumerDutyOutcome, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	outcome, exists := r.outcomes[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "outcome not found", goerr.V("id", id))
	}

	copied := *outcome
	return &copied, nil
}

func (r *outcomeRepository) Put(ctx context.Context, outcome *model.ConsumerDutyOutcome) (*model.ConsumerDutyOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *outcome
	r.outcomes[stored.ID] = &stored

	copied := stored
	return &copied, nil
}
