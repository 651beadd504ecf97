package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

type acceptanceRepository struct {
	mu          sync.Mutex
	acceptances map[types.AcceptanceID]*model.RiskAcceptance
	history     *historyStore
}

func newAcceptanceRepository(history *historyStore) *acceptanceRepository {
	return &acceptanceRepository{
		acceptances: make(map[types.AcceptanceID]*model.RiskAcceptance),
		history:     history,
	}
}

func (r *acceptanceRepository) Create(ctx context.Context, acceptance *model.RiskAcceptance, entry *model.HistoryEntry) (*model.RiskAcceptance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.acceptances[acceptance.ID]; exists {
		return nil, goerr.New("acceptance already exists", goerr.V(model.AcceptanceIDKey, acceptance.ID))
	}

	now := time.Now().UTC()
	created := acceptance.Clone()
	created.CreatedAt = now
	created.UpdatedAt = now
	created.ContentUpdatedAt = now
	created.HistorySeq = 1

	row := entry.Clone()
	row.AcceptanceID = created.ID
	row.Seq = created.HistorySeq
	row.CreatedAt = now

	r.acceptances[created.ID] = created
	r.history.append(row)

	return created.Clone(), nil
}

func (r *acceptanceRepository) Get(ctx context.Context, id types.AcceptanceID) (*model.RiskAcceptance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acceptance, exists := r.acceptances[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "acceptance not found", goerr.V(model.AcceptanceIDKey, id))
	}

	return acceptance.Clone(), nil
}

func (r *acceptanceRepository) List(ctx context.Context, opts ...interfaces.ListAcceptanceOption) ([]*model.RiskAcceptance, error) {
	cfg := interfaces.BuildListAcceptanceConfig(opts...)

	r.mu.Lock()
	defer r.mu.Unlock()

	acceptances := make([]*model.RiskAcceptance, 0, len(r.acceptances))
	for _, acceptance := range r.acceptances {
		if cfg.Status() != nil && acceptance.Status != *cfg.Status() {
			continue
		}
		if cfg.Source() != nil && acceptance.Source != *cfg.Source() {
			continue
		}
		if before := cfg.ReviewDateBefore(); before != nil {
			if acceptance.ReviewDate == nil || !acceptance.ReviewDate.Before(*before) {
				continue
			}
		}
		acceptances = append(acceptances, acceptance.Clone())
	}

	sortAcceptancesByCreatedAt(acceptances)
	return acceptances, nil
}

func (r *acceptanceRepository) UpdateContent(ctx context.Context, acceptance *model.RiskAcceptance) (*model.RiskAcceptance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.acceptances[acceptance.ID]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "acceptance not found", goerr.V(model.AcceptanceIDKey, acceptance.ID))
	}

	if !existing.ContentEditable() {
		return nil, goerr.Wrap(model.ErrConflict, "acceptance is under review",
			goerr.V(model.AcceptanceIDKey, acceptance.ID), goerr.V(model.FromStatusKey, existing.Status))
	}

	now := time.Now().UTC()
	updated := existing.Clone()
	updated.Title = acceptance.Title
	updated.Description = acceptance.Description
	updated.ProposedRationale = acceptance.ProposedRationale
	updated.ProposedConditions = acceptance.ProposedConditions
	updated.RiskID = acceptance.RiskID
	updated.LinkedControlID = acceptance.LinkedControlID
	updated.ConsumerDutyOutcomeID = acceptance.ConsumerDutyOutcomeID
	updated.LinkedActionIDs = append([]types.ActionID(nil), acceptance.LinkedActionIDs...)
	updated.ReviewDate = acceptance.ReviewDate
	updated.ApproverID = acceptance.ApproverID
	updated.ContentUpdatedAt = now
	updated.UpdatedAt = now
	updated.NormalizeLinkedActions()

	r.acceptances[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *acceptanceRepository) Transition(ctx context.Context, id types.AcceptanceID, from types.AcceptanceStatus,
	mutate func(*model.RiskAcceptance) error, entry *model.HistoryEntry) (*model.RiskAcceptance, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.acceptances[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "acceptance not found", goerr.V(model.AcceptanceIDKey, id))
	}

	// Compare-and-swap: a concurrent transition that committed first makes
	// this one fail without writing anything.
	if existing.Status != from {
		return nil, goerr.Wrap(model.ErrConflict, "acceptance status changed",
			goerr.V(model.AcceptanceIDKey, id),
			goerr.V("expected", from),
			goerr.V("actual", existing.Status))
	}

	updated := existing.Clone()
	if err := mutate(updated); err != nil {
		return nil, err
	}
	updated.HistorySeq = existing.HistorySeq + 1

	row := entry.Clone()
	row.AcceptanceID = id
	row.Seq = updated.HistorySeq
	row.CreatedAt = time.Now().UTC()

	r.acceptances[id] = updated
	r.history.append(row)

	return updated.Clone(), nil
}

// exists reports whether the acceptance is present. Used by the comment
// store for referential checks.
func (r *acceptanceRepository) exists(id types.AcceptanceID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.acceptances[id]
	return ok
}

func sortAcceptancesByCreatedAt(acceptances []*model.RiskAcceptance) {
	sort.Slice(acceptances, func(i, j int) bool {
		return acceptances[i].CreatedAt.Before(acceptances[j].CreatedAt)
	})
}
