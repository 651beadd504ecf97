package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// historyStore holds the append-only ledger. Rows arrive only through the
// acceptance repository's Create and Transition paths.
type historyStore struct {
	mu      sync.Mutex
	entries map[types.AcceptanceID][]*model.HistoryEntry
}

func newHistoryStore() *historyStore {
	return &historyStore{
		entries: make(map[types.AcceptanceID][]*model.HistoryEntry),
	}
}

func (r *historyStore) append(entry *model.HistoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.AcceptanceID] = append(r.entries[entry.AcceptanceID], entry)
}

func (r *historyStore) List(ctx context.Context, acceptanceID types.AcceptanceID) ([]*model.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.entries[acceptanceID]
	result := make([]*model.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})

	return result, nil
}
