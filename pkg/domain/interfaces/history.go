package interfaces

import (
	"context"

	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// HistoryRepository defines read access to the audit ledger. Rows are only
// ever written inside AcceptanceRepository.Create and Transition; there is
// no update or delete.
type HistoryRepository interface {
	// List returns all history rows for an acceptance ordered by Seq
	// ascending
	List(ctx context.Context, acceptanceID types.AcceptanceID) ([]*model.HistoryEntry, error)
}
