package model

import (
	"time"

	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// HistoryEntry is one immutable row of the audit ledger. Rows are never
// edited or deleted; the sequence of ToStatus values read in Seq order
// reconstructs the full transition path of the acceptance.
type HistoryEntry struct {
	ID           types.HistoryID
	AcceptanceID types.AcceptanceID
	UserID       types.UserID
	Action       types.HistoryAction

	// FromStatus is empty only for the CREATED row
	FromStatus types.AcceptanceStatus
	ToStatus   types.AcceptanceStatus

	Details   string
	Seq       int64
	CreatedAt time.Time
}

// Clone returns a copy of the history entry
func (h *HistoryEntry) Clone() *HistoryEntry {
	copied := *h
	return &copied
}
