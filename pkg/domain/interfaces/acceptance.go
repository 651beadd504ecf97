package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// AcceptanceRepository defines data access for risk acceptances. Status is
// the only contended field; every status swap goes through Transition, which
// is the compare-and-swap primitive of the workflow.
type AcceptanceRepository interface {
	// Create persists a new acceptance together with its CREATED history
	// row in one atomic write
	Create(ctx context.Context, acceptance *model.RiskAcceptance, entry *model.HistoryEntry) (*model.RiskAcceptance, error)

	// Get retrieves an acceptance by ID
	Get(ctx context.Context, id types.AcceptanceID) (*model.RiskAcceptance, error)

	// List retrieves acceptances with optional filtering
	List(ctx context.Context, opts ...ListAcceptanceOption) ([]*model.RiskAcceptance, error)

	// UpdateContent persists proposer edits to content fields. The stored
	// status must still permit editing, otherwise ErrConflict.
	UpdateContent(ctx context.Context, acceptance *model.RiskAcceptance) (*model.RiskAcceptance, error)

	// Transition atomically swaps the acceptance status. The stored status
	// must equal from, otherwise the operation fails wrapping
	// model.ErrConflict and writes nothing. On success mutate is applied,
	// the history sequence is bumped, and exactly one history row is
	// appended, all in the same transaction.
	Transition(ctx context.Context, id types.AcceptanceID, from types.AcceptanceStatus,
		mutate func(*model.RiskAcceptance) error, entry *model.HistoryEntry) (*model.RiskAcceptance, error)
}

// ListAcceptanceOption is a functional option for filtering acceptances in
// List
type ListAcceptanceOption func(*listAcceptanceConfig)

type listAcceptanceConfig struct {
	status           *types.AcceptanceStatus
	source           *types.AcceptanceSource
	reviewDateBefore *time.Time
}

// WithStatus filters acceptances by status
func WithStatus(status types.AcceptanceStatus) ListAcceptanceOption {
	return func(c *listAcceptanceConfig) {
		c.status = &status
	}
}

// WithSource filters acceptances by source
func WithSource(source types.AcceptanceSource) ListAcceptanceOption {
	return func(c *listAcceptanceConfig) {
		c.source = &source
	}
}

// WithReviewDateBefore filters acceptances whose review date is set and
// strictly before the given time. Used by the expiry sweep.
func WithReviewDateBefore(before time.Time) ListAcceptanceOption {
	return func(c *listAcceptanceConfig) {
		c.reviewDateBefore = &before
	}
}

// BuildListAcceptanceConfig builds a listAcceptanceConfig from options
func BuildListAcceptanceConfig(opts ...ListAcceptanceOption) *listAcceptanceConfig {
	cfg := &listAcceptanceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Status returns the status filter value, or nil if not set
func (c *listAcceptanceConfig) Status() *types.AcceptanceStatus {
	return c.status
}

// Source returns the source filter value, or nil if not set
func (c *listAcceptanceConfig) Source() *types.AcceptanceSource {
	return c.source
}

// ReviewDateBefore returns the review-date cutoff, or nil if not set
func (c *listAcceptanceConfig) ReviewDateBefore() *time.Time {
	return c.reviewDateBefore
}
