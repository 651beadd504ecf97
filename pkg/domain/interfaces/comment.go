package interfaces

import (
	"context"

	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// CommentRepository defines data access for acceptance comments.
// Append-only: comments are never edited or deleted.
type CommentRepository interface {
	// Add appends a comment. Fails wrapping model.ErrNotFound when the
	// acceptance does not exist.
	Add(ctx context.Context, comment *model.Comment) (*model.Comment, error)

	// List returns all comments for an acceptance ordered by CreatedAt
	// ascending
	List(ctx context.Context, acceptanceID types.AcceptanceID) ([]*model.Comment, error)
}
