package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// Comment is a free-text discussion entry on an acceptance. Append-only;
// never edited or deleted.
type Comment struct {
	ID           types.CommentID
	AcceptanceID types.AcceptanceID
	UserID       types.UserID
	Body         string
	CreatedAt    time.Time
}

// Validate checks the comment fields
func (c *Comment) Validate() error {
	if c.Body == "" {
		return goerr.Wrap(ErrValidation, "comment body is required")
	}
	if c.UserID == "" {
		return goerr.Wrap(ErrValidation, "comment user is required")
	}
	return nil
}

// Clone returns a copy of the comment
func (c *Comment) Clone() *Comment {
	copied := *c
	return &copied
}
