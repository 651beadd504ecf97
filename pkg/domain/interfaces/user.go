package interfaces

import (
	"context"

	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// UserRepository is the collaborator user lookup, read for role checks and
// notification addressing
type UserRepository interface {
	Get(ctx context.Context, id types.UserID) (*model.User, error)
	Put(ctx context.Context, user *model.User) (*model.User, error)
}
