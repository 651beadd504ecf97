package auth

import (
	"context"

	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// Actor is the authenticated caller of a workflow operation. Authentication
// itself happens upstream; this engine only needs identity and role.
type Actor struct {
	ID   types.UserID
	Name string
	Role types.Role
}

// IsSystem reports whether the actor is the reserved sweeper identity
func (a *Actor) IsSystem() bool {
	return a != nil && a.Role == types.RoleSystem
}

// SystemActor returns the actor identity used by the expiry sweeper
func SystemActor() *Actor {
	return &Actor{
		ID:   types.SystemUserID,
		Name: "system",
		Role: types.RoleSystem,
	}
}

type ctxActorKey struct{}

// ContextWithActor embeds the actor into the context
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ctxActorKey{}, actor)
}

// ActorFromContext retrieves the actor from the context. Returns nil when
// the request is unauthenticated.
func ActorFromContext(ctx context.Context) *Actor {
	actor, ok := ctx.Value(ctxActorKey{}).(*Actor)
	if !ok {
		return nil
	}
	return actor
}
