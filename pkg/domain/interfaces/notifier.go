package interfaces

import (
	"context"

	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// Notifier sends best-effort messages to users after workflow events. A
// notification failure never affects the transition that triggered it.
type Notifier interface {
	Notify(ctx context.Context, userID types.UserID, message string) error
}
