package notify

import (
	"context"

	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"github.com/secmon-lab/riskaccept/pkg/utils/logging"
)

type noopNotifier struct{}

// NewNoop returns a notifier that only logs. Used when no Slack token is
// configured.
func NewNoop() interfaces.Notifier {
	return &noopNotifier{}
}

func (n *noopNotifier) Notify(ctx context.Context, userID types.UserID, message string) error {
	logging.From(ctx).Debug("notification suppressed (no notifier configured)",
		"user_id", userID, "message", message)
	return nil
}
