package notify

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"github.com/slack-go/slack"
)

// slackNotifier delivers workflow events as Slack DMs. The recipient is
// resolved user ID -> email -> Slack user, so the engine never stores Slack
// IDs.
type slackNotifier struct {
	api   *slack.Client
	users interfaces.UserRepository
}

// Option is a functional option for notifier configuration
type Option func(*slackNotifier)

// WithAPI replaces the Slack API client, mainly for tests
func WithAPI(api *slack.Client) Option {
	return func(n *slackNotifier) {
		n.api = api
	}
}

// NewSlack creates a Slack DM notifier with the provided bot token
func NewSlack(token string, users interfaces.UserRepository, opts ...Option) (interfaces.Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	n := &slackNotifier{
		api:   slack.New(token),
		users: users,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

func (n *slackNotifier) Notify(ctx context.Context, userID types.UserID, message string) error {
	user, err := n.users.Get(ctx, userID)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve notification recipient", goerr.V("user_id", userID))
	}
	if user.Email == "" {
		return goerr.New("recipient has no email", goerr.V("user_id", userID))
	}

	slackUser, err := n.api.GetUserByEmailContext(ctx, user.Email)
	if err != nil {
		return goerr.Wrap(err, "failed to look up Slack user", goerr.V("user_id", userID))
	}

	channel, _, _, err := n.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{slackUser.ID},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to open DM channel", goerr.V("user_id", userID))
	}

	if _, _, err := n.api.PostMessageContext(ctx, channel.ID, slack.MsgOptionText(message, false)); err != nil {
		return goerr.Wrap(err, "failed to post notification", goerr.V("user_id", userID))
	}

	return nil
}
