package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
	"github.com/secmon-lab/riskaccept/pkg/service/notify"
	"github.com/secmon-lab/riskaccept/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for Slack notification configuration
type Slack struct {
	botToken string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for workflow notifications (xoxb-...)",
			Sources:     cli.EnvVars("RISKACCEPT_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
	}
}

// IsConfigured reports whether a bot token was supplied
func (s *Slack) IsConfigured() bool {
	return s.botToken != ""
}

// Configure builds the notifier. Without a token, notifications fall back
// to log-only delivery.
func (s *Slack) Configure(users interfaces.UserRepository) (interfaces.Notifier, error) {
	if s.botToken == "" {
		logging.Default().Info("Slack bot token not configured, notifications will be logged only")
		return notify.NewNoop(), nil
	}

	notifier, err := notify.NewSlack(s.botToken, users)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack notifier")
	}
	logging.Default().Info("Slack notifications enabled")
	return notifier, nil
}
