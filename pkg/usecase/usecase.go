package usecase

import (
	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/config"
	"github.com/secmon-lab/riskaccept/pkg/policy"
)

type UseCases struct {
	repo           interfaces.Repository
	policy         interfaces.AccessPolicy
	notifier       interfaces.Notifier
	workflowConfig *config.WorkflowConfig

	Acceptance *AcceptanceUseCase
}

type Option func(*UseCases)

// WithNotifier enables workflow event notifications. Without it,
// transitions complete silently.
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithPolicy replaces the default role-table policy
func WithPolicy(p interfaces.AccessPolicy) Option {
	return func(uc *UseCases) {
		uc.policy = p
	}
}

// WithWorkflowConfig supplies the role-permission table and reference prefix
func WithWorkflowConfig(cfg *config.WorkflowConfig) Option {
	return func(uc *UseCases) {
		uc.workflowConfig = cfg
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.workflowConfig == nil {
		uc.workflowConfig = config.DefaultWorkflowConfig()
	}
	if uc.policy == nil {
		uc.policy = policy.New(uc.workflowConfig)
	}

	uc.Acceptance = NewAcceptanceUseCase(repo, uc.policy, uc.notifier, uc.workflowConfig)

	return uc
}
