package policy

import (
	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/auth"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/config"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// Policy implements the access policy from a role-permission table. Role
// semantics live in the table, not in code, so the organisation can rename
// or re-scope roles through configuration alone.
type Policy struct {
	cfg *config.WorkflowConfig
}

var _ interfaces.AccessPolicy = &Policy{}

// New creates a policy from the given workflow config. A nil config falls
// back to the built-in defaults.
func New(cfg *config.WorkflowConfig) *Policy {
	if cfg == nil {
		cfg = config.DefaultWorkflowConfig()
	}
	return &Policy{cfg: cfg}
}

// CanPropose reports whether the actor may create acceptances
func (p *Policy) CanPropose(actor *auth.Actor) bool {
	if actor == nil {
		return false
	}
	return p.cfg.HasCapability(actor.Role, config.CapabilityPropose)
}

// CanTransition implements the actor-required column of the workflow edge
// table
func (p *Policy) CanTransition(actor *auth.Actor, acceptance *model.RiskAcceptance, from, to types.AcceptanceStatus) bool {
	if actor == nil || acceptance == nil {
		return false
	}

	rule, ok := model.RuleFor(from, to)
	if !ok {
		return false
	}

	switch rule.Actor {
	case model.ActorReviewer:
		return p.cfg.HasCapability(actor.Role, config.CapabilityReview)

	case model.ActorApprover:
		return acceptance.ApproverID != "" && actor.ID == acceptance.ApproverID

	case model.ActorProposer:
		return actor.ID == acceptance.ProposerID

	case model.ActorSystem:
		return actor.IsSystem()

	default:
		return false
	}
}

// CanView governs read access. Any authenticated user with general read
// access may view any acceptance; there is no acceptance-level privacy.
func (p *Policy) CanView(actor *auth.Actor, acceptance *model.RiskAcceptance) bool {
	if actor == nil {
		return false
	}
	return p.cfg.HasCapability(actor.Role, config.CapabilityView) || actor.IsSystem()
}

// CanComment restricts comment writes to the proposer, the current
// approver, and roles carrying the review capability
func (p *Policy) CanComment(actor *auth.Actor, acceptance *model.RiskAcceptance) bool {
	if actor == nil || acceptance == nil {
		return false
	}
	if !p.cfg.HasCapability(actor.Role, config.CapabilityComment) {
		return false
	}
	if actor.ID == acceptance.ProposerID {
		return true
	}
	if acceptance.ApproverID != "" && actor.ID == acceptance.ApproverID {
		return true
	}
	return p.cfg.HasCapability(actor.Role, config.CapabilityReview)
}
