package config

import "github.com/secmon-lab/riskaccept/pkg/domain/types"

// Capability names an operation a role may perform on the acceptance
// workflow
type Capability string

const (
	CapabilityPropose Capability = "propose"
	CapabilityReview  Capability = "review"
	CapabilityComment Capability = "comment"
	CapabilityView    Capability = "view"
)

// RolePermission maps one role to its capabilities
type RolePermission struct {
	Role         types.Role
	Capabilities []Capability
}

// WorkflowConfig holds the role-permission table consulted by the access
// policy. The table is data, not code, so role semantics can change without
// touching the state machine.
type WorkflowConfig struct {
	ReferencePrefix string
	Permissions     []RolePermission
}

// DefaultWorkflowConfig returns the built-in permission table used when no
// config file is supplied
func DefaultWorkflowConfig() *WorkflowConfig {
	return &WorkflowConfig{
		ReferencePrefix: "RA",
		Permissions: []RolePermission{
			{
				Role:         types.RoleStaff,
				Capabilities: []Capability{CapabilityPropose, CapabilityComment, CapabilityView},
			},
			{
				Role:         types.RoleCCRO,
				Capabilities: []Capability{CapabilityPropose, CapabilityReview, CapabilityComment, CapabilityView},
			},
			{
				Role:         types.RoleAdmin,
				Capabilities: []Capability{CapabilityPropose, CapabilityReview, CapabilityComment, CapabilityView},
			},
		},
	}
}

// HasCapability reports whether the role carries the capability
func (c *WorkflowConfig) HasCapability(role types.Role, capability Capability) bool {
	for _, perm := range c.Permissions {
		if perm.Role != role {
			continue
		}
		for _, have := range perm.Capabilities {
			if have == capability {
				return true
			}
		}
	}
	return false
}
