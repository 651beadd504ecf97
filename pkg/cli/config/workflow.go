package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/riskaccept/pkg/domain/model/config"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Workflow holds CLI flags for the role-permission table
type Workflow struct {
	configPath string
}

// Flags returns CLI flags for workflow configuration
func (w *Workflow) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workflow-config",
			Usage:       "Path to workflow config TOML (roles and reference prefix)",
			Sources:     cli.EnvVars("RISKACCEPT_WORKFLOW_CONFIG"),
			Destination: &w.configPath,
		},
	}
}

// workflowFile is the TOML shape of the workflow configuration
type workflowFile struct {
	ReferencePrefix string           `toml:"reference_prefix"`
	Roles           []rolePermission `toml:"role"`
}

type rolePermission struct {
	Name         string   `toml:"name"`
	Capabilities []string `toml:"capabilities"`
}

// Validate checks one role entry
func (r *rolePermission) Validate() error {
	if r.Name == "" {
		return goerr.Wrap(ErrMissingName, "role name is required")
	}
	for _, c := range r.Capabilities {
		switch domainConfig.Capability(c) {
		case domainConfig.CapabilityPropose,
			domainConfig.CapabilityReview,
			domainConfig.CapabilityComment,
			domainConfig.CapabilityView:
		default:
			return goerr.Wrap(ErrInvalidConfig, "unknown capability",
				goerr.V("role", r.Name), goerr.V("capability", c))
		}
	}
	return nil
}

// Configure loads the workflow config, falling back to the built-in
// defaults when no path is set.
func (w *Workflow) Configure() (*domainConfig.WorkflowConfig, error) {
	if w.configPath == "" {
		return domainConfig.DefaultWorkflowConfig(), nil
	}

	data, err := os.ReadFile(w.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "workflow config not found",
				goerr.V(ConfigPathKey, w.configPath))
		}
		return nil, goerr.Wrap(err, "failed to read workflow config",
			goerr.V(ConfigPathKey, w.configPath))
	}

	var file workflowFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse workflow config",
			goerr.V(ConfigPathKey, w.configPath), goerr.V("error", err.Error()))
	}

	cfg := &domainConfig.WorkflowConfig{
		ReferencePrefix: file.ReferencePrefix,
	}
	if cfg.ReferencePrefix == "" {
		cfg.ReferencePrefix = "RA"
	}

	seen := make(map[string]bool)
	for _, role := range file.Roles {
		if err := role.Validate(); err != nil {
			return nil, err
		}
		if seen[role.Name] {
			return nil, goerr.Wrap(ErrInvalidConfig, "duplicate role",
				goerr.V("role", role.Name))
		}
		seen[role.Name] = true

		caps := make([]domainConfig.Capability, len(role.Capabilities))
		for i, c := range role.Capabilities {
			caps[i] = domainConfig.Capability(c)
		}
		cfg.Permissions = append(cfg.Permissions, domainConfig.RolePermission{
			Role:         types.Role(role.Name),
			Capabilities: caps,
		})
	}

	if len(cfg.Permissions) == 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "workflow config defines no roles",
			goerr.V(ConfigPathKey, w.configPath))
	}

	return cfg, nil
}
