package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskaccept/pkg/cli/config"
	domainConfig "github.com/secmon-lab/riskaccept/pkg/domain/model/config"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

func TestWorkflowConfigure(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "valid configuration with all capabilities",
			content: `
reference_prefix = "RA"

[[role]]
name = "staff"
capabilities = ["propose", "comment", "view"]

[[role]]
name = "ccro"
capabilities = ["propose", "review", "comment", "view"]

[[role]]
name = "admin"
capabilities = ["propose", "review", "comment", "view"]
`,
			wantErr: nil,
		},
		{
			name: "default reference prefix when not specified",
			content: `
[[role]]
name = "staff"
capabilities = ["propose", "view"]
`,
			wantErr: nil,
		},
		{
			name:    "config file not found",
			content: "", // Won't create the file
			wantErr: config.ErrConfigNotFound,
		},
		{
			name: "missing role name",
			content: `
[[role]]
capabilities = ["propose"]
`,
			wantErr: config.ErrMissingName,
		},
		{
			name: "unknown capability",
			content: `
[[role]]
name = "staff"
capabilities = ["approve-everything"]
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "duplicate role",
			content: `
[[role]]
name = "staff"
capabilities = ["propose"]

[[role]]
name = "staff"
capabilities = ["view"]
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "no roles defined",
			content: `
reference_prefix = "RA"
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "not valid TOML",
			content: `
[[role]
name = staff
`,
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "workflow.toml")

			// Only create file if content is not empty
			if tt.content != "" {
				err := os.WriteFile(configPath, []byte(tt.content), 0644)
				gt.NoError(t, err).Required()
			}

			cfg, err := config.NewWorkflowForTest(configPath).Configure()

			if tt.wantErr != nil {
				gt.Value(t, err).NotNil()
				if err != nil {
					gt.Error(t, err).Is(tt.wantErr)
				}
				return
			}

			gt.NoError(t, err)
			if err != nil {
				return
			}

			gt.Value(t, cfg).NotNil()
			gt.Value(t, cfg.ReferencePrefix).Equal("RA")
		})
	}
}

func TestWorkflowConfigureDefaults(t *testing.T) {
	cfg, err := config.NewWorkflowForTest("").Configure()
	gt.NoError(t, err).Required()

	gt.Value(t, cfg.ReferencePrefix).Equal("RA")
	gt.Bool(t, cfg.HasCapability(types.RoleStaff, domainConfig.CapabilityPropose)).True()
	gt.Bool(t, cfg.HasCapability(types.RoleStaff, domainConfig.CapabilityReview)).False()
	gt.Bool(t, cfg.HasCapability(types.RoleCCRO, domainConfig.CapabilityReview)).True()
	gt.Bool(t, cfg.HasCapability(types.RoleAdmin, domainConfig.CapabilityReview)).True()
}

func TestWorkflowConfigureCapabilityTable(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "workflow.toml")

	content := `
reference_prefix = "ACC"

[[role]]
name = "proposer"
capabilities = ["propose", "view"]

[[role]]
name = "reviewer"
capabilities = ["review", "comment", "view"]
`
	gt.NoError(t, os.WriteFile(configPath, []byte(content), 0644)).Required()

	cfg, err := config.NewWorkflowForTest(configPath).Configure()
	gt.NoError(t, err).Required()

	gt.Value(t, cfg.ReferencePrefix).Equal("ACC")
	gt.Bool(t, cfg.HasCapability(types.Role("proposer"), domainConfig.CapabilityPropose)).True()
	gt.Bool(t, cfg.HasCapability(types.Role("proposer"), domainConfig.CapabilityReview)).False()
	gt.Bool(t, cfg.HasCapability(types.Role("reviewer"), domainConfig.CapabilityReview)).True()
	gt.Bool(t, cfg.HasCapability(types.Role("unknown"), domainConfig.CapabilityView)).False()
}
