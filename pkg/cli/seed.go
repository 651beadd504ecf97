package cli

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/riskaccept/pkg/cli/config"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"github.com/secmon-lab/riskaccept/pkg/utils/logging"
	"github.com/secmon-lab/riskaccept/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// seedFile is the TOML shape of a collaborator fixture file. It carries the
// read-only reference data (users, risks, controls, outcomes) that the
// workflow engine links against but never owns.
type seedFile struct {
	Users    []seedUser    `toml:"user"`
	Risks    []seedRisk    `toml:"risk"`
	Controls []seedControl `toml:"control"`
	Outcomes []seedOutcome `toml:"outcome"`
}

type seedUser struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Email string `toml:"email"`
	Role  string `toml:"role"`
}

type seedRisk struct {
	ID          string           `toml:"id"`
	Title       string           `toml:"title"`
	Description string           `toml:"description"`
	OwnerID     string           `toml:"owner_id"`
	Controls    []seedControl    `toml:"controls"`
	Mitigations []seedMitigation `toml:"mitigations"`
}

type seedControl struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

type seedMitigation struct {
	ID      string     `toml:"id"`
	Summary string     `toml:"summary"`
	DueDate *time.Time `toml:"due_date"`
}

type seedOutcome struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

func cmdSeed() *cli.Command {
	var repoCfg config.Repository
	var seedPath string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "seed-file",
			Usage:       "Path to collaborator fixture TOML",
			Required:    true,
			Sources:     cli.EnvVars("RISKACCEPT_SEED_FILE"),
			Destination: &seedPath,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load collaborator fixtures (users, risks, controls, outcomes)",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			data, err := os.ReadFile(seedPath)
			if err != nil {
				return goerr.Wrap(err, "failed to read seed file",
					goerr.V(config.ConfigPathKey, seedPath))
			}

			var file seedFile
			if err := toml.Unmarshal(data, &file); err != nil {
				return goerr.Wrap(err, "failed to parse seed file",
					goerr.V(config.ConfigPathKey, seedPath))
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			logger := logging.Default()

			for _, u := range file.Users {
				user := &model.User{
					ID:    types.UserID(u.ID),
					Name:  u.Name,
					Email: u.Email,
					Role:  types.Role(u.Role),
				}
				if _, err := repo.User().Put(ctx, user); err != nil {
					return goerr.Wrap(err, "failed to seed user", goerr.V("user_id", u.ID))
				}
			}

			for _, ctl := range file.Controls {
				control := &model.Control{
					ID:          types.ControlID(ctl.ID),
					Name:        ctl.Name,
					Description: ctl.Description,
				}
				if _, err := repo.Control().Put(ctx, control); err != nil {
					return goerr.Wrap(err, "failed to seed control", goerr.V("control_id", ctl.ID))
				}
			}

			for _, o := range file.Outcomes {
				outcome := &model.ConsumerDutyOutcome{
					ID:          types.OutcomeID(o.ID),
					Name:        o.Name,
					Description: o.Description,
				}
				if _, err := repo.Outcome().Put(ctx, outcome); err != nil {
					return goerr.Wrap(err, "failed to seed outcome", goerr.V("outcome_id", o.ID))
				}
			}

			now := time.Now()
			for _, r := range file.Risks {
				risk := &model.Risk{
					ID:          types.RiskID(r.ID),
					Title:       r.Title,
					Description: r.Description,
					OwnerID:     types.UserID(r.OwnerID),
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				for _, ctl := range r.Controls {
					risk.Controls = append(risk.Controls, model.Control{
						ID:          types.ControlID(ctl.ID),
						Name:        ctl.Name,
						Description: ctl.Description,
					})
				}
				for _, m := range r.Mitigations {
					risk.Mitigations = append(risk.Mitigations, model.Mitigation{
						ID:      types.ActionID(m.ID),
						Summary: m.Summary,
						DueDate: m.DueDate,
					})
				}
				if _, err := repo.Risk().Put(ctx, risk); err != nil {
					return goerr.Wrap(err, "failed to seed risk", goerr.V("risk_id", r.ID))
				}
			}

			logger.Info("Seed completed",
				"users", len(file.Users),
				"controls", len(file.Controls),
				"outcomes", len(file.Outcomes),
				"risks", len(file.Risks))

			return nil
		},
	}
}
