package model

import (
	"time"

	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// Risk is the collaborator risk-register record an acceptance may link to.
// This engine reads it for projections and never mutates it.
type Risk struct {
	ID          types.RiskID
	Title       string
	Description string
	OwnerID     types.UserID
	Controls    []Control
	Mitigations []Mitigation
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Control is a control-library entry
type Control struct {
	ID          types.ControlID
	Name        string
	Description string
}

// Mitigation is a remediation measure recorded against a risk
type Mitigation struct {
	ID          types.ActionID
	Summary     string
	DueDate     *time.Time
	CompletedAt *time.Time
}

// ConsumerDutyOutcome is the collaborator record for regulatory outcome
// mapping
type ConsumerDutyOutcome struct {
	ID          types.OutcomeID
	Name        string
	Description string
}
