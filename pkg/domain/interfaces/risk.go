package interfaces

import (
	"context"

	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

// RiskRepository is the collaborator risk-register lookup. The workflow
// engine reads risks for projections; Put exists for seeding.
type RiskRepository interface {
	Get(ctx context.Context, id types.RiskID) (*model.Risk, error)
	List(ctx context.Context) ([]*model.Risk, error)
	Put(ctx context.Context, risk *model.Risk) (*model.Risk, error)
}

// ControlRepository is the collaborator control-library lookup
type ControlRepository interface {
	Get(ctx context.Context, id types.ControlID) (*model.Control, error)
	Put(ctx context.Context, control *model.Control) (*model.Control, error)
}

// OutcomeRepository is the collaborator consumer-duty outcome lookup
type OutcomeRepository interface {
	Get(ctx context.Context, id types.OutcomeID) (*model.ConsumerDutyOutcome, error)
	Put(ctx context.Context, outcome *model.ConsumerDutyOutcome) (*model.ConsumerDutyOutcome, error)
}
