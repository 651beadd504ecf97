package memory

import (
	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is the in-memory repository backend used for development and
// tests. All stores guard their maps with mutexes so the concurrency
// semantics match the Firestore backend.
type Memory struct {
	acceptance *acceptanceRepository
	history    *historyStore
	comment    *commentRepository
	sequence   *sequenceRepository
	risk       *riskRepository
	control    *controlRepository
	outcome    *outcomeRepository
	user       *userRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	historyStore := newHistoryStore()
	acceptanceRepo := newAcceptanceRepository(historyStore)
	commentRepo := newCommentRepository(acceptanceRepo)

	return &Memory{
		acceptance: acceptanceRepo,
		history:    historyStore,
		comment:    commentRepo,
		sequence:   newSequenceRepository(),
		risk:       newRiskRepository(),
		control:    newControlRepository(),
		outcome:    newOutcomeRepository(),
		user:       newUserRepository(),
	}
}

func (m *Memory) Acceptance() interfaces.AcceptanceRepository {
	return m.acceptance
}

func (m *Memory) History() interfaces.HistoryRepository {
	return m.history
}

func (m *Memory) Comment() interfaces.CommentRepository {
	return m.comment
}

func (m *Memory) Sequence() interfaces.SequenceRepository {
	return m.sequence
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Control() interfaces.ControlRepository {
	return m.control
}

func (m *Memory) Outcome() interfaces.OutcomeRepository {
	return m.outcome
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Close() error {
	return nil
}
