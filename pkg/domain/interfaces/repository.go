package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Acceptance() AcceptanceRepository
	History() HistoryRepository
	Comment() CommentRepository
	Sequence() SequenceRepository
	Risk() RiskRepository
	Control() ControlRepository
	Outcome() OutcomeRepository
	User() UserRepository

	Close() error
}
