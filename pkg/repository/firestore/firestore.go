package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
)

// Firestore is the production repository backend. Every status swap runs
// inside a Firestore transaction so the compare-and-swap semantics match
// the memory backend.
type Firestore struct {
	client     *firestore.Client
	acceptance *acceptanceRepository
	history    *historyRepository
	comment    *commentRepository
	sequence   *sequenceRepository
	risk       *riskRepository
	control    *controlRepository
	outcome    *outcomeRepository
	user       *userRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, mainly for tests sharing
// one project
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.acceptance.collectionPrefix = prefix
		f.history.collectionPrefix = prefix
		f.comment.collectionPrefix = prefix
		f.sequence.collectionPrefix = prefix
		f.risk.collectionPrefix = prefix
		f.control.collectionPrefix = prefix
		f.outcome.collectionPrefix = prefix
		f.user.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:     client,
		acceptance: newAcceptanceRepository(client),
		history:    newHistoryRepository(client),
		comment:    newCommentRepository(client),
		sequence:   newSequenceRepository(client),
		risk:       newRiskRepository(client),
		control:    newControlRepository(client),
		outcome:    newOutcomeRepository(client),
		user:       newUserRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Acceptance() interfaces.AcceptanceRepository {
	return f.acceptance
}

func (f *Firestore) History() interfaces.HistoryRepository {
	return f.history
}

func (f *Firestore) Comment() interfaces.CommentRepository {
	return f.comment
}

func (f *Firestore) Sequence() interfaces.SequenceRepository {
	return f.sequence
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *Firestore) Control() interfaces.ControlRepository {
	return f.control
}

func (f *Firestore) Outcome() interfaces.OutcomeRepository {
	return f.outcome
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func prefixed(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}
