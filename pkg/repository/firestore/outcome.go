package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type outcomeDocument struct {
	ID          string `firestore:"id"`
	Name        string `firestore:"name"`
	Description string `firestore:"description"`
}

type outcomeRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newOutcomeRepository(client *firestore.Client) *outcomeRepository {
	return &outcomeRepository{client: client}
}

func (r *outcomeRepository) collection() string {
	return prefixed(r.collectionPrefix, "consumer_duty_outcomes")
}

func (r *outcomeRepository) Get(ctx context.Context, id types.OutcomeID) (*model.ConsumerDutyOutcome, error) {
	doc, err := r.client.Collection(r.collection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "outcome not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get outcome", goerr.V("id", id))
	}

	var d outcomeDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal outcome", goerr.V("id", id))
	}

	return &model.ConsumerDutyOutcome{
		ID:          types.OutcomeID(d.ID),
		Name:        d.Name,
		Description: d.Description,
	}, nil
}

func (r *outcomeRepository) Put(ctx context.Context, outcome *model.ConsumerDutyOutcome) (*model.ConsumerDutyOutcome, error) {
	docRef := r.client.Collection(r.collection()).Doc(string(outcome.ID))
	d := &outcomeDocument{
		ID:          string(outcome.ID),
		Name:        outcome.Name,
		Description: outcome.Description,
	}
	if _, err := docRef.Set(ctx, d); err != nil {
		return nil, goerr.Wrap(err, "failed to put outcome", goerr.V("id", outcome.ID))
	}

	copied := *outcome
	return &copied, nil
}
