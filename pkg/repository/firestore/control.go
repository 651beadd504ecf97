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

type controlDocument struct {
	ID          string `firestore:"id"`
	Name        string `firestore:"name"`
	Description string `firestore:"description"`
}

func toControlDocument(c *model.Control) *controlDocument {
	return &controlDocument{
		ID:          string(c.ID),
		Name:        c.Name,
		Description: c.Description,
	}
}

func (d *controlDocument) toModel() *model.Control {
	return &model.Control{
		ID:          types.ControlID(d.ID),
		Name:        d.Name,
		Description: d.Description,
	}
}

type controlRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newControlRepository(client *firestore.Client) *controlRepository {
	return &controlRepository{client: client}
}

func (r *controlRepository) collection() string {
	return prefixed(r.collectionPrefix, "controls")
}

func (r *controlRepository) Get(ctx context.Context, id types.ControlID) (*model.Control, error) {
	doc, err := r.client.Collection(r.collection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "control not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get control", goerr.V("id", id))
	}

	var d controlDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal control", goerr.V("id", id))
	}

	return d.toModel(), nil
}

func (r *controlRepository) Put(ctx context.Context, control *model.Control) (*model.Control, error) {
	docRef := r.client.Collection(r.collection()).Doc(string(control.ID))
	if _, err := docRef.Set(ctx, toControlDocument(control)); err != nil {
		return nil, goerr.Wrap(err, "failed to put control", goerr.V("id", control.ID))
	}

	copied := *control
	return &copied, nil
}
