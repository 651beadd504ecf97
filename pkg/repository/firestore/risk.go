package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type riskDocument struct {
	ID          string               `firestore:"id"`
	Title       string               `firestore:"title"`
	Description string               `firestore:"description"`
	OwnerID     string               `firestore:"owner_id"`
	Controls    []controlDocument    `firestore:"controls"`
	Mitigations []mitigationDocument `firestore:"mitigations"`
	CreatedAt   time.Time            `firestore:"created_at"`
	UpdatedAt   time.Time            `firestore:"updated_at"`
}

type mitigationDocument struct {
	ID          string     `firestore:"id"`
	Summary     string     `firestore:"summary"`
	DueDate     *time.Time `firestore:"due_date"`
	CompletedAt *time.Time `firestore:"completed_at"`
}

func toRiskDocument(r *model.Risk) *riskDocument {
	controls := make([]controlDocument, len(r.Controls))
	for i, c := range r.Controls {
		controls[i] = *toControlDocument(&c)
	}
	mitigations := make([]mitigationDocument, len(r.Mitigations))
	for i, m := range r.Mitigations {
		mitigations[i] = mitigationDocument{
			ID:          string(m.ID),
			Summary:     m.Summary,
			DueDate:     m.DueDate,
			CompletedAt: m.CompletedAt,
		}
	}

	return &riskDocument{
		ID:          string(r.ID),
		Title:       r.Title,
		Description: r.Description,
		OwnerID:     r.OwnerID.String(),
		Controls:    controls,
		Mitigations: mitigations,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (d *riskDocument) toModel() *model.Risk {
	controls := make([]model.Control, len(d.Controls))
	for i, c := range d.Controls {
		controls[i] = *c.toModel()
	}
	mitigations := make([]model.Mitigation, len(d.Mitigations))
	for i, m := range d.Mitigations {
		mitigations[i] = model.Mitigation{
			ID:          types.ActionID(m.ID),
			Summary:     m.Summary,
			DueDate:     m.DueDate,
			CompletedAt: m.CompletedAt,
		}
	}

	return &model.Risk{
		ID:          types.RiskID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		OwnerID:     types.UserID(d.OwnerID),
		Controls:    controls,
		Mitigations: mitigations,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type riskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskRepository(client *firestore.Client) *riskRepository {
	return &riskRepository{client: client}
}

func (r *riskRepository) collection() string {
	return prefixed(r.collectionPrefix, "risks")
}

func (r *riskRepository) Get(ctx context.Context, id types.RiskID) (*model.Risk, error) {
	doc, err := r.client.Collection(r.collection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	var d riskDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", id))
	}

	return d.toModel(), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var risks []*model.Risk
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks")
		}

		var d riskDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk")
		}
		risks = append(risks, d.toModel())
	}

	return risks, nil
}

func (r *riskRepository) Put(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	docRef := r.client.Collection(r.collection()).Doc(string(risk.ID))
	if _, err := docRef.Set(ctx, toRiskDocument(risk)); err != nil {
		return nil, goerr.Wrap(err, "failed to put risk", goerr.V("id", risk.ID))
	}

	copied := *risk
	return &copied, nil
}
