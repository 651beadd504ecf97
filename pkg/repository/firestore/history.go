package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type historyDocument struct {
	ID           string    `firestore:"id"`
	AcceptanceID string    `firestore:"acceptance_id"`
	UserID       string    `firestore:"user_id"`
	Action       string    `firestore:"action"`
	FromStatus   string    `firestore:"from_status"`
	ToStatus     string    `firestore:"to_status"`
	Details      string    `firestore:"details"`
	Seq          int64     `firestore:"seq"`
	CreatedAt    time.Time `firestore:"created_at"`
}

func toHistoryDocument(e *model.HistoryEntry) *historyDocument {
	return &historyDocument{
		ID:           e.ID.String(),
		AcceptanceID: e.AcceptanceID.String(),
		UserID:       e.UserID.String(),
		Action:       e.Action.String(),
		FromStatus:   e.FromStatus.String(),
		ToStatus:     e.ToStatus.String(),
		Details:      e.Details,
		Seq:          e.Seq,
		CreatedAt:    e.CreatedAt,
	}
}

func (d *historyDocument) toModel() *model.HistoryEntry {
	return &model.HistoryEntry{
		ID:           types.HistoryID(d.ID),
		AcceptanceID: types.AcceptanceID(d.AcceptanceID),
		UserID:       types.UserID(d.UserID),
		Action:       types.HistoryAction(d.Action),
		FromStatus:   types.AcceptanceStatus(d.FromStatus),
		ToStatus:     types.AcceptanceStatus(d.ToStatus),
		Details:      d.Details,
		Seq:          d.Seq,
		CreatedAt:    d.CreatedAt,
	}
}

// historyRepository reads the per-acceptance "history" subcollection. Rows
// are written only by acceptanceRepository transactions.
type historyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newHistoryRepository(client *firestore.Client) *historyRepository {
	return &historyRepository{client: client}
}

func (r *historyRepository) List(ctx context.Context, acceptanceID types.AcceptanceID) ([]*model.HistoryEntry, error) {
	iter := r.client.Collection(prefixed(r.collectionPrefix, "acceptances")).
		Doc(acceptanceID.String()).
		Collection("history").
		OrderBy("seq", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var entries []*model.HistoryEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate history", goerr.V(model.AcceptanceIDKey, acceptanceID))
		}

		var d historyDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal history row")
		}
		entries = append(entries, d.toModel())
	}

	return entries, nil
}
