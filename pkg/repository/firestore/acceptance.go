package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type acceptanceDocument struct {
	ID                    string     `firestore:"id"`
	Reference             string     `firestore:"reference"`
	Source                string     `firestore:"source"`
	Title                 string     `firestore:"title"`
	Description           string     `firestore:"description"`
	ProposedRationale     string     `firestore:"proposed_rationale"`
	ProposedConditions    string     `firestore:"proposed_conditions"`
	RiskID                string     `firestore:"risk_id"`
	LinkedControlID       string     `firestore:"linked_control_id"`
	ConsumerDutyOutcomeID string     `firestore:"consumer_duty_outcome_id"`
	LinkedActionIDs       []string   `firestore:"linked_action_ids"`
	Status                string     `firestore:"status"`
	ProposerID            string     `firestore:"proposer_id"`
	ApproverID            string     `firestore:"approver_id"`
	ReviewDate            *time.Time `firestore:"review_date"`
	ReviewNote            string     `firestore:"review_note"`
	ReturnedAt            *time.Time `firestore:"returned_at"`
	ContentUpdatedAt      time.Time  `firestore:"content_updated_at"`
	HistorySeq            int64      `firestore:"history_seq"`
	CreatedAt             time.Time  `firestore:"created_at"`
	UpdatedAt             time.Time  `firestore:"updated_at"`
}

func toAcceptanceDocument(a *model.RiskAcceptance) *acceptanceDocument {
	actionIDs := make([]string, len(a.LinkedActionIDs))
	for i, id := range a.LinkedActionIDs {
		actionIDs[i] = string(id)
	}

	return &acceptanceDocument{
		ID:                    a.ID.String(),
		Reference:             a.Reference,
		Source:                a.Source.String(),
		Title:                 a.Title,
		Description:           a.Description,
		ProposedRationale:     a.ProposedRationale,
		ProposedConditions:    a.ProposedConditions,
		RiskID:                string(a.RiskID),
		LinkedControlID:       string(a.LinkedControlID),
		ConsumerDutyOutcomeID: string(a.ConsumerDutyOutcomeID),
		LinkedActionIDs:       actionIDs,
		Status:                a.Status.String(),
		ProposerID:            a.ProposerID.String(),
		ApproverID:            a.ApproverID.String(),
		ReviewDate:            a.ReviewDate,
		ReviewNote:            a.ReviewNote,
		ReturnedAt:            a.ReturnedAt,
		ContentUpdatedAt:      a.ContentUpdatedAt,
		HistorySeq:            a.HistorySeq,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
}

func (d *acceptanceDocument) toModel() *model.RiskAcceptance {
	actionIDs := make([]types.ActionID, len(d.LinkedActionIDs))
	for i, id := range d.LinkedActionIDs {
		actionIDs[i] = types.ActionID(id)
	}

	return &model.RiskAcceptance{
		ID:                    types.AcceptanceID(d.ID),
		Reference:             d.Reference,
		Source:                types.AcceptanceSource(d.Source),
		Title:                 d.Title,
		Description:           d.Description,
		ProposedRationale:     d.ProposedRationale,
		ProposedConditions:    d.ProposedConditions,
		RiskID:                types.RiskID(d.RiskID),
		LinkedControlID:       types.ControlID(d.LinkedControlID),
		ConsumerDutyOutcomeID: types.OutcomeID(d.ConsumerDutyOutcomeID),
		LinkedActionIDs:       actionIDs,
		Status:                types.AcceptanceStatus(d.Status),
		ProposerID:            types.UserID(d.ProposerID),
		ApproverID:            types.UserID(d.ApproverID),
		ReviewDate:            d.ReviewDate,
		ReviewNote:            d.ReviewNote,
		ReturnedAt:            d.ReturnedAt,
		ContentUpdatedAt:      d.ContentUpdatedAt,
		HistorySeq:            d.HistorySeq,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

type acceptanceRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAcceptanceRepository(client *firestore.Client) *acceptanceRepository {
	return &acceptanceRepository{client: client}
}

func (r *acceptanceRepository) collection() string {
	return prefixed(r.collectionPrefix, "acceptances")
}

func (r *acceptanceRepository) docRef(id types.AcceptanceID) *firestore.DocumentRef {
	return r.client.Collection(r.collection()).Doc(id.String())
}

func (r *acceptanceRepository) historyRef(id types.AcceptanceID, historyID types.HistoryID) *firestore.DocumentRef {
	return r.docRef(id).Collection("history").Doc(historyID.String())
}

func (r *acceptanceRepository) Create(ctx context.Context, acceptance *model.RiskAcceptance, entry *model.HistoryEntry) (*model.RiskAcceptance, error) {
	now := time.Now().UTC()
	created := acceptance.Clone()
	created.CreatedAt = now
	created.UpdatedAt = now
	created.ContentUpdatedAt = now
	created.HistorySeq = 1

	row := entry.Clone()
	row.AcceptanceID = created.ID
	row.Seq = created.HistorySeq
	row.CreatedAt = now

	docRef := r.docRef(created.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err == nil {
			return goerr.New("acceptance already exists", goerr.V(model.AcceptanceIDKey, created.ID))
		} else if status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to check acceptance existence")
		}

		if err := tx.Create(docRef, toAcceptanceDocument(created)); err != nil {
			return goerr.Wrap(err, "failed to create acceptance")
		}
		if err := tx.Create(r.historyRef(created.ID, row.ID), toHistoryDocument(row)); err != nil {
			return goerr.Wrap(err, "failed to create history row")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *acceptanceRepository) Get(ctx context.Context, id types.AcceptanceID) (*model.RiskAcceptance, error) {
	doc, err := r.docRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "acceptance not found", goerr.V(model.AcceptanceIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get acceptance", goerr.V(model.AcceptanceIDKey, id))
	}

	var d acceptanceDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal acceptance", goerr.V(model.AcceptanceIDKey, id))
	}

	return d.toModel(), nil
}

func (r *acceptanceRepository) List(ctx context.Context, opts ...interfaces.ListAcceptanceOption) ([]*model.RiskAcceptance, error) {
	cfg := interfaces.BuildListAcceptanceConfig(opts...)

	query := r.client.Collection(r.collection()).Query
	if cfg.Status() != nil {
		query = query.Where("status", "==", cfg.Status().String())
	}
	if cfg.Source() != nil {
		query = query.Where("source", "==", cfg.Source().String())
	}
	if before := cfg.ReviewDateBefore(); before != nil {
		query = query.Where("review_date", "<", *before)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var acceptances []*model.RiskAcceptance
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate acceptances")
		}

		var d acceptanceDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal acceptance")
		}
		acceptances = append(acceptances, d.toModel())
	}

	return acceptances, nil
}

func (r *acceptanceRepository) UpdateContent(ctx context.Context, acceptance *model.RiskAcceptance) (*model.RiskAcceptance, error) {
	docRef := r.docRef(acceptance.ID)

	var updated *model.RiskAcceptance
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrNotFound, "acceptance not found", goerr.V(model.AcceptanceIDKey, acceptance.ID))
			}
			return goerr.Wrap(err, "failed to get acceptance")
		}

		var d acceptanceDocument
		if err := doc.DataTo(&d); err != nil {
			return goerr.Wrap(err, "failed to unmarshal acceptance")
		}
		existing := d.toModel()

		if !existing.ContentEditable() {
			return goerr.Wrap(model.ErrConflict, "acceptance is under review",
				goerr.V(model.AcceptanceIDKey, acceptance.ID), goerr.V(model.FromStatusKey, existing.Status))
		}

		now := time.Now().UTC()
		updated = existing.Clone()
		updated.Title = acceptance.Title
		updated.Description = acceptance.Description
		updated.ProposedRationale = acceptance.ProposedRationale
		updated.ProposedConditions = acceptance.ProposedConditions
		updated.RiskID = acceptance.RiskID
		updated.LinkedControlID = acceptance.LinkedControlID
		updated.ConsumerDutyOutcomeID = acceptance.ConsumerDutyOutcomeID
		updated.LinkedActionIDs = append([]types.ActionID(nil), acceptance.LinkedActionIDs...)
		updated.ReviewDate = acceptance.ReviewDate
		updated.ApproverID = acceptance.ApproverID
		updated.ContentUpdatedAt = now
		updated.UpdatedAt = now
		updated.NormalizeLinkedActions()

		return tx.Set(docRef, toAcceptanceDocument(updated))
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *acceptanceRepository) Transition(ctx context.Context, id types.AcceptanceID, from types.AcceptanceStatus,
	mutate func(*model.RiskAcceptance) error, entry *model.HistoryEntry) (*model.RiskAcceptance, error) {

	docRef := r.docRef(id)

	var updated *model.RiskAcceptance
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrNotFound, "acceptance not found", goerr.V(model.AcceptanceIDKey, id))
			}
			return goerr.Wrap(err, "failed to get acceptance")
		}

		var d acceptanceDocument
		if err := doc.DataTo(&d); err != nil {
			return goerr.Wrap(err, "failed to unmarshal acceptance")
		}
		existing := d.toModel()

		// Compare-and-swap: the transaction re-runs on contention, so a
		// racing transition surfaces here as a status mismatch.
		if existing.Status != from {
			return goerr.Wrap(model.ErrConflict, "acceptance status changed",
				goerr.V(model.AcceptanceIDKey, id),
				goerr.V("expected", from),
				goerr.V("actual", existing.Status))
		}

		updated = existing.Clone()
		if err := mutate(updated); err != nil {
			return err
		}
		updated.HistorySeq = existing.HistorySeq + 1

		row := entry.Clone()
		row.AcceptanceID = id
		row.Seq = updated.HistorySeq
		row.CreatedAt = time.Now().UTC()

		if err := tx.Set(docRef, toAcceptanceDocument(updated)); err != nil {
			return goerr.Wrap(err, "failed to update acceptance")
		}
		if err := tx.Create(r.historyRef(id, row.ID), toHistoryDocument(row)); err != nil {
			return goerr.Wrap(err, "failed to append history row")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
