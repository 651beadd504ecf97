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

type commentDocument struct {
	ID           string    `firestore:"id"`
	AcceptanceID string    `firestore:"acceptance_id"`
	UserID       string    `firestore:"user_id"`
	Body         string    `firestore:"body"`
	CreatedAt    time.Time `firestore:"created_at"`
}

func toCommentDocument(c *model.Comment) *commentDocument {
	return &commentDocument{
		ID:           c.ID.String(),
		AcceptanceID: c.AcceptanceID.String(),
		UserID:       c.UserID.String(),
		Body:         c.Body,
		CreatedAt:    c.CreatedAt,
	}
}

func (d *commentDocument) toModel() *model.Comment {
	return &model.Comment{
		ID:           types.CommentID(d.ID),
		AcceptanceID: types.AcceptanceID(d.AcceptanceID),
		UserID:       types.UserID(d.UserID),
		Body:         d.Body,
		CreatedAt:    d.CreatedAt,
	}
}

type commentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCommentRepository(client *firestore.Client) *commentRepository {
	return &commentRepository{client: client}
}

func (r *commentRepository) collection() string {
	return prefixed(r.collectionPrefix, "acceptance_comments")
}

func (r *commentRepository) Add(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	acceptanceRef := r.client.Collection(prefixed(r.collectionPrefix, "acceptances")).
		Doc(comment.AcceptanceID.String())
	if _, err := acceptanceRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "acceptance not found",
				goerr.V(model.AcceptanceIDKey, comment.AcceptanceID))
		}
		return nil, goerr.Wrap(err, "failed to check acceptance existence")
	}

	created := comment.Clone()
	if created.ID == "" {
		created.ID = types.NewCommentID()
	}
	created.CreatedAt = time.Now().UTC()

	docRef := r.client.Collection(r.collection()).Doc(created.ID.String())
	if _, err := docRef.Create(ctx, toCommentDocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create comment",
			goerr.V(model.AcceptanceIDKey, comment.AcceptanceID))
	}

	return created, nil
}

func (r *commentRepository) List(ctx context.Context, acceptanceID types.AcceptanceID) ([]*model.Comment, error) {
	iter := r.client.Collection(r.collection()).
		Where("acceptance_id", "==", acceptanceID.String()).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var comments []*model.Comment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate comments", goerr.V(model.AcceptanceIDKey, acceptanceID))
		}

		var d commentDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal comment")
		}
		comments = append(comments, d.toModel())
	}

	return comments, nil
}
