package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type sequenceDocument struct {
	Value int64 `firestore:"value"`
}

// sequenceRepository allocates monotonically increasing numbers from a
// counter document per prefix. The read-increment-write runs inside a
// transaction, so concurrent callers never see the same value.
type sequenceRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSequenceRepository(client *firestore.Client) *sequenceRepository {
	return &sequenceRepository{client: client}
}

func (r *sequenceRepository) Allocate(ctx context.Context, prefix string) (int64, error) {
	docRef := r.client.Collection(prefixed(r.collectionPrefix, "sequences")).Doc(prefix)

	var allocated int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get sequence counter", goerr.V("prefix", prefix))
		}

		var counter sequenceDocument
		if err == nil {
			if err := doc.DataTo(&counter); err != nil {
				return goerr.Wrap(err, "failed to unmarshal sequence counter", goerr.V("prefix", prefix))
			}
		}

		counter.Value++
		allocated = counter.Value

		return tx.Set(docRef, &counter)
	})
	if err != nil {
		return 0, err
	}

	return allocated, nil
}
