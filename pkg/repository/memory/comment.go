package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
)

type commentRepository struct {
	mu         sync.Mutex
	comments   map[types.AcceptanceID][]*model.Comment
	acceptance *acceptanceRepository
}

func newCommentRepository(acceptance *acceptanceRepository) *commentRepository {
	return &commentRepository{
		comments:   make(map[types.AcceptanceID][]*model.Comment),
		acceptance: acceptance,
	}
}

func (r *commentRepository) Add(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	if !r.acceptance.exists(comment.AcceptanceID) {
		return nil, goerr.Wrap(model.ErrNotFound, "acceptance not found",
			goerr.V(model.AcceptanceIDKey, comment.AcceptanceID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := comment.Clone()
	if created.ID == "" {
		created.ID = types.NewCommentID()
	}
	created.CreatedAt = time.Now().UTC()

	r.comments[created.AcceptanceID] = append(r.comments[created.AcceptanceID], created)
	return created.Clone(), nil
}

func (r *commentRepository) List(ctx context.Context, acceptanceID types.AcceptanceID) ([]*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.comments[acceptanceID]
	result := make([]*model.Comment, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}
