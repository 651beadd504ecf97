package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"github.com/secmon-lab/riskaccept/pkg/repository/memory"
)

func runCommentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Add attaches comment to existing acceptance", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		acceptance := newProposedAcceptance()
		if _, err := repo.Acceptance().Create(ctx, acceptance, createdEntry(acceptance)); err != nil {
			t.Fatalf("failed to create acceptance: %v", err)
		}

		created, err := repo.Comment().Add(ctx, &model.Comment{
			AcceptanceID: acceptance.ID,
			UserID:       "user-ccro",
			Body:         "Please add compensating controls",
		})
		if err != nil {
			t.Fatalf("failed to add comment: %v", err)
		}

		if created.ID == "" {
			t.Error("expected generated comment ID")
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}
	})

	t.Run("Add rejects comment on missing acceptance", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Comment().Add(ctx, &model.Comment{
			AcceptanceID: types.NewAcceptanceID(),
			UserID:       "user-ccro",
			Body:         "orphan",
		})
		if !errors.Is(err, model.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("List returns comments in creation order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		acceptance := newProposedAcceptance()
		if _, err := repo.Acceptance().Create(ctx, acceptance, createdEntry(acceptance)); err != nil {
			t.Fatalf("failed to create acceptance: %v", err)
		}

		for i := 0; i < 3; i++ {
			_, err := repo.Comment().Add(ctx, &model.Comment{
				AcceptanceID: acceptance.ID,
				UserID:       "user-proposer",
				Body:         fmt.Sprintf("comment %d", i),
			})
			if err != nil {
				t.Fatalf("failed to add comment %d: %v", i, err)
			}
		}

		comments, err := repo.Comment().List(ctx, acceptance.ID)
		if err != nil {
			t.Fatalf("failed to list comments: %v", err)
		}
		if len(comments) != 3 {
			t.Fatalf("expected 3 comments, got %d", len(comments))
		}
		for i := 1; i < len(comments); i++ {
			if comments[i].CreatedAt.Before(comments[i-1].CreatedAt) {
				t.Errorf("comments out of order at index %d", i)
			}
		}
	})
}

func TestMemoryCommentRepository(t *testing.T) {
	runCommentRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreCommentRepository(t *testing.T) {
	runCommentRepositoryTest(t, newFirestoreRepository)
}
