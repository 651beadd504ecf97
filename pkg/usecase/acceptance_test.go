package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/auth"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"github.com/secmon-lab/riskaccept/pkg/repository/memory"
	"github.com/secmon-lab/riskaccept/pkg/usecase"
)

var (
	proposer = &auth.Actor{ID: "user-proposer", Name: "Pat Proposer", Role: types.RoleStaff}
	reviewer = &auth.Actor{ID: "user-ccro", Name: "Casey Reviewer", Role: types.RoleCCRO}
	approver = &auth.Actor{ID: "user-approver", Name: "Alex Approver", Role: types.RoleStaff}
	outsider = &auth.Actor{ID: "user-outsider", Name: "Out Sider", Role: types.Role("contractor")}
)

func newCreateInput() *usecase.CreateAcceptanceInput {
	return &usecase.CreateAcceptanceInput{
		Source:            types.SourceRiskRegister,
		Title:             "Legacy TLS on partner endpoint",
		Description:       "Partner integration only supports TLS 1.1",
		ProposedRationale: "Partner migration is scheduled for next quarter",
		ApproverID:        approver.ID,
	}
}

func TestAcceptanceUseCase_Create(t *testing.T) {
	t.Run("create assigns sequential references", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		first, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()
		gt.Value(t, first.Reference).Equal("RA-001")
		gt.Value(t, first.Status).Equal(types.StatusProposed)
		gt.Value(t, first.ProposerID).Equal(proposer.ID)

		second, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()
		gt.Value(t, second.Reference).Equal("RA-002")
	})

	t.Run("create records CREATED in the ledger", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()

		detail, err := uc.Acceptance.GetDetail(ctx, proposer, created.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, detail.History).Length(1)
		gt.Value(t, detail.History[0].Action).Equal(types.ActionCreated)
		gt.Value(t, detail.History[0].ToStatus).Equal(types.StatusProposed)
		gt.Value(t, detail.History[0].UserID).Equal(proposer.ID)
	})

	t.Run("create rejects missing required fields", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		input := newCreateInput()
		input.Title = ""
		_, err := uc.Acceptance.Create(ctx, proposer, input)
		gt.Error(t, err).Is(model.ErrValidation)

		input = newCreateInput()
		input.ProposedRationale = ""
		_, err = uc.Acceptance.Create(ctx, proposer, input)
		gt.Error(t, err).Is(model.ErrValidation)

		input = newCreateInput()
		input.Source = "UNKNOWN"
		_, err = uc.Acceptance.Create(ctx, proposer, input)
		gt.Error(t, err).Is(model.ErrValidation)
	})

	t.Run("create forbids roles without propose capability", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.Acceptance.Create(ctx, outsider, newCreateInput())
		gt.Error(t, err).Is(model.ErrForbidden)

		_, err = uc.Acceptance.Create(ctx, nil, newCreateInput())
		gt.Error(t, err).Is(model.ErrForbidden)
	})

	t.Run("create deduplicates linked actions", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		input := newCreateInput()
		input.LinkedActionIDs = []types.ActionID{"act-2", "act-1", "act-2"}
		created, err := uc.Acceptance.Create(ctx, proposer, input)
		gt.NoError(t, err).Required()
		gt.Array(t, created.LinkedActionIDs).Length(2)
		gt.Value(t, created.LinkedActionIDs[0]).Equal(types.ActionID("act-1"))
	})
}

func TestAcceptanceUseCase_UpdateContent(t *testing.T) {
	newUpdateInput := func(a *model.RiskAcceptance) *usecase.UpdateContentInput {
		return &usecase.UpdateContentInput{
			Title:              a.Title,
			Description:        a.Description,
			ProposedRationale:  a.ProposedRationale,
			ProposedConditions: a.ProposedConditions,
			RiskID:             a.RiskID,
			ApproverID:         a.ApproverID,
			ReviewDate:         a.ReviewDate,
		}
	}

	t.Run("proposer edits content while proposed", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()

		input := newUpdateInput(created)
		input.Title = "Legacy TLS on partner endpoint (scoped to one VLAN)"
		updated, err := uc.Acceptance.UpdateContent(ctx, proposer, created.ID, input)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Title).Equal(input.Title)
		gt.Bool(t, updated.ContentUpdatedAt.After(created.ContentUpdatedAt)).True()
	})

	t.Run("identical save leaves the record untouched", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()

		saved, err := uc.Acceptance.UpdateContent(ctx, proposer, created.ID, newUpdateInput(created))
		gt.NoError(t, err).Required()
		gt.Value(t, saved.ContentUpdatedAt).Equal(created.ContentUpdatedAt)
	})

	t.Run("identical save does not unlock resubmission", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()

		_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
			&usecase.TransitionInput{To: types.StatusCCROReview})
		gt.NoError(t, err).Required()
		_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
			&usecase.TransitionInput{To: types.StatusReturned, ReviewNote: "rationale too thin"})
		gt.NoError(t, err).Required()

		// Saving the same values back is not rework.
		_, err = uc.Acceptance.UpdateContent(ctx, proposer, created.ID, newUpdateInput(created))
		gt.NoError(t, err).Required()
		_, err = uc.Acceptance.Transition(ctx, proposer, created.ID,
			&usecase.TransitionInput{To: types.StatusProposed})
		gt.Error(t, err).Is(model.ErrValidation)

		// An actual change is.
		edit := newUpdateInput(created)
		edit.ProposedRationale = "partner migration contract now countersigned"
		_, err = uc.Acceptance.UpdateContent(ctx, proposer, created.ID, edit)
		gt.NoError(t, err).Required()

		resubmitted, err := uc.Acceptance.Transition(ctx, proposer, created.ID,
			&usecase.TransitionInput{To: types.StatusProposed})
		gt.NoError(t, err).Required()
		gt.Value(t, resubmitted.Status).Equal(types.StatusProposed)
	})

	t.Run("only the proposer may edit", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()

		_, err = uc.Acceptance.UpdateContent(ctx, reviewer, created.ID, newUpdateInput(created))
		gt.Error(t, err).Is(model.ErrForbidden)
	})

	t.Run("editing is locked once under review", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()

		_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
			&usecase.TransitionInput{To: types.StatusCCROReview})
		gt.NoError(t, err).Required()

		_, err = uc.Acceptance.UpdateContent(ctx, proposer, created.ID, newUpdateInput(created))
		gt.Error(t, err).Is(model.ErrConflict)
	})

	t.Run("editing missing acceptance returns not found", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.Acceptance.UpdateContent(ctx, proposer, types.NewAcceptanceID(),
			&usecase.UpdateContentInput{Title: "x"})
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}

func TestAcceptanceUseCase_Query(t *testing.T) {
	t.Run("list filters by status", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()
		_, err = uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()

		_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
			&usecase.TransitionInput{To: types.StatusCCROReview})
		gt.NoError(t, err).Required()

		proposed := types.StatusProposed
		listed, err := uc.Acceptance.List(ctx, proposer, &usecase.ListInput{Status: &proposed})
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(1)

		review := types.StatusCCROReview
		listed, err = uc.Acceptance.List(ctx, proposer, &usecase.ListInput{Status: &review})
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(1)
		gt.Value(t, listed[0].ID).Equal(created.ID)
	})

	t.Run("list rejects invalid filters", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		bad := types.AcceptanceStatus("NOPE")
		_, err := uc.Acceptance.List(ctx, proposer, &usecase.ListInput{Status: &bad})
		gt.Error(t, err).Is(model.ErrValidation)
	})

	t.Run("detail projects dangling links as nil", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		input := newCreateInput()
		input.RiskID = "risk-gone"
		created, err := uc.Acceptance.Create(ctx, proposer, input)
		gt.NoError(t, err).Required()

		detail, err := uc.Acceptance.GetDetail(ctx, proposer, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, detail.Risk).Nil()
		gt.Value(t, detail.Acceptance.RiskID).Equal(types.RiskID("risk-gone"))
	})

	t.Run("detail includes linked collaborator records", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		_, err := repo.Risk().Put(ctx, &model.Risk{ID: "risk-001", Title: "Unpatched gateway"})
		gt.NoError(t, err).Required()

		input := newCreateInput()
		input.RiskID = "risk-001"
		created, err := uc.Acceptance.Create(ctx, proposer, input)
		gt.NoError(t, err).Required()

		detail, err := uc.Acceptance.GetDetail(ctx, proposer, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, detail.Risk).NotNil()
		gt.Value(t, detail.Risk.Title).Equal("Unpatched gateway")
	})

	t.Run("view requires a permitted role", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()

		_, err = uc.Acceptance.GetDetail(ctx, outsider, created.ID)
		gt.Error(t, err).Is(model.ErrForbidden)
	})
}

func TestAcceptanceUseCase_AddComment(t *testing.T) {
	t.Run("participants may comment in any status", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()

		comment, err := uc.Acceptance.AddComment(ctx, proposer, created.ID, "initial context")
		gt.NoError(t, err).Required()
		gt.Value(t, comment.UserID).Equal(proposer.ID)

		_, err = uc.Acceptance.AddComment(ctx, reviewer, created.ID, "needs tighter scope")
		gt.NoError(t, err)

		// Terminal status still accepts comments.
		_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
			&usecase.TransitionInput{To: types.StatusCCROReview})
		gt.NoError(t, err).Required()
		_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
			&usecase.TransitionInput{To: types.StatusRejected, ReviewNote: "not acceptable"})
		gt.NoError(t, err).Required()

		_, err = uc.Acceptance.AddComment(ctx, proposer, created.ID, "post-mortem note")
		gt.NoError(t, err)
	})

	t.Run("empty comment body is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()

		_, err = uc.Acceptance.AddComment(ctx, proposer, created.ID, "")
		gt.Error(t, err).Is(model.ErrValidation)
	})

	t.Run("non-participant staff may not comment", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()

		bystander := &auth.Actor{ID: "user-bystander", Role: types.RoleStaff}
		_, err = uc.Acceptance.AddComment(ctx, bystander, created.ID, "drive-by")
		gt.Error(t, err).Is(model.ErrForbidden)
	})
}

// errNotify is a Notifier stub that records calls and can fail on demand.
type errNotify struct {
	mu    sync.Mutex
	calls []types.UserID
	err   error
}

func newErrNotify(err error) *errNotify {
	return &errNotify{err: err}
}

func (n *errNotify) Notify(ctx context.Context, userID types.UserID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, userID)
	return n.err
}

func TestAcceptanceUseCase_Notifications(t *testing.T) {
	t.Run("notification failure never fails the transition", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithNotifier(newErrNotify(errors.New("slack down"))))
		ctx := context.Background()

		created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
		gt.NoError(t, err).Required()

		updated, err := uc.Acceptance.Transition(ctx, reviewer, created.ID,
			&usecase.TransitionInput{To: types.StatusCCROReview})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.StatusCCROReview)

		// Async dispatch; give the goroutine a moment.
		time.Sleep(50 * time.Millisecond)
	})
}
