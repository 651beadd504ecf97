package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"github.com/secmon-lab/riskaccept/pkg/repository/memory"
	"github.com/secmon-lab/riskaccept/pkg/usecase"
)

// Full workflow walks through the lens of the audit ledger.

func TestScenario_RejectPath(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
	gt.NoError(t, err).Required()
	gt.Value(t, created.Reference).Equal("RA-001")

	_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
		&usecase.TransitionInput{To: types.StatusCCROReview})
	gt.NoError(t, err).Required()

	_, err = uc.Acceptance.AddComment(ctx, reviewer, created.ID, "residual likelihood looks understated")
	gt.NoError(t, err).Required()

	rejected, err := uc.Acceptance.Transition(ctx, reviewer, created.ID,
		&usecase.TransitionInput{To: types.StatusRejected, ReviewNote: "risk exceeds appetite"})
	gt.NoError(t, err).Required()
	gt.Value(t, rejected.Status).Equal(types.StatusRejected)

	detail, err := uc.Acceptance.GetDetail(ctx, proposer, created.ID)
	gt.NoError(t, err).Required()

	// CREATED, SUBMITTED_FOR_REVIEW, REJECTED.
	gt.Array(t, detail.History).Length(3)
	gt.Value(t, detail.History[0].Action).Equal(types.ActionCreated)
	gt.Value(t, detail.History[1].Action).Equal(types.ActionSubmittedForReview)
	gt.Value(t, detail.History[2].Action).Equal(types.ActionRejected)
	gt.Value(t, detail.History[2].Details).Equal("risk exceeds appetite")

	for i, row := range detail.History {
		gt.Value(t, row.Seq).Equal(int64(i + 1))
	}

	gt.Array(t, detail.Comments).Length(1)
}

func TestScenario_ApproverRejectPath(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
	gt.NoError(t, err).Required()
	gt.Value(t, created.Reference).Equal("RA-001")

	_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
		&usecase.TransitionInput{To: types.StatusCCROReview})
	gt.NoError(t, err).Required()

	forwarded, err := uc.Acceptance.Transition(ctx, reviewer, created.ID,
		&usecase.TransitionInput{To: types.StatusAwaitingApproval})
	gt.NoError(t, err).Required()
	gt.Value(t, forwarded.ApproverID).Equal(approver.ID)

	rejected, err := uc.Acceptance.Transition(ctx, approver, created.ID,
		&usecase.TransitionInput{To: types.StatusRejected, ReviewNote: "residual risk exceeds group appetite"})
	gt.NoError(t, err).Required()
	gt.Value(t, rejected.Status).Equal(types.StatusRejected)

	detail, err := uc.Acceptance.GetDetail(ctx, proposer, created.ID)
	gt.NoError(t, err).Required()

	// CREATED, SUBMITTED_FOR_REVIEW, FORWARDED_FOR_APPROVAL, REJECTED.
	gt.Array(t, detail.History).Length(4)
	gt.Value(t, detail.History[0].Action).Equal(types.ActionCreated)
	gt.Value(t, detail.History[1].Action).Equal(types.ActionSubmittedForReview)
	gt.Value(t, detail.History[2].Action).Equal(types.ActionForwardedForApproval)
	gt.Value(t, detail.History[3].Action).Equal(types.ActionRejected)
	gt.Value(t, detail.History[3].UserID).Equal(approver.ID)
	gt.Value(t, detail.History[3].FromStatus).Equal(types.StatusAwaitingApproval)
	gt.Value(t, detail.History[3].Details).Equal("residual risk exceeds group appetite")

	for i, row := range detail.History {
		gt.Value(t, row.Seq).Equal(int64(i + 1))
	}
}

func TestScenario_ApproverReturnPath(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
	gt.NoError(t, err).Required()

	_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
		&usecase.TransitionInput{To: types.StatusCCROReview})
	gt.NoError(t, err).Required()
	_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
		&usecase.TransitionInput{To: types.StatusAwaitingApproval})
	gt.NoError(t, err).Required()

	returned, err := uc.Acceptance.Transition(ctx, approver, created.ID,
		&usecase.TransitionInput{To: types.StatusReturned, ReviewNote: "conditions need a named owner"})
	gt.NoError(t, err).Required()
	gt.Value(t, returned.Status).Equal(types.StatusReturned)
	gt.Value(t, returned.ReviewNote).Equal("conditions need a named owner")

	_, err = uc.Acceptance.UpdateContent(ctx, proposer, created.ID, &usecase.UpdateContentInput{
		Title:              created.Title,
		Description:        created.Description,
		ProposedRationale:  created.ProposedRationale,
		ProposedConditions: "control owner assigned to the platform lead",
		ApproverID:         created.ApproverID,
	})
	gt.NoError(t, err).Required()

	resubmitted, err := uc.Acceptance.Transition(ctx, proposer, created.ID,
		&usecase.TransitionInput{To: types.StatusProposed})
	gt.NoError(t, err).Required()
	gt.Value(t, resubmitted.Status).Equal(types.StatusProposed)

	detail, err := uc.Acceptance.GetDetail(ctx, proposer, created.ID)
	gt.NoError(t, err).Required()

	// CREATED, SUBMITTED_FOR_REVIEW, FORWARDED_FOR_APPROVAL, RETURNED,
	// RESUBMITTED.
	gt.Array(t, detail.History).Length(5)
	gt.Value(t, detail.History[3].Action).Equal(types.ActionReturned)
	gt.Value(t, detail.History[3].UserID).Equal(approver.ID)
	gt.Value(t, detail.History[3].FromStatus).Equal(types.StatusAwaitingApproval)
	gt.Value(t, detail.History[4].Action).Equal(types.ActionResubmitted)
}

func TestScenario_ApproveAndExpire(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()
	now := time.Now().UTC()

	reviewDate := now.Add(-time.Minute)
	input := newCreateInput()
	input.ReviewDate = &reviewDate
	created, err := uc.Acceptance.Create(ctx, proposer, input)
	gt.NoError(t, err).Required()

	_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
		&usecase.TransitionInput{To: types.StatusCCROReview})
	gt.NoError(t, err).Required()
	_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
		&usecase.TransitionInput{To: types.StatusAwaitingApproval})
	gt.NoError(t, err).Required()
	approved, err := uc.Acceptance.Transition(ctx, approver, created.ID,
		&usecase.TransitionInput{To: types.StatusApproved, ReviewNote: "conditions accepted"})
	gt.NoError(t, err).Required()
	gt.Value(t, approved.Status).Equal(types.StatusApproved)

	result, err := uc.Acceptance.Sweep(ctx, now)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Expired).Equal(1)

	detail, err := uc.Acceptance.GetDetail(ctx, proposer, created.ID)
	gt.NoError(t, err).Required()

	// CREATED, SUBMITTED_FOR_REVIEW, FORWARDED_FOR_APPROVAL, APPROVED,
	// EXPIRED.
	gt.Array(t, detail.History).Length(5)
	gt.Value(t, detail.History[3].Action).Equal(types.ActionApproved)
	gt.Value(t, detail.History[3].UserID).Equal(approver.ID)
	gt.Value(t, detail.History[4].Action).Equal(types.ActionExpired)
	gt.Value(t, detail.History[4].UserID).Equal(types.SystemUserID)
	gt.Value(t, detail.History[4].FromStatus).Equal(types.StatusApproved)
	gt.Value(t, detail.History[4].ToStatus).Equal(types.StatusExpired)
}

func TestScenario_ReturnReworkResubmit(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	created, err := uc.Acceptance.Create(ctx, proposer, newCreateInput())
	gt.NoError(t, err).Required()

	_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
		&usecase.TransitionInput{To: types.StatusCCROReview})
	gt.NoError(t, err).Required()
	returned, err := uc.Acceptance.Transition(ctx, reviewer, created.ID,
		&usecase.TransitionInput{To: types.StatusReturned, ReviewNote: "add compensating controls"})
	gt.NoError(t, err).Required()
	gt.Value(t, returned.ReviewNote).Equal("add compensating controls")

	_, err = uc.Acceptance.UpdateContent(ctx, proposer, created.ID, &usecase.UpdateContentInput{
		Title:              created.Title,
		Description:        created.Description,
		ProposedRationale:  created.ProposedRationale,
		ProposedConditions: "quarterly control attestation added",
		ApproverID:         created.ApproverID,
	})
	gt.NoError(t, err).Required()

	resubmitted, err := uc.Acceptance.Transition(ctx, proposer, created.ID,
		&usecase.TransitionInput{To: types.StatusProposed})
	gt.NoError(t, err).Required()
	gt.Value(t, resubmitted.Status).Equal(types.StatusProposed)
	gt.Value(t, resubmitted.ReviewNote).Equal("")

	// Second cycle through to approval.
	_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
		&usecase.TransitionInput{To: types.StatusCCROReview})
	gt.NoError(t, err).Required()
	_, err = uc.Acceptance.Transition(ctx, reviewer, created.ID,
		&usecase.TransitionInput{To: types.StatusAwaitingApproval})
	gt.NoError(t, err).Required()
	approved, err := uc.Acceptance.Transition(ctx, approver, created.ID,
		&usecase.TransitionInput{To: types.StatusApproved})
	gt.NoError(t, err).Required()
	gt.Value(t, approved.Status).Equal(types.StatusApproved)

	detail, err := uc.Acceptance.GetDetail(ctx, proposer, created.ID)
	gt.NoError(t, err).Required()

	// The first cycle's RETURNED row stays in the ledger with its note even
	// though the live field was cleared on resubmission.
	gt.Array(t, detail.History).Length(7)
	gt.Value(t, detail.History[2].Action).Equal(types.ActionReturned)
	gt.Value(t, detail.History[2].Details).Equal("add compensating controls")
	gt.Value(t, detail.History[3].Action).Equal(types.ActionResubmitted)
	gt.Value(t, detail.History[6].Action).Equal(types.ActionApproved)
}
