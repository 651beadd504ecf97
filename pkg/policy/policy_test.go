package policy_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/auth"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/config"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"github.com/secmon-lab/riskaccept/pkg/policy"
)

func TestPolicy_CanPropose(t *testing.T) {
	p := policy.New(nil)

	gt.Bool(t, p.CanPropose(&auth.Actor{ID: "U1", Role: types.RoleStaff})).True()
	gt.Bool(t, p.CanPropose(&auth.Actor{ID: "U2", Role: types.RoleCCRO})).True()
	gt.Bool(t, p.CanPropose(&auth.Actor{ID: "U3", Role: types.RoleAdmin})).True()
	gt.Bool(t, p.CanPropose(auth.SystemActor())).False()
	gt.Bool(t, p.CanPropose(nil)).False()
}

func TestPolicy_CanTransition(t *testing.T) {
	p := policy.New(nil)
	acceptance := &model.RiskAcceptance{
		ID:         "a1",
		ProposerID: "U1",
		ApproverID: "U9",
	}

	staff := &auth.Actor{ID: "U1", Role: types.RoleStaff}
	ccro := &auth.Actor{ID: "U5", Role: types.RoleCCRO}
	approver := &auth.Actor{ID: "U9", Role: types.RoleStaff}
	system := auth.SystemActor()

	t.Run("reviewer edges require review capability", func(t *testing.T) {
		gt.Bool(t, p.CanTransition(ccro, acceptance, types.StatusProposed, types.StatusCCROReview)).True()
		gt.Bool(t, p.CanTransition(staff, acceptance, types.StatusProposed, types.StatusCCROReview)).False()
		gt.Bool(t, p.CanTransition(ccro, acceptance, types.StatusCCROReview, types.StatusAwaitingApproval)).True()
		gt.Bool(t, p.CanTransition(ccro, acceptance, types.StatusCCROReview, types.StatusRejected)).True()
	})

	t.Run("approver edges require exact identity", func(t *testing.T) {
		gt.Bool(t, p.CanTransition(approver, acceptance, types.StatusAwaitingApproval, types.StatusApproved)).True()
		gt.Bool(t, p.CanTransition(ccro, acceptance, types.StatusAwaitingApproval, types.StatusApproved)).False()
		gt.Bool(t, p.CanTransition(staff, acceptance, types.StatusAwaitingApproval, types.StatusApproved)).False()

		unassigned := &model.RiskAcceptance{ID: "a2", ProposerID: "U1"}
		gt.Bool(t, p.CanTransition(approver, unassigned, types.StatusAwaitingApproval, types.StatusApproved)).False()
	})

	t.Run("resubmission requires the proposer", func(t *testing.T) {
		gt.Bool(t, p.CanTransition(staff, acceptance, types.StatusReturned, types.StatusProposed)).True()
		gt.Bool(t, p.CanTransition(ccro, acceptance, types.StatusReturned, types.StatusProposed)).False()
	})

	t.Run("expiry is system only", func(t *testing.T) {
		gt.Bool(t, p.CanTransition(system, acceptance, types.StatusApproved, types.StatusExpired)).True()
		gt.Bool(t, p.CanTransition(ccro, acceptance, types.StatusApproved, types.StatusExpired)).False()
		gt.Bool(t, p.CanTransition(approver, acceptance, types.StatusApproved, types.StatusExpired)).False()
	})

	t.Run("illegal edges are never permitted", func(t *testing.T) {
		gt.Bool(t, p.CanTransition(ccro, acceptance, types.StatusProposed, types.StatusApproved)).False()
		gt.Bool(t, p.CanTransition(system, acceptance, types.StatusRejected, types.StatusProposed)).False()
	})
}

func TestPolicy_CanViewAndComment(t *testing.T) {
	p := policy.New(nil)
	acceptance := &model.RiskAcceptance{
		ID:         "a1",
		ProposerID: "U1",
		ApproverID: "U9",
	}

	proposer := &auth.Actor{ID: "U1", Role: types.RoleStaff}
	bystander := &auth.Actor{ID: "U7", Role: types.RoleStaff}
	approver := &auth.Actor{ID: "U9", Role: types.RoleStaff}
	ccro := &auth.Actor{ID: "U5", Role: types.RoleCCRO}

	// No acceptance-level privacy for reads
	gt.Bool(t, p.CanView(proposer, acceptance)).True()
	gt.Bool(t, p.CanView(bystander, acceptance)).True()
	gt.Bool(t, p.CanView(nil, acceptance)).False()

	// Writes are restricted to proposer, approver and reviewer roles
	gt.Bool(t, p.CanComment(proposer, acceptance)).True()
	gt.Bool(t, p.CanComment(approver, acceptance)).True()
	gt.Bool(t, p.CanComment(ccro, acceptance)).True()
	gt.Bool(t, p.CanComment(bystander, acceptance)).False()
}

func TestPolicy_CustomPermissionTable(t *testing.T) {
	cfg := &config.WorkflowConfig{
		ReferencePrefix: "RA",
		Permissions: []config.RolePermission{
			{Role: types.RoleStaff, Capabilities: []config.Capability{config.CapabilityView}},
		},
	}
	p := policy.New(cfg)

	staff := &auth.Actor{ID: "U1", Role: types.RoleStaff}
	gt.Bool(t, p.CanPropose(staff)).False()
	gt.Bool(t, p.CanView(staff, &model.RiskAcceptance{ID: "a1"})).True()
}
