package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/auth"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"github.com/secmon-lab/riskaccept/pkg/usecase"
	"github.com/secmon-lab/riskaccept/pkg/utils/errutil"
)

// statusCodeFor maps the domain error taxonomy onto HTTP status codes
func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

type acceptanceResponse struct {
	ID                    string     `json:"id"`
	Reference             string     `json:"reference"`
	Source                string     `json:"source"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	ProposedRationale     string     `json:"proposed_rationale"`
	ProposedConditions    string     `json:"proposed_conditions,omitempty"`
	RiskID                string     `json:"risk_id,omitempty"`
	LinkedControlID       string     `json:"linked_control_id,omitempty"`
	ConsumerDutyOutcomeID string     `json:"consumer_duty_outcome_id,omitempty"`
	LinkedActionIDs       []string   `json:"linked_action_ids,omitempty"`
	Status                string     `json:"status"`
	ProposerID            string     `json:"proposer_id"`
	ApproverID            string     `json:"approver_id,omitempty"`
	ReviewDate            *time.Time `json:"review_date,omitempty"`
	ReviewNote            string     `json:"review_note,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func toAcceptanceResponse(a *model.RiskAcceptance) *acceptanceResponse {
	actionIDs := make([]string, len(a.LinkedActionIDs))
	for i, id := range a.LinkedActionIDs {
		actionIDs[i] = string(id)
	}

	return &acceptanceResponse{
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
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
}

type historyResponse struct {
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	Details    string    `json:"details,omitempty"`
	Seq        int64     `json:"seq"`
	CreatedAt  time.Time `json:"created_at"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type createAcceptanceRequest struct {
	Source                string     `json:"source"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	ProposedRationale     string     `json:"proposed_rationale"`
	ProposedConditions    string     `json:"proposed_conditions"`
	RiskID                string     `json:"risk_id"`
	LinkedControlID       string     `json:"linked_control_id"`
	ConsumerDutyOutcomeID string     `json:"consumer_duty_outcome_id"`
	LinkedActionIDs       []string   `json:"linked_action_ids"`
	ApproverID            string     `json:"approver_id"`
	ReviewDate            *time.Time `json:"review_date"`
}

func (s *Server) handleCreateAcceptance(w http.ResponseWriter, r *http.Request) {
	var req createAcceptanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode request"), http.StatusBadRequest)
		return
	}

	actionIDs := make([]types.ActionID, len(req.LinkedActionIDs))
	for i, id := range req.LinkedActionIDs {
		actionIDs[i] = types.ActionID(id)
	}

	created, err := s.uc.Acceptance.Create(r.Context(), auth.ActorFromContext(r.Context()), &usecase.CreateAcceptanceInput{
		Source:                types.AcceptanceSource(req.Source),
		Title:                 req.Title,
		Description:           req.Description,
		ProposedRationale:     req.ProposedRationale,
		ProposedConditions:    req.ProposedConditions,
		RiskID:                types.RiskID(req.RiskID),
		LinkedControlID:       types.ControlID(req.LinkedControlID),
		ConsumerDutyOutcomeID: types.OutcomeID(req.ConsumerDutyOutcomeID),
		LinkedActionIDs:       actionIDs,
		ApproverID:            types.UserID(req.ApproverID),
		ReviewDate:            req.ReviewDate,
	})
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusCodeFor(err))
		return
	}

	respondJSON(w, r, http.StatusCreated, toAcceptanceResponse(created))
}

func (s *Server) handleListAcceptances(w http.ResponseWriter, r *http.Request) {
	input := &usecase.ListInput{}
	if v := r.URL.Query().Get("status"); v != "" {
		status := types.AcceptanceStatus(v)
		input.Status = &status
	}
	if v := r.URL.Query().Get("source"); v != "" {
		source := types.AcceptanceSource(v)
		input.Source = &source
	}

	acceptances, err := s.uc.Acceptance.List(r.Context(), auth.ActorFromContext(r.Context()), input)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusCodeFor(err))
		return
	}

	items := make([]*acceptanceResponse, len(acceptances))
	for i, a := range acceptances {
		items[i] = toAcceptanceResponse(a)
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"acceptances": items})
}

func (s *Server) handleGetAcceptance(w http.ResponseWriter, r *http.Request) {
	id := types.AcceptanceID(chi.URLParam(r, "acceptanceID"))

	detail, err := s.uc.Acceptance.GetDetail(r.Context(), auth.ActorFromContext(r.Context()), id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusCodeFor(err))
		return
	}

	resp := map[string]any{
		"acceptance": toAcceptanceResponse(detail.Acceptance),
	}
	if detail.Risk != nil {
		resp["risk"] = map[string]any{
			"id":    string(detail.Risk.ID),
			"title": detail.Risk.Title,
		}
	}
	if detail.Control != nil {
		resp["control"] = map[string]any{
			"id":   string(detail.Control.ID),
			"name": detail.Control.Name,
		}
	}
	if detail.Outcome != nil {
		resp["consumer_duty_outcome"] = map[string]any{
			"id":   string(detail.Outcome.ID),
			"name": detail.Outcome.Name,
		}
	}

	comments := make([]*commentResponse, len(detail.Comments))
	for i, c := range detail.Comments {
		comments[i] = &commentResponse{
			ID:        c.ID.String(),
			UserID:    c.UserID.String(),
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
		}
	}
	resp["comments"] = comments

	history := make([]*historyResponse, len(detail.History))
	for i, h := range detail.History {
		history[i] = &historyResponse{
			UserID:     h.UserID.String(),
			Action:     h.Action.String(),
			FromStatus: h.FromStatus.String(),
			ToStatus:   h.ToStatus.String(),
			Details:    h.Details,
			Seq:        h.Seq,
			CreatedAt:  h.CreatedAt,
		}
	}
	resp["history"] = history

	respondJSON(w, r, http.StatusOK, resp)
}

type updateContentRequest struct {
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	ProposedRationale     string     `json:"proposed_rationale"`
	ProposedConditions    string     `json:"proposed_conditions"`
	RiskID                string     `json:"risk_id"`
	LinkedControlID       string     `json:"linked_control_id"`
	ConsumerDutyOutcomeID string     `json:"consumer_duty_outcome_id"`
	LinkedActionIDs       []string   `json:"linked_action_ids"`
	ApproverID            string     `json:"approver_id"`
	ReviewDate            *time.Time `json:"review_date"`
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	id := types.AcceptanceID(chi.URLParam(r, "acceptanceID"))

	var req updateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode request"), http.StatusBadRequest)
		return
	}

	actionIDs := make([]types.ActionID, len(req.LinkedActionIDs))
	for i, actionID := range req.LinkedActionIDs {
		actionIDs[i] = types.ActionID(actionID)
	}

	updated, err := s.uc.Acceptance.UpdateContent(r.Context(), auth.ActorFromContext(r.Context()), id, &usecase.UpdateContentInput{
		Title:                 req.Title,
		Description:           req.Description,
		ProposedRationale:     req.ProposedRationale,
		ProposedConditions:    req.ProposedConditions,
		RiskID:                types.RiskID(req.RiskID),
		LinkedControlID:       types.ControlID(req.LinkedControlID),
		ConsumerDutyOutcomeID: types.OutcomeID(req.ConsumerDutyOutcomeID),
		LinkedActionIDs:       actionIDs,
		ApproverID:            types.UserID(req.ApproverID),
		ReviewDate:            req.ReviewDate,
	})
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusCodeFor(err))
		return
	}

	respondJSON(w, r, http.StatusOK, toAcceptanceResponse(updated))
}

type transitionRequest struct {
	To         string `json:"to"`
	ReviewNote string `json:"review_note"`
	ApproverID string `json:"approver_id"`
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	id := types.AcceptanceID(chi.URLParam(r, "acceptanceID"))

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode request"), http.StatusBadRequest)
		return
	}

	updated, err := s.uc.Acceptance.Transition(r.Context(), auth.ActorFromContext(r.Context()), id, &usecase.TransitionInput{
		To:         types.AcceptanceStatus(req.To),
		ReviewNote: req.ReviewNote,
		ApproverID: types.UserID(req.ApproverID),
	})
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusCodeFor(err))
		return
	}

	respondJSON(w, r, http.StatusOK, toAcceptanceResponse(updated))
}

type addCommentRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	id := types.AcceptanceID(chi.URLParam(r, "acceptanceID"))

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode request"), http.StatusBadRequest)
		return
	}

	created, err := s.uc.Acceptance.AddComment(r.Context(), auth.ActorFromContext(r.Context()), id, req.Body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusCodeFor(err))
		return
	}

	respondJSON(w, r, http.StatusCreated, &commentResponse{
		ID:        created.ID.String(),
		UserID:    created.UserID.String(),
		Body:      created.Body,
		CreatedAt: created.CreatedAt,
	})
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil || actor.Role != types.RoleAdmin {
		errutil.HandleHTTP(r.Context(), w,
			goerr.Wrap(model.ErrForbidden, "sweep requires admin role"), http.StatusForbidden)
		return
	}

	result, err := s.uc.Acceptance.Sweep(r.Context(), time.Now().UTC())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusCodeFor(err))
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]int{
		"scanned": result.Scanned,
		"expired": result.Expired,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	})
}
