package handlers

import (
	"net/http"
	"strings"

	"bountyhub/internal/app"
	"bountyhub/internal/common"
	"bountyhub/internal/http/middleware"
	"bountyhub/internal/http/response"
)

type WorkflowHandler struct {
	workflow *app.WorkflowService
	limiter  middleware.Limiter
}

func NewWorkflowHandler(workflow *app.WorkflowService, limiter middleware.Limiter) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow, limiter: limiter}
}

type selectRequest struct {
	UserID string `json:"user_id"`
}

type submitAnswerRequest struct {
	Body   string   `json:"body"`
	Images []string `json:"images"`
}

type acceptRequest struct {
	AnswerID string `json:"answer_id"`
}

func (h *WorkflowHandler) Volunteer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	questionID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil && !h.limiter.Allow(middleware.PolicyVolunteer, questionID.String()+":"+userID.String()) {
		response.Error(w, common.NewError(common.CodeRateLimited, "volunteer rate limit exceeded", nil))
		return
	}
	created, err := h.workflow.Volunteer(r.Context(), questionID, userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *WorkflowHandler) Select(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	questionID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"user_id": "user_id is required"}))
		return
	}
	targetID, err := common.ParseUUID(req.UserID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"user_id": "invalid uuid"}))
		return
	}
	updated, err := h.workflow.SelectVolunteer(r.Context(), questionID, authorID, targetID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *WorkflowHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	questionID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req submitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil && !h.limiter.Allow(middleware.PolicyAnswer, questionID.String()+":"+userID.String()) {
		response.Error(w, common.NewError(common.CodeRateLimited, "answer rate limit exceeded", nil))
		return
	}
	created, err := h.workflow.SubmitAnswer(r.Context(), questionID, userID, req.Body, req.Images)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *WorkflowHandler) Accept(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	questionID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req acceptRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.AnswerID) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"answer_id": "answer_id is required"}))
		return
	}
	answerID, err := common.ParseUUID(req.AnswerID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"answer_id": "invalid uuid"}))
		return
	}
	accepted, err := h.workflow.AcceptAnswer(r.Context(), questionID, authorID, answerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, accepted)
}
