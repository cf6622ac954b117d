package handlers

import (
	"net/http"
	"strconv"

	"bountyhub/internal/app"
	"bountyhub/internal/domain/question"
	"bountyhub/internal/http/middleware"
	"bountyhub/internal/http/response"
)

type QuestionHandler struct {
	questions *app.QuestionService
}

func NewQuestionHandler(questions *app.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

type createQuestionRequest struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	Category     string `json:"category"`
	BountyAmount int    `json:"bounty_amount"`
}

// editQuestionRequest uses pointer fields so an omitted key is distinguishable
// from an explicitly cleared one.
type editQuestionRequest struct {
	Title        *string `json:"title"`
	Body         *string `json:"body"`
	Category     *string `json:"category"`
	BountyAmount *int    `json:"bounty_amount"`
}

func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req createQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.questions.Create(r.Context(), question.Question{
		AuthorID:     userID,
		Title:        req.Title,
		Body:         req.Body,
		Category:     req.Category,
		BountyAmount: req.BountyAmount,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

// maxListLimit caps the page size a client can ask for.
const maxListLimit = 100

func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0
	if value := r.URL.Query().Get("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if value := r.URL.Query().Get("offset"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	items, err := h.questions.List(r.Context(), limit, offset, r.URL.Query().Get("category"))
	if err != nil {
		response.Error(w, err)
		return
	}
	if items == nil {
		items = []question.Question{}
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	questionID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	detail, err := h.questions.GetDetail(r.Context(), questionID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, detail)
}

func (h *QuestionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	questionID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req editQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.questions.Edit(r.Context(), questionID, userID, question.Update{
		Title:        req.Title,
		Body:         req.Body,
		Category:     req.Category,
		BountyAmount: req.BountyAmount,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	questionID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.questions.Delete(r.Context(), questionID, userID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
