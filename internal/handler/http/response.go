package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/ReviewDeskGo/internal/service"
	"github.com/utafrali/ReviewDeskGo/pkg/middleware"
	"github.com/utafrali/ReviewDeskGo/pkg/validator"
)

// ResponseHandler handles HTTP requests for review response endpoints.
type ResponseHandler struct {
	service *service.ResponseService
	logger  *slog.Logger
}

// NewResponseHandler creates a new response HTTP handler.
func NewResponseHandler(svc *service.ResponseService, logger *slog.Logger) *ResponseHandler {
	return &ResponseHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateResponseRequest is the JSON request body for saving a response draft.
type CreateResponseRequest struct {
	Content       string `json:"content" validate:"required"`
	Tone          string `json:"tone" validate:"omitempty,oneof=PROFESSIONAL FRIENDLY APOLOGETIC GRATEFUL"`
	IsAIGenerated bool   `json:"is_ai_generated"`
	Model         string `json:"model" validate:"max=100"`
}

// UpdateResponseRequest is the JSON request body for editing a response draft.
type UpdateResponseRequest struct {
	Content *string `json:"content" validate:"omitempty,min=1"`
	Tone    *string `json:"tone" validate:"omitempty,oneof=PROFESSIONAL FRIENDLY APOLOGETIC GRATEFUL"`
}

// GenerateDraftRequest is the JSON request body for drafting a response with AI.
type GenerateDraftRequest struct {
	Tone               string `json:"tone" validate:"omitempty,oneof=PROFESSIONAL FRIENDLY APOLOGETIC GRATEFUL"`
	CustomInstructions string `json:"custom_instructions" validate:"omitempty,max=1000"`
	Premium            bool   `json:"premium"`
}

// --- Handlers ---

// CreateResponse handles POST /api/v1/reviews/{id}/responses
func (h *ResponseHandler) CreateResponse(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")
	if reviewID == "" {
		writeBadRequest(w, "review id is required")
		return
	}

	var req CreateResponseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := &service.CreateResponseInput{
		ReviewID:      reviewID,
		UserID:        middleware.UserIDFromContext(r.Context()),
		Content:       req.Content,
		Tone:          req.Tone,
		IsAIGenerated: req.IsAIGenerated,
		Model:         req.Model,
	}

	resp, err := h.service.CreateResponse(r.Context(), input)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: resp})
}

// GenerateDraft handles POST /api/v1/reviews/{id}/responses/generate
func (h *ResponseHandler) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")
	if reviewID == "" {
		writeBadRequest(w, "review id is required")
		return
	}

	var req GenerateDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	draft, err := h.service.GenerateDraft(r.Context(), &service.GenerateDraftInput{
		ReviewID:           reviewID,
		Tone:               req.Tone,
		CustomInstructions: req.CustomInstructions,
		Premium:            req.Premium,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: draft})
}

// ListResponses handles GET /api/v1/reviews/{id}/responses
func (h *ResponseHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")
	if reviewID == "" {
		writeBadRequest(w, "review id is required")
		return
	}

	responses, err := h.service.ListByReview(r.Context(), reviewID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: responses})
}

// UpdateResponse handles PUT /api/v1/responses/{id}
func (h *ResponseHandler) UpdateResponse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "response id is required")
		return
	}

	var req UpdateResponseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	resp, err := h.service.UpdateResponse(r.Context(), id, &service.UpdateResponseInput{
		Content: req.Content,
		Tone:    req.Tone,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: resp})
}

// MarkPosted handles POST /api/v1/responses/{id}/post
func (h *ResponseHandler) MarkPosted(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "response id is required")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	resp, err := h.service.MarkPosted(r.Context(), id, userID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: resp})
}

// DeleteResponse handles DELETE /api/v1/responses/{id}
func (h *ResponseHandler) DeleteResponse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "response id is required")
		return
	}

	if err := h.service.DeleteResponse(r.Context(), id); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
