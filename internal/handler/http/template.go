package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/ReviewDeskGo/internal/repository"
	"github.com/utafrali/ReviewDeskGo/internal/service"
	"github.com/utafrali/ReviewDeskGo/pkg/validator"
)

// TemplateHandler handles HTTP requests for response template endpoints.
type TemplateHandler struct {
	service *service.TemplateService
	logger  *slog.Logger
}

// NewTemplateHandler creates a new template HTTP handler.
func NewTemplateHandler(svc *service.TemplateService, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateTemplateRequest is the JSON request body for creating a template.
type CreateTemplateRequest struct {
	Title     string   `json:"title" validate:"required,min=1,max=255"`
	Content   string   `json:"content" validate:"required"`
	Tone      string   `json:"tone" validate:"omitempty,oneof=PROFESSIONAL FRIENDLY APOLOGETIC GRATEFUL"`
	Category  string   `json:"category" validate:"max=100"`
	Variables []string `json:"variables"`
	IsActive  *bool    `json:"is_active"`
}

// UpdateTemplateRequest is the JSON request body for updating a template.
type UpdateTemplateRequest struct {
	Title     *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Content   *string  `json:"content" validate:"omitempty,min=1"`
	Tone      *string  `json:"tone" validate:"omitempty,oneof=PROFESSIONAL FRIENDLY APOLOGETIC GRATEFUL"`
	Category  *string  `json:"category" validate:"omitempty,max=100"`
	Variables []string `json:"variables"`
	IsActive  *bool    `json:"is_active"`
}

// RenderTemplateRequest is the JSON request body for rendering a template
// against a review.
type RenderTemplateRequest struct {
	ReviewID string `json:"review_id" validate:"required"`
}

// --- Handlers ---

// CreateTemplate handles POST /api/v1/templates
func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	template, err := h.service.CreateTemplate(r.Context(), &service.CreateTemplateInput{
		Title:     req.Title,
		Content:   req.Content,
		Tone:      req.Tone,
		Category:  req.Category,
		Variables: req.Variables,
		IsActive:  req.IsActive,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: template})
}

// ListTemplates handles GET /api/v1/templates
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter repository.TemplateFilter
	if v := q.Get("category"); v != "" {
		filter.Category = &v
	}
	if v := q.Get("tone"); v != "" {
		filter.Tone = &v
	}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			writeBadRequest(w, "active must be true or false")
			return
		}
		filter.Active = &active
	}

	templates, err := h.service.ListTemplates(r.Context(), filter)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: templates})
}

// GetTemplate handles GET /api/v1/templates/{id}
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "template id is required")
		return
	}

	template, err := h.service.GetTemplate(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: template})
}

// UpdateTemplate handles PUT /api/v1/templates/{id}
func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "template id is required")
		return
	}

	var req UpdateTemplateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	template, err := h.service.UpdateTemplate(r.Context(), id, &service.UpdateTemplateInput{
		Title:     req.Title,
		Content:   req.Content,
		Tone:      req.Tone,
		Category:  req.Category,
		Variables: req.Variables,
		IsActive:  req.IsActive,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: template})
}

// DeleteTemplate handles DELETE /api/v1/templates/{id}
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "template id is required")
		return
	}

	if err := h.service.DeleteTemplate(r.Context(), id); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// RenderTemplate handles POST /api/v1/templates/{id}/render
func (h *TemplateHandler) RenderTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "template id is required")
		return
	}

	var req RenderTemplateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	rendered, err := h.service.RenderTemplate(r.Context(), id, req.ReviewID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: rendered})
}
