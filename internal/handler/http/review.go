package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/ReviewDeskGo/internal/domain"
	"github.com/utafrali/ReviewDeskGo/internal/service"
	"github.com/utafrali/ReviewDeskGo/pkg/middleware"
	"github.com/utafrali/ReviewDeskGo/pkg/pagination"
	"github.com/utafrali/ReviewDeskGo/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints, including the
// analytics dashboard query.
type ReviewHandler struct {
	reviews   *service.ReviewService
	analytics *service.AnalyticsService
	logger    *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(reviews *service.ReviewService, analytics *service.AnalyticsService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews:   reviews,
		analytics: analytics,
		logger:    logger,
	}
}

// --- Request DTOs ---

// CreateReviewRequest is the JSON request body for manually entering a review.
type CreateReviewRequest struct {
	RestaurantID    string   `json:"restaurant_id" validate:"required,uuid"`
	AuthorName      string   `json:"author_name" validate:"required,min=1,max=255"`
	AuthorURL       string   `json:"author_url" validate:"omitempty,url"`
	ProfilePhotoURL string   `json:"profile_photo_url" validate:"omitempty,url"`
	Rating          int      `json:"rating" validate:"required,min=1,max=5"`
	Text            string   `json:"text" validate:"required"`
	PublishedAt     *string  `json:"published_at"`
	Sentiment       string   `json:"sentiment" validate:"omitempty,oneof=POSITIVE NEGATIVE NEUTRAL"`
	Keywords        []string `json:"keywords"`
}

// SetReviewStatusRequest is the JSON request body for a manual status change.
type SetReviewStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING RESPONDED IGNORED"`
}

// --- Handlers ---

// CreateReview handles POST /api/v1/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := &service.CreateReviewInput{
		RestaurantID:    req.RestaurantID,
		AuthorName:      req.AuthorName,
		AuthorURL:       req.AuthorURL,
		ProfilePhotoURL: req.ProfilePhotoURL,
		Rating:          req.Rating,
		Text:            req.Text,
		Sentiment:       req.Sentiment,
		Keywords:        req.Keywords,
	}

	if req.PublishedAt != nil {
		publishedAt, err := time.Parse(time.RFC3339, *req.PublishedAt)
		if err != nil {
			writeBadRequest(w, "published_at must be in RFC3339 format")
			return
		}
		input.PublishedAt = &publishedAt
	}

	review, err := h.reviews.CreateReview(r.Context(), input)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: review})
}

// ListReviews handles GET /api/v1/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.Filter{
		RestaurantID: q.Get("restaurant_id"),
		Search:       q.Get("search"),
		Sentiment:    q.Get("sentiment"),
		Status:       q.Get("status"),
		DateRange:    q.Get("date_range"),
	}

	if v := q.Get("rating"); v != "" {
		rating, err := strconv.Atoi(v)
		if err != nil || rating < 1 || rating > 5 {
			writeBadRequest(w, "rating must be an integer between 1 and 5")
			return
		}
		filter.Rating = &rating
	}

	p := pagination.FromRequest(r)

	reviews, total, err := h.reviews.ListReviews(r.Context(), filter, p.Page, p.PerPage)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pagination.NewResult(reviews, total, p))
}

// GetReview handles GET /api/v1/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "review id is required")
		return
	}

	review, err := h.reviews.GetReview(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: review})
}

// SetStatus handles PATCH /api/v1/reviews/{id}/status
func (h *ReviewHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "review id is required")
		return
	}

	var req SetReviewStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	review, err := h.reviews.SetStatus(r.Context(), id, req.Status, userID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: review})
}

// GetAnalytics handles GET /api/v1/reviews/analytics
func (h *ReviewHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	restaurantID := r.URL.Query().Get("restaurant_id")
	if restaurantID == "" {
		writeBadRequest(w, "restaurant_id is required")
		return
	}

	dateRange := r.URL.Query().Get("date_range")

	snapshot, err := h.analytics.GetAnalytics(r.Context(), restaurantID, dateRange)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: snapshot})
}
