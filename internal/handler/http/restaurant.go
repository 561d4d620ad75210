package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/ReviewDeskGo/internal/service"
	"github.com/utafrali/ReviewDeskGo/pkg/validator"
)

// RestaurantHandler handles HTTP requests for restaurant endpoints.
type RestaurantHandler struct {
	service *service.RestaurantService
	logger  *slog.Logger
}

// NewRestaurantHandler creates a new restaurant HTTP handler.
func NewRestaurantHandler(svc *service.RestaurantService, logger *slog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateRestaurantRequest is the JSON request body for registering a restaurant.
type CreateRestaurantRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Address string `json:"address" validate:"max=500"`
	PlaceID string `json:"place_id" validate:"max=255"`
}

// CreateRestaurant handles POST /api/v1/restaurants
func (h *RestaurantHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req CreateRestaurantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	restaurant, err := h.service.CreateRestaurant(r.Context(), &service.CreateRestaurantInput{
		Name:    req.Name,
		Address: req.Address,
		PlaceID: req.PlaceID,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: restaurant})
}

// ListRestaurants handles GET /api/v1/restaurants
func (h *RestaurantHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.service.ListRestaurants(r.Context())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: restaurants})
}

// GetRestaurant handles GET /api/v1/restaurants/{id}
func (h *RestaurantHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "restaurant id is required")
		return
	}

	restaurant, err := h.service.GetRestaurant(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: restaurant})
}
