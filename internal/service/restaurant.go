package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/ReviewDeskGo/internal/domain"
	"github.com/utafrali/ReviewDeskGo/internal/repository"
	apperrors "github.com/utafrali/ReviewDeskGo/pkg/errors"
	"github.com/utafrali/ReviewDeskGo/pkg/slug"
)

// RestaurantService implements the business logic for restaurant operations.
type RestaurantService struct {
	restaurants repository.RestaurantRepository
	logger      *slog.Logger
}

// NewRestaurantService creates a new restaurant service.
func NewRestaurantService(restaurants repository.RestaurantRepository, logger *slog.Logger) *RestaurantService {
	return &RestaurantService{
		restaurants: restaurants,
		logger:      logger,
	}
}

// CreateRestaurantInput holds the parameters for registering a restaurant.
type CreateRestaurantInput struct {
	Name    string
	Address string
	PlaceID string
}

// CreateRestaurant registers a new restaurant. The URL slug is derived from
// the name and must be unique.
func (s *RestaurantService) CreateRestaurant(ctx context.Context, input *CreateRestaurantInput) (*domain.Restaurant, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("restaurant name is required")
	}

	now := time.Now().UTC()
	restaurant := &domain.Restaurant{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Slug:      slug.Generate(input.Name),
		Address:   input.Address,
		PlaceID:   input.PlaceID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.restaurants.Create(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}

	s.logger.InfoContext(ctx, "restaurant created",
		slog.String("restaurant_id", restaurant.ID),
		slog.String("slug", restaurant.Slug),
	)

	return restaurant, nil
}

// GetRestaurant retrieves a restaurant by its ID.
func (s *RestaurantService) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	restaurant, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get restaurant by id: %w", err)
	}
	return restaurant, nil
}

// ListRestaurants returns all restaurants ordered by name.
func (s *RestaurantService) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	restaurants, err := s.restaurants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}
