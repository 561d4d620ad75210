package repository

import (
	"context"
	"time"

	"github.com/utafrali/ReviewDeskGo/internal/domain"
)

// TemplateFilter defines filter criteria for listing response templates.
type TemplateFilter struct {
	Category *string
	Tone     *string
	Active   *bool
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Create inserts a new review into the store.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// List returns reviews matching the given filter along with the total
	// count, ordered by publication time descending.
	List(ctx context.Context, filter domain.Filter, page, perPage int) ([]domain.Review, int, error)

	// ListByRestaurant returns all reviews for a restaurant published at or
	// after since (all reviews when since is nil), ordered by publication
	// time descending.
	ListByRestaurant(ctx context.Context, restaurantID string, since *time.Time) ([]domain.Review, error)

	// UpdateStatus sets the lifecycle status of a review.
	UpdateStatus(ctx context.Context, id, status string) error
}

// ResponseRepository defines the interface for response persistence operations.
type ResponseRepository interface {
	// Create inserts a new response into the store.
	Create(ctx context.Context, response *domain.Response) error

	// GetByID retrieves a response by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Response, error)

	// ListByReview returns all responses for a review, newest first.
	ListByReview(ctx context.Context, reviewID string) ([]domain.Response, error)

	// Update modifies an existing response in the store.
	Update(ctx context.Context, response *domain.Response) error

	// Delete removes a response by its ID.
	Delete(ctx context.Context, id string) error
}

// TemplateRepository defines the interface for response template persistence.
type TemplateRepository interface {
	// Create inserts a new template into the store.
	Create(ctx context.Context, template *domain.ResponseTemplate) error

	// GetByID retrieves a template by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.ResponseTemplate, error)

	// List returns templates matching the given filter, newest first.
	List(ctx context.Context, filter TemplateFilter) ([]domain.ResponseTemplate, error)

	// Update modifies an existing template in the store.
	Update(ctx context.Context, template *domain.ResponseTemplate) error

	// Delete removes a template by its ID.
	Delete(ctx context.Context, id string) error
}

// RestaurantRepository defines the interface for restaurant persistence.
type RestaurantRepository interface {
	// Create inserts a new restaurant into the store.
	Create(ctx context.Context, restaurant *domain.Restaurant) error

	// GetByID retrieves a restaurant by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)

	// List returns all restaurants ordered by name.
	List(ctx context.Context) ([]domain.Restaurant, error)
}
