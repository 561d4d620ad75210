package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/ReviewDeskGo/internal/cache"
	"github.com/utafrali/ReviewDeskGo/internal/domain"
	"github.com/utafrali/ReviewDeskGo/internal/event"
	"github.com/utafrali/ReviewDeskGo/internal/repository"
	apperrors "github.com/utafrali/ReviewDeskGo/pkg/errors"
)

// AnalyticsCache is the snapshot cache the services invalidate on mutation.
// Implemented by cache.AnalyticsCache; nil disables caching.
type AnalyticsCache interface {
	Get(ctx context.Context, restaurantID, dateRange string) *cache.Snapshot
	Set(ctx context.Context, restaurantID, dateRange string, snapshot *cache.Snapshot)
	Invalidate(ctx context.Context, restaurantID string)
}

// ReviewService implements the business logic for review operations.
type ReviewService struct {
	reviews     repository.ReviewRepository
	responses   repository.ResponseRepository
	restaurants repository.RestaurantRepository
	producer    *event.Producer
	cache       AnalyticsCache
	logger      *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	responses repository.ResponseRepository,
	restaurants repository.RestaurantRepository,
	producer *event.Producer,
	analyticsCache AnalyticsCache,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:     reviews,
		responses:   responses,
		restaurants: restaurants,
		producer:    producer,
		cache:       analyticsCache,
		logger:      logger,
	}
}

// CreateReviewInput holds the parameters for manually entering a review.
type CreateReviewInput struct {
	RestaurantID    string
	AuthorName      string
	AuthorURL       string
	ProfilePhotoURL string
	Rating          int
	Text            string
	PublishedAt     *time.Time
	Sentiment       string
	Keywords        []string
}

// ReviewWithResponses pairs a review with its responses, newest first.
type ReviewWithResponses struct {
	domain.Review
	Responses []domain.Response `json:"responses"`
}

// CreateReview records a manually entered review. The sentiment defaults to
// a rating-derived classification when not supplied; the status is always
// PENDING.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	if strings.TrimSpace(input.AuthorName) == "" {
		return nil, apperrors.InvalidInput("author name is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, apperrors.InvalidInput("review text is required")
	}

	sentiment := input.Sentiment
	if sentiment == "" {
		sentiment = domain.SentimentForRating(input.Rating)
	} else if !domain.IsValidSentiment(sentiment) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid sentiment %q, must be one of: %s", sentiment, strings.Join(domain.ValidSentiments(), ", ")))
	}

	if _, err := s.restaurants.GetByID(ctx, input.RestaurantID); err != nil {
		return nil, fmt.Errorf("get restaurant for review: %w", err)
	}

	now := time.Now().UTC()
	publishedAt := now
	if input.PublishedAt != nil {
		publishedAt = input.PublishedAt.UTC()
	}

	review := &domain.Review{
		ID:              uuid.New().String(),
		RestaurantID:    input.RestaurantID,
		AuthorName:      input.AuthorName,
		AuthorURL:       input.AuthorURL,
		ProfilePhotoURL: input.ProfilePhotoURL,
		Rating:          input.Rating,
		Text:            input.Text,
		PublishedAt:     publishedAt,
		Sentiment:       sentiment,
		Keywords:        input.Keywords,
		Status:          domain.ReviewStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if review.Keywords == nil {
		review.Keywords = []string{}
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.invalidateAnalytics(ctx, review.RestaurantID)

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("restaurant_id", review.RestaurantID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// GetReview retrieves a review with its responses attached.
func (s *ReviewService) GetReview(ctx context.Context, id string) (*ReviewWithResponses, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review by id: %w", err)
	}

	responses, err := s.responses.ListByReview(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list responses for review: %w", err)
	}

	return &ReviewWithResponses{Review: *review, Responses: responses}, nil
}

// ListReviews returns a filtered, paginated list of reviews, each with its
// responses attached.
func (s *ReviewService) ListReviews(ctx context.Context, filter domain.Filter, page, perPage int) ([]ReviewWithResponses, int, error) {
	if filter.Sentiment != "" && !domain.IsValidSentiment(filter.Sentiment) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid sentiment %q", filter.Sentiment))
	}
	if filter.Status != "" && !domain.IsValidReviewStatus(filter.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid status %q", filter.Status))
	}
	if !domain.IsValidDateRange(filter.DateRange) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid date range %q, must be one of: %s", filter.DateRange, strings.Join(domain.ValidDateRanges(), ", ")))
	}

	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	reviews, total, err := s.reviews.List(ctx, filter, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	result := make([]ReviewWithResponses, 0, len(reviews))
	for _, review := range reviews {
		responses, err := s.responses.ListByReview(ctx, review.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("list responses for review %s: %w", review.ID, err)
		}
		result = append(result, ReviewWithResponses{Review: review, Responses: responses})
	}

	return result, total, nil
}

// SetStatus manually overrides a review's lifecycle status. Any transition
// is allowed; posted responses are never retracted.
func (s *ReviewService) SetStatus(ctx context.Context, id, status, userID string) (*domain.Review, error) {
	if !domain.IsValidReviewStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q, must be one of: %s", status, strings.Join(domain.ValidReviewStatuses(), ", ")))
	}

	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review for status change: %w", err)
	}

	if review.Status == status {
		return review, nil
	}

	fromStatus := review.Status
	if err := s.reviews.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update review status: %w", err)
	}
	review.Status = status
	review.UpdatedAt = time.Now().UTC()

	if err := s.producer.PublishReviewStatusChanged(ctx, review, fromStatus, userID, false); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.status-changed event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.invalidateAnalytics(ctx, review.RestaurantID)

	s.logger.InfoContext(ctx, "review status changed",
		slog.String("review_id", review.ID),
		slog.String("from_status", fromStatus),
		slog.String("to_status", status),
		slog.String("changed_by", userID),
	)

	return review, nil
}

func (s *ReviewService) invalidateAnalytics(ctx context.Context, restaurantID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, restaurantID)
	}
}
