package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/utafrali/ReviewDeskGo/internal/cache"
	"github.com/utafrali/ReviewDeskGo/internal/domain"
	"github.com/utafrali/ReviewDeskGo/internal/repository"
	apperrors "github.com/utafrali/ReviewDeskGo/pkg/errors"
)

// recentReviewCount is how many of the newest reviews accompany a snapshot.
const recentReviewCount = 5

// AnalyticsService computes review analytics snapshots, backed by a
// best-effort cache.
type AnalyticsService struct {
	reviews     repository.ReviewRepository
	restaurants repository.RestaurantRepository
	cache       AnalyticsCache
	logger      *slog.Logger
	now         func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(
	reviews repository.ReviewRepository,
	restaurants repository.RestaurantRepository,
	analyticsCache AnalyticsCache,
	logger *slog.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		reviews:     reviews,
		restaurants: restaurants,
		cache:       analyticsCache,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetAnalytics returns the analytics snapshot for a restaurant over the
// named date range, together with the most recent reviews in the window.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, restaurantID, dateRange string) (*cache.Snapshot, error) {
	if !domain.IsValidDateRange(dateRange) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid date range %q, must be one of: %s", dateRange, strings.Join(domain.ValidDateRanges(), ", ")))
	}

	if _, err := s.restaurants.GetByID(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("get restaurant for analytics: %w", err)
	}

	if s.cache != nil {
		if snapshot := s.cache.Get(ctx, restaurantID, dateRange); snapshot != nil {
			s.logger.DebugContext(ctx, "analytics cache hit",
				slog.String("restaurant_id", restaurantID),
				slog.String("date_range", dateRange),
			)
			return snapshot, nil
		}
	}

	now := s.now()
	var since *time.Time
	if start, ok := domain.DateRangeStart(dateRange, now); ok {
		since = &start
	}

	reviews, err := s.reviews.ListByRestaurant(ctx, restaurantID, since)
	if err != nil {
		return nil, fmt.Errorf("list reviews for analytics: %w", err)
	}

	recent := reviews
	if len(recent) > recentReviewCount {
		recent = recent[:recentReviewCount]
	}

	snapshot := &cache.Snapshot{
		Analytics:     domain.Aggregate(reviews),
		RecentReviews: recent,
		ComputedAt:    now,
	}

	if s.cache != nil {
		s.cache.Set(ctx, restaurantID, dateRange, snapshot)
	}

	return snapshot, nil
}
