package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/ReviewDeskGo/internal/domain"
)

// DefaultTTL is how long a cached analytics snapshot stays fresh. Mutations
// invalidate eagerly, so the TTL only bounds staleness after missed
// invalidations.
const DefaultTTL = 5 * time.Minute

// Snapshot is the cached analytics payload: the aggregate plus the most
// recent reviews in the window.
type Snapshot struct {
	Analytics     domain.AnalyticsSnapshot `json:"analytics"`
	RecentReviews []domain.Review          `json:"recent_reviews"`
	ComputedAt    time.Time                `json:"computed_at"`
}

// AnalyticsCache stores analytics snapshots in Redis keyed by restaurant
// and date range.
type AnalyticsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewAnalyticsCache creates a Redis-backed analytics cache. A zero ttl
// falls back to DefaultTTL.
func NewAnalyticsCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *AnalyticsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &AnalyticsCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func key(restaurantID, dateRange string) string {
	if dateRange == domain.DateRangeAll {
		dateRange = "all"
	}
	return fmt.Sprintf("reviewdesk:analytics:%s:%s", restaurantID, dateRange)
}

// Get returns the cached snapshot for a restaurant and date range, or nil
// on a miss. Cache failures are reported as a miss, never as an error.
func (c *AnalyticsCache) Get(ctx context.Context, restaurantID, dateRange string) *Snapshot {
	data, err := c.client.Get(ctx, key(restaurantID, dateRange)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "analytics cache read failed",
				slog.String("restaurant_id", restaurantID),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.WarnContext(ctx, "analytics cache entry corrupt, dropping",
			slog.String("restaurant_id", restaurantID),
			slog.String("error", err.Error()),
		)
		_ = c.client.Del(ctx, key(restaurantID, dateRange)).Err()
		return nil
	}

	return &snapshot
}

// Set stores a snapshot with the configured TTL. Failures are logged and
// swallowed; the cache is best-effort.
func (c *AnalyticsCache) Set(ctx context.Context, restaurantID, dateRange string, snapshot *Snapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.WarnContext(ctx, "analytics cache marshal failed",
			slog.String("restaurant_id", restaurantID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.client.Set(ctx, key(restaurantID, dateRange), data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "analytics cache write failed",
			slog.String("restaurant_id", restaurantID),
			slog.String("error", err.Error()),
		)
	}
}

// Invalidate drops every cached snapshot for a restaurant. Called after any
// review or response mutation that changes the aggregates.
func (c *AnalyticsCache) Invalidate(ctx context.Context, restaurantID string) {
	keys := []string{key(restaurantID, domain.DateRangeAll)}
	for _, r := range domain.ValidDateRanges() {
		keys = append(keys, key(restaurantID, r))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "analytics cache invalidation failed",
			slog.String("restaurant_id", restaurantID),
			slog.String("error", err.Error()),
		)
	}
}
