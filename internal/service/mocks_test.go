package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/ReviewDeskGo/internal/ai"
	"github.com/utafrali/ReviewDeskGo/internal/cache"
	"github.com/utafrali/ReviewDeskGo/internal/domain"
	"github.com/utafrali/ReviewDeskGo/internal/event"
	"github.com/utafrali/ReviewDeskGo/internal/repository"
	pkgkafka "github.com/utafrali/ReviewDeskGo/pkg/kafka"
)

// --- Mock Repositories ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) List(ctx context.Context, filter domain.Filter, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, filter, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) ListByRestaurant(ctx context.Context, restaurantID string, since *time.Time) ([]domain.Review, error) {
	args := m.Called(ctx, restaurantID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type mockResponseRepository struct {
	mock.Mock
}

func (m *mockResponseRepository) Create(ctx context.Context, response *domain.Response) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *mockResponseRepository) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Response), args.Error(1)
}

func (m *mockResponseRepository) ListByReview(ctx context.Context, reviewID string) ([]domain.Response, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Response), args.Error(1)
}

func (m *mockResponseRepository) Update(ctx context.Context, response *domain.Response) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *mockResponseRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockTemplateRepository struct {
	mock.Mock
}

func (m *mockTemplateRepository) Create(ctx context.Context, template *domain.ResponseTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *mockTemplateRepository) GetByID(ctx context.Context, id string) (*domain.ResponseTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResponseTemplate), args.Error(1)
}

func (m *mockTemplateRepository) List(ctx context.Context, filter repository.TemplateFilter) ([]domain.ResponseTemplate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResponseTemplate), args.Error(1)
}

func (m *mockTemplateRepository) Update(ctx context.Context, template *domain.ResponseTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *mockTemplateRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockRestaurantRepository struct {
	mock.Mock
}

func (m *mockRestaurantRepository) Create(ctx context.Context, restaurant *domain.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *mockRestaurantRepository) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Restaurant), args.Error(1)
}

func (m *mockRestaurantRepository) List(ctx context.Context) ([]domain.Restaurant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Restaurant), args.Error(1)
}

// --- Mock Collaborators ---

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, input ai.GenerateInput) (*ai.GenerateResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.GenerateResult), args.Error(1)
}

type mockAnalyticsCache struct {
	mock.Mock
}

func (m *mockAnalyticsCache) Get(ctx context.Context, restaurantID, dateRange string) *cache.Snapshot {
	args := m.Called(ctx, restaurantID, dateRange)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*cache.Snapshot)
}

func (m *mockAnalyticsCache) Set(ctx context.Context, restaurantID, dateRange string, snapshot *cache.Snapshot) {
	m.Called(ctx, restaurantID, dateRange, snapshot)
}

func (m *mockAnalyticsCache) Invalidate(ctx context.Context, restaurantID string) {
	m.Called(ctx, restaurantID)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestProducer builds an event producer against a broker that does not
// exist; publish failures are logged and swallowed by the services.
func newTestProducer() *event.Producer {
	logger := newTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

func sampleRestaurant() *domain.Restaurant {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Restaurant{
		ID:        "rest-001",
		Name:      "Café Rouge",
		Slug:      "cafe-rouge",
		Address:   "12 Rue de la Paix, Paris",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sampleReview() *domain.Review {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Review{
		ID:           "rev-001",
		RestaurantID: "rest-001",
		AuthorName:   "Maria Lopez",
		Rating:       2,
		Text:         "The soup was cold and the service slow.",
		PublishedAt:  now.Add(-48 * time.Hour),
		Sentiment:    domain.SentimentNegative,
		Keywords:     []string{"soup", "service"},
		Status:       domain.ReviewStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func sampleResponse() *domain.Response {
	now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Response{
		ID:        "resp-001",
		ReviewID:  "rev-001",
		UserID:    "user-001",
		Content:   "Thank you for your feedback, we are sorry about the wait.",
		Tone:      domain.ToneApologetic,
		IsPosted:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sampleTemplate() *domain.ResponseTemplate {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	return &domain.ResponseTemplate{
		ID:        "tmpl-001",
		Title:     "Apology for slow service",
		Content:   "Dear {{customer_name}}, we are sorry about your {{rating}}-star visit to {{restaurant_name}}.",
		Tone:      domain.ToneApologetic,
		Category:  "complaints",
		Variables: []string{"customer_name", "restaurant_name", "rating"},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
