package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ReviewDeskGo/internal/ai"
	"github.com/utafrali/ReviewDeskGo/internal/domain"
	"github.com/utafrali/ReviewDeskGo/internal/event"
	"github.com/utafrali/ReviewDeskGo/internal/repository"
	"github.com/utafrali/ReviewDeskGo/internal/service"
	"github.com/utafrali/ReviewDeskGo/pkg/health"
	pkgkafka "github.com/utafrali/ReviewDeskGo/pkg/kafka"
	"github.com/utafrali/ReviewDeskGo/pkg/middleware"
)

// ============================================================================
// Mock repositories
// ============================================================================

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
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) ListByRestaurant(ctx context.Context, restaurantID string, since *time.Time) ([]domain.Review, error) {
	args := m.Called(ctx, restaurantID, since)
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
	return args.Get(0).([]domain.Restaurant), args.Error(1)
}

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

// ============================================================================
// Test helpers
// ============================================================================

const testUserID = "550e8400-e29b-41d4-a716-446655440099"

type testRepos struct {
	reviews     *mockReviewRepository
	responses   *mockResponseRepository
	templates   *mockTemplateRepository
	restaurants *mockRestaurantRepository
	generator   *mockGenerator
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

// setupRouter builds the production router over mock repositories so tests
// exercise the full middleware chain and route layout.
func setupRouter() (http.Handler, *testRepos) {
	repos := &testRepos{
		reviews:     new(mockReviewRepository),
		responses:   new(mockResponseRepository),
		templates:   new(mockTemplateRepository),
		restaurants: new(mockRestaurantRepository),
		generator:   new(mockGenerator),
	}

	logger := testLogger()
	producer := testEventProducer()

	services := Services{
		Reviews:     service.NewReviewService(repos.reviews, repos.responses, repos.restaurants, producer, nil, logger),
		Responses:   service.NewResponseService(repos.responses, repos.reviews, repos.restaurants, repos.generator, producer, nil, logger),
		Templates:   service.NewTemplateService(repos.templates, repos.reviews, repos.restaurants, logger),
		Restaurants: service.NewRestaurantService(repos.restaurants, logger),
		Analytics:   service.NewAnalyticsService(repos.reviews, repos.restaurants, nil, logger),
	}

	router := NewRouter(services, health.NewHandler(), middleware.DefaultCORSConfig(), logger, nil)
	return router, repos
}

func doRequest(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

// listResponse mirrors the JSON shape of pagination.Result for decoding in tests.
type listResponse struct {
	Data       json.RawMessage `json:"data"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
	HasNext    bool            `json:"has_next"`
}

func decodeListResponse(t *testing.T, rec *httptest.ResponseRecorder) listResponse {
	t.Helper()
	var resp listResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

func sampleReview() *domain.Review {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Review{
		ID:           "550e8400-e29b-41d4-a716-446655440010",
		RestaurantID: "550e8400-e29b-41d4-a716-446655440001",
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
		ID:        "550e8400-e29b-41d4-a716-446655440020",
		ReviewID:  "550e8400-e29b-41d4-a716-446655440010",
		UserID:    testUserID,
		Content:   "Thank you for your feedback, we are sorry about the wait.",
		Tone:      domain.ToneApologetic,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sampleTemplate() *domain.ResponseTemplate {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	return &domain.ResponseTemplate{
		ID:        "550e8400-e29b-41d4-a716-446655440030",
		Title:     "Apology for slow service",
		Content:   "Dear {{customer_name}}, we are sorry about your visit.",
		Tone:      domain.ToneApologetic,
		Category:  "complaints",
		Variables: []string{"customer_name"},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sampleRestaurant() *domain.Restaurant {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Restaurant{
		ID:        "550e8400-e29b-41d4-a716-446655440001",
		Name:      "Café Rouge",
		Slug:      "cafe-rouge",
		Address:   "12 Rue de la Paix, Paris",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
