package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/ReviewDeskGo/internal/domain"
	pkgkafka "github.com/utafrali/ReviewDeskGo/pkg/kafka"
)

// Kafka topics for review and response domain events.
var (
	TopicReviewCreated       = pkgkafka.Topic("review", "created")
	TopicReviewStatusChanged = pkgkafka.Topic("review", "status-changed")
	TopicResponseCreated     = pkgkafka.Topic("response", "created")
	TopicResponsePosted      = pkgkafka.Topic("response", "posted")
	TopicResponseDeleted     = pkgkafka.Topic("response", "deleted")
)

// Aggregate type constants.
const (
	AggregateTypeReview   = "review"
	AggregateTypeResponse = "response"
)

// Source identifier for events originating from this service.
const SourceReviewService = "reviewdesk-service"

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	AuthorName   string `json:"author_name"`
	Rating       int    `json:"rating"`
	Sentiment    string `json:"sentiment"`
	Status       string `json:"status"`
}

// ReviewStatusChangedData is the payload for a review.status-changed event.
type ReviewStatusChangedData struct {
	ID         string `json:"id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ChangedBy  string `json:"changed_by,omitempty"`
	Automatic  bool   `json:"automatic"`
}

// ResponseCreatedData is the payload for a response.created event.
type ResponseCreatedData struct {
	ID            string `json:"id"`
	ReviewID      string `json:"review_id"`
	Tone          string `json:"tone"`
	IsAIGenerated bool   `json:"is_ai_generated"`
	Model         string `json:"model,omitempty"`
}

// ResponsePostedData is the payload for a response.posted event.
type ResponsePostedData struct {
	ID       string `json:"id"`
	ReviewID string `json:"review_id"`
	Tone     string `json:"tone"`
	PostedBy string `json:"posted_by,omitempty"`
}

// ResponseDeletedData is the payload for a response.deleted event.
type ResponseDeletedData struct {
	ID        string `json:"id"`
	ReviewID  string `json:"review_id"`
	WasPosted bool   `json:"was_posted"`
}

// Producer publishes review and response domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the review service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:           review.ID,
		RestaurantID: review.RestaurantID,
		AuthorName:   review.AuthorName,
		Rating:       review.Rating,
		Sentiment:    review.Sentiment,
		Status:       review.Status,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, review.ID, AggregateTypeReview, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", review.ID),
		slog.String("restaurant_id", review.RestaurantID),
	)

	return nil
}

// PublishReviewStatusChanged publishes a review.status-changed event.
func (p *Producer) PublishReviewStatusChanged(ctx context.Context, review *domain.Review, fromStatus, changedBy string, automatic bool) error {
	data := ReviewStatusChangedData{
		ID:         review.ID,
		FromStatus: fromStatus,
		ToStatus:   review.Status,
		ChangedBy:  changedBy,
		Automatic:  automatic,
	}

	event, err := pkgkafka.NewEvent(TopicReviewStatusChanged, review.ID, AggregateTypeReview, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("create review.status-changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewStatusChanged, event); err != nil {
		return fmt.Errorf("publish review.status-changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.status-changed event",
		slog.String("review_id", review.ID),
		slog.String("from_status", fromStatus),
		slog.String("to_status", review.Status),
	)

	return nil
}

// PublishResponseCreated publishes a response.created event.
func (p *Producer) PublishResponseCreated(ctx context.Context, response *domain.Response) error {
	data := ResponseCreatedData{
		ID:            response.ID,
		ReviewID:      response.ReviewID,
		Tone:          response.Tone,
		IsAIGenerated: response.IsAIGenerated,
		Model:         response.Model,
	}

	event, err := pkgkafka.NewEvent(TopicResponseCreated, response.ID, AggregateTypeResponse, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("create response.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicResponseCreated, event); err != nil {
		return fmt.Errorf("publish response.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published response.created event",
		slog.String("response_id", response.ID),
		slog.String("review_id", response.ReviewID),
	)

	return nil
}

// PublishResponsePosted publishes a response.posted event.
func (p *Producer) PublishResponsePosted(ctx context.Context, response *domain.Response) error {
	data := ResponsePostedData{
		ID:       response.ID,
		ReviewID: response.ReviewID,
		Tone:     response.Tone,
		PostedBy: response.UserID,
	}

	event, err := pkgkafka.NewEvent(TopicResponsePosted, response.ID, AggregateTypeResponse, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("create response.posted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicResponsePosted, event); err != nil {
		return fmt.Errorf("publish response.posted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published response.posted event",
		slog.String("response_id", response.ID),
		slog.String("review_id", response.ReviewID),
	)

	return nil
}

// PublishResponseDeleted publishes a response.deleted event.
func (p *Producer) PublishResponseDeleted(ctx context.Context, response *domain.Response) error {
	data := ResponseDeletedData{
		ID:        response.ID,
		ReviewID:  response.ReviewID,
		WasPosted: response.IsPosted,
	}

	event, err := pkgkafka.NewEvent(TopicResponseDeleted, response.ID, AggregateTypeResponse, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("create response.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicResponseDeleted, event); err != nil {
		return fmt.Errorf("publish response.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published response.deleted event",
		slog.String("response_id", response.ID),
		slog.String("review_id", response.ReviewID),
	)

	return nil
}
