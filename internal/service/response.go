package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/utafrali/ReviewDeskGo/internal/ai"
	"github.com/utafrali/ReviewDeskGo/internal/domain"
	"github.com/utafrali/ReviewDeskGo/internal/event"
	"github.com/utafrali/ReviewDeskGo/internal/repository"
	apperrors "github.com/utafrali/ReviewDeskGo/pkg/errors"
)

// Generator drafts review responses. Implemented by ai.Client.
type Generator interface {
	Generate(ctx context.Context, input ai.GenerateInput) (*ai.GenerateResult, error)
}

// ResponseService implements the business logic for response operations,
// including the review lifecycle side effects of posting.
type ResponseService struct {
	responses   repository.ResponseRepository
	reviews     repository.ReviewRepository
	restaurants repository.RestaurantRepository
	generator   Generator
	producer    *event.Producer
	cache       AnalyticsCache
	logger      *slog.Logger

	// genMu guards genSeq, the per-review generation sequence used to
	// discard superseded draft requests (last-write-wins).
	genMu  sync.Mutex
	genSeq map[string]uint64
}

// NewResponseService creates a new response service.
func NewResponseService(
	responses repository.ResponseRepository,
	reviews repository.ReviewRepository,
	restaurants repository.RestaurantRepository,
	generator Generator,
	producer *event.Producer,
	analyticsCache AnalyticsCache,
	logger *slog.Logger,
) *ResponseService {
	return &ResponseService{
		responses:   responses,
		reviews:     reviews,
		restaurants: restaurants,
		generator:   generator,
		producer:    producer,
		cache:       analyticsCache,
		logger:      logger,
		genSeq:      make(map[string]uint64),
	}
}

// CreateResponseInput holds the parameters for saving a response draft.
type CreateResponseInput struct {
	ReviewID      string
	UserID        string
	Content       string
	Tone          string
	IsAIGenerated bool
	Model         string
}

// UpdateResponseInput holds the parameters for editing a response draft.
type UpdateResponseInput struct {
	Content *string
	Tone    *string
}

// GenerateDraftInput holds the parameters for drafting a response with AI.
type GenerateDraftInput struct {
	ReviewID           string
	Tone               string
	CustomInstructions string
	Premium            bool
}

// Draft is a generated response suggestion. It is not persisted until the
// caller saves it as a response.
type Draft struct {
	ReviewID string `json:"review_id"`
	Content  string `json:"content"`
	Tone     string `json:"tone"`
	Model    string `json:"model"`
}

// CreateResponse saves a response draft for a review.
func (s *ResponseService) CreateResponse(ctx context.Context, input *CreateResponseInput) (*domain.Response, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.InvalidInput("response content is required")
	}

	tone := input.Tone
	if tone == "" {
		tone = domain.ToneProfessional
	} else if !domain.IsValidTone(tone) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid tone %q, must be one of: %s", tone, strings.Join(domain.ValidTones(), ", ")))
	}

	review, err := s.reviews.GetByID(ctx, input.ReviewID)
	if err != nil {
		return nil, fmt.Errorf("get review for response: %w", err)
	}

	now := time.Now().UTC()
	response := &domain.Response{
		ID:            uuid.New().String(),
		ReviewID:      review.ID,
		UserID:        input.UserID,
		Content:       input.Content,
		Tone:          tone,
		IsAIGenerated: input.IsAIGenerated,
		Model:         input.Model,
		IsPosted:      false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.responses.Create(ctx, response); err != nil {
		return nil, fmt.Errorf("create response: %w", err)
	}

	if err := s.producer.PublishResponseCreated(ctx, response); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish response.created event",
			slog.String("response_id", response.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "response created",
		slog.String("response_id", response.ID),
		slog.String("review_id", response.ReviewID),
		slog.Bool("ai_generated", response.IsAIGenerated),
	)

	return response, nil
}

// GenerateDraft asks the AI assistant for a response draft. A newer request
// for the same review supersedes this one: when the provider answers after
// a fresher request has started, the stale draft is discarded.
func (s *ResponseService) GenerateDraft(ctx context.Context, input *GenerateDraftInput) (*Draft, error) {
	tone := input.Tone
	if tone == "" {
		tone = domain.ToneProfessional
	} else if !domain.IsValidTone(tone) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid tone %q, must be one of: %s", tone, strings.Join(domain.ValidTones(), ", ")))
	}

	review, err := s.reviews.GetByID(ctx, input.ReviewID)
	if err != nil {
		return nil, fmt.Errorf("get review for draft: %w", err)
	}

	restaurantName := ""
	if restaurant, err := s.restaurants.GetByID(ctx, review.RestaurantID); err == nil {
		restaurantName = restaurant.Name
	}

	seq := s.nextGenSeq(review.ID)

	result, err := s.generator.Generate(ctx, ai.GenerateInput{
		RestaurantName:     restaurantName,
		AuthorName:         review.AuthorName,
		Rating:             review.Rating,
		ReviewText:         review.Text,
		Tone:               tone,
		CustomInstructions: input.CustomInstructions,
		Premium:            input.Premium,
	})
	if err != nil {
		return nil, fmt.Errorf("generate draft: %w", err)
	}

	if s.isGenSuperseded(review.ID, seq) {
		s.logger.InfoContext(ctx, "discarding superseded draft",
			slog.String("review_id", review.ID),
		)
		return nil, apperrors.Conflict("draft superseded by a newer generation request")
	}

	return &Draft{
		ReviewID: review.ID,
		Content:  result.Content,
		Tone:     tone,
		Model:    result.Model,
	}, nil
}

// UpdateResponse edits a response draft. Posted responses are immutable.
func (s *ResponseService) UpdateResponse(ctx context.Context, id string, input *UpdateResponseInput) (*domain.Response, error) {
	response, err := s.responses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get response for update: %w", err)
	}

	if response.IsPosted {
		return nil, apperrors.InvalidState("posted responses cannot be edited")
	}

	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, apperrors.InvalidInput("response content must not be empty")
		}
		response.Content = *input.Content
	}

	if input.Tone != nil {
		if !domain.IsValidTone(*input.Tone) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid tone %q, must be one of: %s", *input.Tone, strings.Join(domain.ValidTones(), ", ")))
		}
		response.Tone = *input.Tone
	}

	if err := s.responses.Update(ctx, response); err != nil {
		return nil, fmt.Errorf("update response: %w", err)
	}

	s.logger.InfoContext(ctx, "response updated",
		slog.String("response_id", response.ID),
	)

	return response, nil
}

// MarkPosted records that a response was published to the review platform.
// The transition is one-way: reposting an already posted response is
// rejected without changing any state. Posting the first response of a
// PENDING review moves the review to RESPONDED.
func (s *ResponseService) MarkPosted(ctx context.Context, id, userID string) (*domain.Response, error) {
	response, err := s.responses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get response for post: %w", err)
	}

	if response.IsPosted {
		return nil, apperrors.AlreadyPosted(id)
	}

	if utf8.RuneCountInString(response.Content) > domain.ResponsePostLimit {
		return nil, apperrors.InvalidInput(fmt.Sprintf("response exceeds the %d character posting limit", domain.ResponsePostLimit))
	}

	now := time.Now().UTC()
	response.IsPosted = true
	response.PostedAt = &now
	if userID != "" {
		response.UserID = userID
	}

	if err := s.responses.Update(ctx, response); err != nil {
		return nil, fmt.Errorf("mark response posted: %w", err)
	}

	if err := s.producer.PublishResponsePosted(ctx, response); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish response.posted event",
			slog.String("response_id", response.ID),
			slog.String("error", err.Error()),
		)
	}

	s.markReviewResponded(ctx, response.ReviewID, userID)

	s.logger.InfoContext(ctx, "response posted",
		slog.String("response_id", response.ID),
		slog.String("review_id", response.ReviewID),
		slog.String("posted_by", userID),
	)

	return response, nil
}

// DeleteResponse removes a response in any state. Deleting a posted
// response never retracts the review's RESPONDED status.
func (s *ResponseService) DeleteResponse(ctx context.Context, id string) error {
	response, err := s.responses.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get response for delete: %w", err)
	}

	if err := s.responses.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete response: %w", err)
	}

	if err := s.producer.PublishResponseDeleted(ctx, response); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish response.deleted event",
			slog.String("response_id", response.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "response deleted",
		slog.String("response_id", id),
		slog.String("review_id", response.ReviewID),
		slog.Bool("was_posted", response.IsPosted),
	)

	return nil
}

// ListByReview returns all responses for a review, newest first.
func (s *ResponseService) ListByReview(ctx context.Context, reviewID string) ([]domain.Response, error) {
	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		return nil, fmt.Errorf("get review for responses: %w", err)
	}

	responses, err := s.responses.ListByReview(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	return responses, nil
}

// markReviewResponded fires the automatic PENDING -> RESPONDED transition.
// It only ever moves a review out of PENDING, so it fires exactly once and
// never overrides a manual status choice.
func (s *ResponseService) markReviewResponded(ctx context.Context, reviewID, userID string) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load review for auto transition",
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
		return
	}

	if review.Status != domain.ReviewStatusPending {
		return
	}

	fromStatus := review.Status
	if err := s.reviews.UpdateStatus(ctx, reviewID, domain.ReviewStatusResponded); err != nil {
		s.logger.ErrorContext(ctx, "failed to auto transition review to responded",
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
		return
	}
	review.Status = domain.ReviewStatusResponded

	if err := s.producer.PublishReviewStatusChanged(ctx, review, fromStatus, userID, true); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.status-changed event",
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, review.RestaurantID)
	}
}

func (s *ResponseService) nextGenSeq(reviewID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.genSeq[reviewID]++
	return s.genSeq[reviewID]
}

func (s *ResponseService) isGenSuperseded(reviewID string, seq uint64) bool {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.genSeq[reviewID] != seq
}
