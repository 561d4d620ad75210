package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/ReviewDeskGo/internal/domain"
	"github.com/utafrali/ReviewDeskGo/internal/repository"
	apperrors "github.com/utafrali/ReviewDeskGo/pkg/errors"
)

// TemplateService implements the business logic for response templates.
type TemplateService struct {
	templates   repository.TemplateRepository
	reviews     repository.ReviewRepository
	restaurants repository.RestaurantRepository
	logger      *slog.Logger
}

// NewTemplateService creates a new template service.
func NewTemplateService(
	templates repository.TemplateRepository,
	reviews repository.ReviewRepository,
	restaurants repository.RestaurantRepository,
	logger *slog.Logger,
) *TemplateService {
	return &TemplateService{
		templates:   templates,
		reviews:     reviews,
		restaurants: restaurants,
		logger:      logger,
	}
}

// CreateTemplateInput holds the parameters for creating a template.
type CreateTemplateInput struct {
	Title     string
	Content   string
	Tone      string
	Category  string
	Variables []string
	IsActive  *bool
}

// UpdateTemplateInput holds the parameters for updating a template.
type UpdateTemplateInput struct {
	Title     *string
	Content   *string
	Tone      *string
	Category  *string
	Variables []string
	IsActive  *bool
}

// RenderedTemplate is a template with its placeholders filled from a review.
type RenderedTemplate struct {
	TemplateID string `json:"template_id"`
	ReviewID   string `json:"review_id"`
	Content    string `json:"content"`
	Tone       string `json:"tone"`
}

// CreateTemplate creates a new response template. Templates are active by
// default.
func (s *TemplateService) CreateTemplate(ctx context.Context, input *CreateTemplateInput) (*domain.ResponseTemplate, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.InvalidInput("template title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.InvalidInput("template content is required")
	}

	tone := input.Tone
	if tone == "" {
		tone = domain.ToneProfessional
	} else if !domain.IsValidTone(tone) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid tone %q, must be one of: %s", tone, strings.Join(domain.ValidTones(), ", ")))
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	now := time.Now().UTC()
	template := &domain.ResponseTemplate{
		ID:        uuid.New().String(),
		Title:     input.Title,
		Content:   input.Content,
		Tone:      tone,
		Category:  input.Category,
		Variables: input.Variables,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if template.Variables == nil {
		template.Variables = []string{}
	}

	if err := s.templates.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	s.logger.InfoContext(ctx, "template created",
		slog.String("template_id", template.ID),
		slog.String("title", template.Title),
	)

	return template, nil
}

// GetTemplate retrieves a template by its ID.
func (s *TemplateService) GetTemplate(ctx context.Context, id string) (*domain.ResponseTemplate, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get template by id: %w", err)
	}
	return template, nil
}

// ListTemplates returns templates matching the given filter.
func (s *TemplateService) ListTemplates(ctx context.Context, filter repository.TemplateFilter) ([]domain.ResponseTemplate, error) {
	if filter.Tone != nil && !domain.IsValidTone(*filter.Tone) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid tone %q", *filter.Tone))
	}

	templates, err := s.templates.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	return templates, nil
}

// UpdateTemplate applies partial updates to an existing template.
func (s *TemplateService) UpdateTemplate(ctx context.Context, id string, input *UpdateTemplateInput) (*domain.ResponseTemplate, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get template for update: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperrors.InvalidInput("template title must not be empty")
		}
		template.Title = *input.Title
	}

	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, apperrors.InvalidInput("template content must not be empty")
		}
		template.Content = *input.Content
	}

	if input.Tone != nil {
		if !domain.IsValidTone(*input.Tone) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid tone %q, must be one of: %s", *input.Tone, strings.Join(domain.ValidTones(), ", ")))
		}
		template.Tone = *input.Tone
	}

	if input.Category != nil {
		template.Category = *input.Category
	}

	if input.Variables != nil {
		template.Variables = input.Variables
	}

	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := s.templates.Update(ctx, template); err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}

	s.logger.InfoContext(ctx, "template updated",
		slog.String("template_id", template.ID),
	)

	return template, nil
}

// DeleteTemplate removes a template by its ID.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.templates.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}

	s.logger.InfoContext(ctx, "template deleted",
		slog.String("template_id", id),
	)

	return nil
}

// RenderTemplate fills a template's placeholders from a review to seed a
// response draft. When the restaurant lookup fails the name falls back to
// "our restaurant" so a draft never ships a raw placeholder.
func (s *TemplateService) RenderTemplate(ctx context.Context, templateID, reviewID string) (*RenderedTemplate, error) {
	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("get template for render: %w", err)
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("get review for render: %w", err)
	}

	vars := map[string]string{
		"customer_name":   review.AuthorName,
		"restaurant_name": "our restaurant",
		"rating":          strconv.Itoa(review.Rating),
	}
	if restaurant, err := s.restaurants.GetByID(ctx, review.RestaurantID); err == nil {
		vars["restaurant_name"] = restaurant.Name
	}

	return &RenderedTemplate{
		TemplateID: template.ID,
		ReviewID:   review.ID,
		Content:    domain.Interpolate(template.Content, vars),
		Tone:       template.Tone,
	}, nil
}
