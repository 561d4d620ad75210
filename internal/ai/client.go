package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/ReviewDeskGo/internal/domain"
	apperrors "github.com/utafrali/ReviewDeskGo/pkg/errors"
	"github.com/utafrali/ReviewDeskGo/pkg/httpclient"
)

// Models used for draft generation.
const (
	ModelDefault = "gpt-3.5-turbo"
	ModelPremium = "gpt-4-turbo-preview"
)

// DefaultBaseURL is the OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

var (
	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ai_generation_duration_seconds",
		Help:    "Duration of AI draft generation requests.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
	})
	generationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_generation_requests_total",
		Help: "Total AI draft generation requests by model and outcome.",
	}, []string{"model", "outcome"})
)

// HTTPDoer is the HTTP client used to reach the provider. Satisfied by both
// httpclient.Client and httpclient.CircuitBreakerClient.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Config holds the AI client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls the OpenAI chat-completions API to draft review responses.
type Client struct {
	http    HTTPDoer
	apiKey  string
	baseURL string
	logger  *slog.Logger
}

// NewClient creates an AI generation client. A nil doer gets a default
// retrying HTTP client behind a circuit breaker.
func NewClient(cfg Config, doer HTTPDoer, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if doer == nil {
		hc := httpclient.DefaultConfig()
		if cfg.Timeout > 0 {
			hc.Timeout = cfg.Timeout
		}
		doer = httpclient.NewCircuitBreakerClient(
			httpclient.New(hc),
			httpclient.DefaultCircuitBreakerConfig("openai"),
			logger,
		)
	}
	return &Client{
		http:    doer,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// GenerateInput carries the review context for a draft generation request.
type GenerateInput struct {
	RestaurantName     string
	AuthorName         string
	Rating             int
	ReviewText         string
	Tone               string
	CustomInstructions string
	Premium            bool
}

// GenerateResult is a generated draft and the model that produced it.
type GenerateResult struct {
	Content string
	Model   string
}

// chat-completions wire types
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate drafts a response to a review in the requested tone. Provider
// failures surface as GENERATION_FAILED carrying the provider message.
func (c *Client) Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	model := ModelDefault
	if input.Premium {
		model = ModelPremium
	}

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(input.RestaurantName)},
			{Role: "user", Content: userPrompt(input)},
		},
		Temperature: 0.7,
		MaxTokens:   300,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generation request: %w", err)
	}

	start := time.Now()
	resp, err := c.post(ctx, c.baseURL+"/chat/completions", body)
	generationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		generationTotal.WithLabelValues(model, "error").Inc()
		return nil, apperrors.GenerationFailed(err.Error())
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		generationTotal.WithLabelValues(model, "error").Inc()
		return nil, apperrors.GenerationFailed("malformed provider response: " + err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		generationTotal.WithLabelValues(model, "error").Inc()
		msg := fmt.Sprintf("provider returned status %d", resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return nil, apperrors.GenerationFailed(msg)
	}

	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		generationTotal.WithLabelValues(model, "error").Inc()
		return nil, apperrors.GenerationFailed("provider returned an empty draft")
	}

	generationTotal.WithLabelValues(model, "success").Inc()
	c.logger.DebugContext(ctx, "generated response draft",
		slog.String("model", model),
		slog.String("tone", input.Tone),
	)

	return &GenerateResult{
		Content: strings.TrimSpace(parsed.Choices[0].Message.Content),
		Model:   model,
	}, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.http.Do(ctx, req)
}

func systemPrompt(restaurantName string) string {
	name := restaurantName
	if name == "" {
		name = "the restaurant"
	}
	return fmt.Sprintf(
		"You are the owner of %s replying to customer reviews. Keep replies under %d characters and do not invent specifics that are not in the review.",
		name, domain.ResponsePostLimit,
	)
}

func userPrompt(input GenerateInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a reply to this %d-star review", input.Rating)
	if input.AuthorName != "" {
		fmt.Fprintf(&b, " from %s", input.AuthorName)
	}
	fmt.Fprintf(&b, ".\nTone: %s.", domain.ToneDescription(input.Tone))
	if input.CustomInstructions != "" {
		fmt.Fprintf(&b, "\nAdditional instructions: %s.", input.CustomInstructions)
	}
	fmt.Fprintf(&b, "\n\nReview:\n%s", input.ReviewText)
	return b.String()
}
