package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/ReviewDeskGo/internal/domain"
	apperrors "github.com/utafrali/ReviewDeskGo/pkg/errors"
)

// ResponseRepository implements repository.ResponseRepository using PostgreSQL.
type ResponseRepository struct {
	db DB
}

// NewResponseRepository creates a new PostgreSQL-backed response repository.
func NewResponseRepository(db DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

const responseColumns = `id, review_id, user_id, content, tone, is_ai_generated,
	   model, is_posted, posted_at, created_at, updated_at`

// Create inserts a new response into the database.
func (r *ResponseRepository) Create(ctx context.Context, resp *domain.Response) error {
	query := `
		INSERT INTO responses (
			id, review_id, user_id, content, tone, is_ai_generated,
			model, is_posted, posted_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		resp.ID,
		resp.ReviewID,
		resp.UserID,
		resp.Content,
		resp.Tone,
		resp.IsAIGenerated,
		resp.Model,
		resp.IsPosted,
		resp.PostedAt,
		resp.CreatedAt,
		resp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}

	return nil
}

// GetByID retrieves a response by its ID.
func (r *ResponseRepository) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM responses
		WHERE id = $1`, responseColumns)

	var resp domain.Response
	err := r.db.QueryRow(ctx, query, id).Scan(
		&resp.ID,
		&resp.ReviewID,
		&resp.UserID,
		&resp.Content,
		&resp.Tone,
		&resp.IsAIGenerated,
		&resp.Model,
		&resp.IsPosted,
		&resp.PostedAt,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan response: %w", err)
	}

	return &resp, nil
}

// ListByReview returns all responses for a review, newest first.
func (r *ResponseRepository) ListByReview(ctx context.Context, reviewID string) ([]domain.Response, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM responses
		WHERE review_id = $1
		ORDER BY created_at DESC`, responseColumns)

	rows, err := r.db.Query(ctx, query, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list responses by review: %w", err)
	}
	defer rows.Close()

	var responses []domain.Response
	for rows.Next() {
		var resp domain.Response
		if err := rows.Scan(
			&resp.ID,
			&resp.ReviewID,
			&resp.UserID,
			&resp.Content,
			&resp.Tone,
			&resp.IsAIGenerated,
			&resp.Model,
			&resp.IsPosted,
			&resp.PostedAt,
			&resp.CreatedAt,
			&resp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan response row: %w", err)
		}
		responses = append(responses, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate response rows: %w", err)
	}

	if responses == nil {
		responses = []domain.Response{}
	}

	return responses, nil
}

// Update modifies an existing response in the database.
func (r *ResponseRepository) Update(ctx context.Context, resp *domain.Response) error {
	resp.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE responses
		SET content = $1, tone = $2, is_posted = $3, posted_at = $4, updated_at = $5
		WHERE id = $6`

	ct, err := r.db.Exec(ctx, query,
		resp.Content,
		resp.Tone,
		resp.IsPosted,
		resp.PostedAt,
		resp.UpdatedAt,
		resp.ID,
	)
	if err != nil {
		return fmt.Errorf("update response: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("response", resp.ID)
	}

	return nil
}

// Delete removes a response by its ID.
func (r *ResponseRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM responses WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete response: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("response", id)
	}

	return nil
}
