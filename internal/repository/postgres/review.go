package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/ReviewDeskGo/internal/domain"
	"github.com/utafrali/ReviewDeskGo/pkg/database"
	apperrors "github.com/utafrali/ReviewDeskGo/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db DB
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, restaurant_id, author_name, author_url, profile_photo_url,
	   rating, text, published_at, sentiment, sentiment_score, keywords,
	   status, created_at, updated_at`

// escapeLike escapes LIKE metacharacters so a search term matches as a
// literal substring.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Create inserts a new review into the database.
func (r *ReviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	keywordsJSON, err := json.Marshal(rev.Keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}

	query := `
		INSERT INTO reviews (
			id, restaurant_id, author_name, author_url, profile_photo_url,
			rating, text, published_at, sentiment, sentiment_score, keywords,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.db.Exec(ctx, query,
		rev.ID,
		rev.RestaurantID,
		rev.AuthorName,
		rev.AuthorURL,
		rev.ProfilePhotoURL,
		rev.Rating,
		rev.Text,
		rev.PublishedAt,
		rev.Sentiment,
		rev.SentimentScore,
		keywordsJSON,
		rev.Status,
		rev.CreatedAt,
		rev.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("review", "id", rev.ID)
		}
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews
		WHERE id = $1`, reviewColumns)

	rev, err := scanReview(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return rev, nil
}

// List returns reviews matching the given filter with the total count,
// newest first by publication time.
func (r *ReviewRepository) List(ctx context.Context, filter domain.Filter, page, perPage int) (_ []domain.Review, _ int, err error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.RestaurantID != "" {
		conditions = append(conditions, fmt.Sprintf("restaurant_id = $%d", argIndex))
		args = append(args, filter.RestaurantID)
		argIndex++
	}

	if filter.Rating != nil {
		conditions = append(conditions, fmt.Sprintf("rating = $%d", argIndex))
		args = append(args, *filter.Rating)
		argIndex++
	}

	if filter.Sentiment != "" {
		conditions = append(conditions, fmt.Sprintf("sentiment = $%d", argIndex))
		args = append(args, filter.Sentiment)
		argIndex++
	}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if start, ok := domain.DateRangeStart(filter.DateRange, time.Now().UTC()); ok {
		conditions = append(conditions, fmt.Sprintf("published_at >= $%d", argIndex))
		args = append(args, start)
		argIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(text ILIKE $%d OR author_name ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s,
			   count(*) OVER() AS total_count
		FROM reviews
		%s
		ORDER BY published_at DESC
		LIMIT $%d OFFSET $%d`,
		reviewColumns, whereClause, argIndex, argIndex+1,
	)

	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	args = append(args, limit, offset)

	ctx, end := database.TraceQuery(ctx, "ListReviews", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var (
			rev          domain.Review
			keywordsJSON []byte
		)

		if err := rows.Scan(
			&rev.ID,
			&rev.RestaurantID,
			&rev.AuthorName,
			&rev.AuthorURL,
			&rev.ProfilePhotoURL,
			&rev.Rating,
			&rev.Text,
			&rev.PublishedAt,
			&rev.Sentiment,
			&rev.SentimentScore,
			&keywordsJSON,
			&rev.Status,
			&rev.CreatedAt,
			&rev.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}

		if err := unmarshalKeywords(keywordsJSON, &rev); err != nil {
			return nil, 0, err
		}

		reviews = append(reviews, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}

// ListByRestaurant returns all reviews for a restaurant published at or
// after since, newest first. A nil since means no lower bound.
func (r *ReviewRepository) ListByRestaurant(ctx context.Context, restaurantID string, since *time.Time) ([]domain.Review, error) {
	var (
		args  = []any{restaurantID}
		query = fmt.Sprintf(`
		SELECT %s
		FROM reviews
		WHERE restaurant_id = $1`, reviewColumns)
	)

	if since != nil {
		query += " AND published_at >= $2"
		args = append(args, *since)
	}
	query += "\n\t\tORDER BY published_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews by restaurant: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var (
			rev          domain.Review
			keywordsJSON []byte
		)

		if err := rows.Scan(
			&rev.ID,
			&rev.RestaurantID,
			&rev.AuthorName,
			&rev.AuthorURL,
			&rev.ProfilePhotoURL,
			&rev.Rating,
			&rev.Text,
			&rev.PublishedAt,
			&rev.Sentiment,
			&rev.SentimentScore,
			&keywordsJSON,
			&rev.Status,
			&rev.CreatedAt,
			&rev.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}

		if err := unmarshalKeywords(keywordsJSON, &rev); err != nil {
			return nil, err
		}

		reviews = append(reviews, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}

// UpdateStatus sets the lifecycle status of a review.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE reviews
		SET status = $1, updated_at = NOW()
		WHERE id = $2`

	ct, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update review status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}

// scanReview reads a single review row.
func scanReview(row pgx.Row) (*domain.Review, error) {
	var (
		rev          domain.Review
		keywordsJSON []byte
	)

	if err := row.Scan(
		&rev.ID,
		&rev.RestaurantID,
		&rev.AuthorName,
		&rev.AuthorURL,
		&rev.ProfilePhotoURL,
		&rev.Rating,
		&rev.Text,
		&rev.PublishedAt,
		&rev.Sentiment,
		&rev.SentimentScore,
		&keywordsJSON,
		&rev.Status,
		&rev.CreatedAt,
		&rev.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := unmarshalKeywords(keywordsJSON, &rev); err != nil {
		return nil, err
	}

	return &rev, nil
}

func unmarshalKeywords(data []byte, rev *domain.Review) error {
	if data != nil {
		if err := json.Unmarshal(data, &rev.Keywords); err != nil {
			return fmt.Errorf("unmarshal keywords: %w", err)
		}
	}
	if rev.Keywords == nil {
		rev.Keywords = []string{}
	}
	return nil
}
