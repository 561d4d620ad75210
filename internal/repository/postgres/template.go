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
	"github.com/utafrali/ReviewDeskGo/internal/repository"
	apperrors "github.com/utafrali/ReviewDeskGo/pkg/errors"
)

// TemplateRepository implements repository.TemplateRepository using PostgreSQL.
type TemplateRepository struct {
	db DB
}

// NewTemplateRepository creates a new PostgreSQL-backed template repository.
func NewTemplateRepository(db DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = `id, title, content, tone, category, variables, is_active,
	   created_at, updated_at`

// Create inserts a new template into the database.
func (r *TemplateRepository) Create(ctx context.Context, t *domain.ResponseTemplate) error {
	variablesJSON, err := json.Marshal(t.Variables)
	if err != nil {
		return fmt.Errorf("marshal variables: %w", err)
	}

	query := `
		INSERT INTO response_templates (
			id, title, content, tone, category, variables, is_active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.Exec(ctx, query,
		t.ID,
		t.Title,
		t.Content,
		t.Tone,
		t.Category,
		variablesJSON,
		t.IsActive,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("template", "title", t.Title)
		}
		return fmt.Errorf("insert template: %w", err)
	}

	return nil
}

// GetByID retrieves a template by its ID.
func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*domain.ResponseTemplate, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM response_templates
		WHERE id = $1`, templateColumns)

	t, err := scanTemplate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan template: %w", err)
	}
	return t, nil
}

// List returns templates matching the given filter, newest first.
func (r *TemplateRepository) List(ctx context.Context, filter repository.TemplateFilter) ([]domain.ResponseTemplate, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *filter.Category)
		argIndex++
	}

	if filter.Tone != nil {
		conditions = append(conditions, fmt.Sprintf("tone = $%d", argIndex))
		args = append(args, *filter.Tone)
		argIndex++
	}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argIndex))
		args = append(args, *filter.Active)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM response_templates
		%s
		ORDER BY created_at DESC`, templateColumns, whereClause)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.ResponseTemplate
	for rows.Next() {
		var (
			t             domain.ResponseTemplate
			variablesJSON []byte
		)

		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Content,
			&t.Tone,
			&t.Category,
			&variablesJSON,
			&t.IsActive,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan template row: %w", err)
		}

		if err := unmarshalVariables(variablesJSON, &t); err != nil {
			return nil, err
		}

		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate template rows: %w", err)
	}

	if templates == nil {
		templates = []domain.ResponseTemplate{}
	}

	return templates, nil
}

// Update modifies an existing template in the database.
func (r *TemplateRepository) Update(ctx context.Context, t *domain.ResponseTemplate) error {
	variablesJSON, err := json.Marshal(t.Variables)
	if err != nil {
		return fmt.Errorf("marshal variables: %w", err)
	}

	t.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE response_templates
		SET title = $1, content = $2, tone = $3, category = $4, variables = $5,
		    is_active = $6, updated_at = $7
		WHERE id = $8`

	ct, err := r.db.Exec(ctx, query,
		t.Title,
		t.Content,
		t.Tone,
		t.Category,
		variablesJSON,
		t.IsActive,
		t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("template", "title", t.Title)
		}
		return fmt.Errorf("update template: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("template", t.ID)
	}

	return nil
}

// Delete removes a template by its ID.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM response_templates WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("template", id)
	}

	return nil
}

// scanTemplate reads a single template row.
func scanTemplate(row pgx.Row) (*domain.ResponseTemplate, error) {
	var (
		t             domain.ResponseTemplate
		variablesJSON []byte
	)

	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Content,
		&t.Tone,
		&t.Category,
		&variablesJSON,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := unmarshalVariables(variablesJSON, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

func unmarshalVariables(data []byte, t *domain.ResponseTemplate) error {
	if data != nil {
		if err := json.Unmarshal(data, &t.Variables); err != nil {
			return fmt.Errorf("unmarshal variables: %w", err)
		}
	}
	if t.Variables == nil {
		t.Variables = []string{}
	}
	return nil
}
