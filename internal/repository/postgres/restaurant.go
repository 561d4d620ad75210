package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/ReviewDeskGo/internal/domain"
	apperrors "github.com/utafrali/ReviewDeskGo/pkg/errors"
)

// RestaurantRepository implements repository.RestaurantRepository using PostgreSQL.
type RestaurantRepository struct {
	db DB
}

// NewRestaurantRepository creates a new PostgreSQL-backed restaurant repository.
func NewRestaurantRepository(db DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

const restaurantColumns = `id, name, slug, address, place_id, created_at, updated_at`

// Create inserts a new restaurant into the database.
func (r *RestaurantRepository) Create(ctx context.Context, rest *domain.Restaurant) error {
	query := `
		INSERT INTO restaurants (id, name, slug, address, place_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		rest.ID,
		rest.Name,
		rest.Slug,
		rest.Address,
		rest.PlaceID,
		rest.CreatedAt,
		rest.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("restaurant", "slug", rest.Slug)
		}
		return fmt.Errorf("insert restaurant: %w", err)
	}

	return nil
}

// GetByID retrieves a restaurant by its ID.
func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM restaurants
		WHERE id = $1`, restaurantColumns)

	var rest domain.Restaurant
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rest.ID,
		&rest.Name,
		&rest.Slug,
		&rest.Address,
		&rest.PlaceID,
		&rest.CreatedAt,
		&rest.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan restaurant: %w", err)
	}

	return &rest, nil
}

// List returns all restaurants ordered by name.
func (r *RestaurantRepository) List(ctx context.Context) ([]domain.Restaurant, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM restaurants
		ORDER BY name`, restaurantColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(
			&rest.ID,
			&rest.Name,
			&rest.Slug,
			&rest.Address,
			&rest.PlaceID,
			&rest.CreatedAt,
			&rest.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan restaurant row: %w", err)
		}
		restaurants = append(restaurants, rest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurant rows: %w", err)
	}

	if restaurants == nil {
		restaurants = []domain.Restaurant{}
	}

	return restaurants, nil
}
