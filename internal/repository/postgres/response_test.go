package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ReviewDeskGo/internal/domain"
	"github.com/utafrali/ReviewDeskGo/pkg/database"
	apperrors "github.com/utafrali/ReviewDeskGo/pkg/errors"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func setupResponseRepo(t *testing.T) (*ResponseRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewResponseRepository(mock)
	return repo, mock
}

func sampleDBResponse() *domain.Response {
	now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Response{
		ID:            "resp-001",
		ReviewID:      "rev-001",
		UserID:        "user-001",
		Content:       "Thank you for your feedback, we are sorry about the wait.",
		Tone:          domain.ToneApologetic,
		IsAIGenerated: true,
		Model:         "gpt-3.5-turbo",
		IsPosted:      false,
		PostedAt:      nil,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func responseColumnNames() []string {
	return []string{
		"id", "review_id", "user_id", "content", "tone", "is_ai_generated",
		"model", "is_posted", "posted_at", "created_at", "updated_at",
	}
}

func responseRow(resp *domain.Response) *pgxmock.Rows {
	return pgxmock.NewRows(responseColumnNames()).
		AddRow(
			resp.ID, resp.ReviewID, resp.UserID, resp.Content, resp.Tone,
			resp.IsAIGenerated, resp.Model, resp.IsPosted, resp.PostedAt,
			resp.CreatedAt, resp.UpdatedAt,
		)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestResponseRepository_Create_Success(t *testing.T) {
	repo, mock := setupResponseRepo(t)
	defer mock.Close()

	resp := sampleDBResponse()

	mock.ExpectExec("INSERT INTO responses").
		WithArgs(
			resp.ID, resp.ReviewID, resp.UserID, resp.Content, resp.Tone,
			resp.IsAIGenerated, resp.Model, resp.IsPosted, resp.PostedAt,
			resp.CreatedAt, resp.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), resp)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseRepository_Create_ExecError(t *testing.T) {
	repo, mock := setupResponseRepo(t)
	defer mock.Close()

	resp := sampleDBResponse()

	mock.ExpectExec("INSERT INTO responses").
		WithArgs(
			resp.ID, resp.ReviewID, resp.UserID, resp.Content, resp.Tone,
			resp.IsAIGenerated, resp.Model, resp.IsPosted, resp.PostedAt,
			resp.CreatedAt, resp.UpdatedAt,
		).
		WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), resp)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert response")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestResponseRepository_GetByID_Success(t *testing.T) {
	repo, mock := setupResponseRepo(t)
	defer mock.Close()

	resp := sampleDBResponse()

	mock.ExpectQuery("SELECT .+ FROM responses").
		WithArgs(resp.ID).
		WillReturnRows(responseRow(resp))

	got, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
	assert.Equal(t, resp.Content, got.Content)
	assert.True(t, got.IsAIGenerated)
	assert.False(t, got.IsPosted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupResponseRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM responses").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(responseColumnNames()))

	got, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ListByReview
// ---------------------------------------------------------------------------

func TestResponseRepository_ListByReview_NewestFirst(t *testing.T) {
	repo, mock := setupResponseRepo(t)
	defer mock.Close()

	r1 := sampleDBResponse()
	r2 := sampleDBResponse()
	r2.ID = "resp-002"
	r2.CreatedAt = r1.CreatedAt.Add(-time.Hour)

	rows := pgxmock.NewRows(responseColumnNames()).
		AddRow(
			r1.ID, r1.ReviewID, r1.UserID, r1.Content, r1.Tone,
			r1.IsAIGenerated, r1.Model, r1.IsPosted, r1.PostedAt,
			r1.CreatedAt, r1.UpdatedAt,
		).
		AddRow(
			r2.ID, r2.ReviewID, r2.UserID, r2.Content, r2.Tone,
			r2.IsAIGenerated, r2.Model, r2.IsPosted, r2.PostedAt,
			r2.CreatedAt, r2.UpdatedAt,
		)

	mock.ExpectQuery("SELECT .+ FROM responses").
		WithArgs("rev-001").
		WillReturnRows(rows)

	responses, err := repo.ListByReview(context.Background(), "rev-001")
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "resp-001", responses[0].ID)
	assert.Equal(t, "resp-002", responses[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseRepository_ListByReview_Empty(t *testing.T) {
	repo, mock := setupResponseRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM responses").
		WithArgs("rev-001").
		WillReturnRows(pgxmock.NewRows(responseColumnNames()))

	responses, err := repo.ListByReview(context.Background(), "rev-001")
	require.NoError(t, err)
	assert.NotNil(t, responses) // should be [] not nil
	assert.Empty(t, responses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestResponseRepository_Update_Success(t *testing.T) {
	repo, mock := setupResponseRepo(t)
	defer mock.Close()

	resp := sampleDBResponse()
	postedAt := time.Date(2026, 8, 11, 10, 0, 0, 0, time.UTC)
	resp.IsPosted = true
	resp.PostedAt = &postedAt

	mock.ExpectExec("UPDATE responses").
		WithArgs(
			resp.Content, resp.Tone, resp.IsPosted, resp.PostedAt,
			pgxmock.AnyArg(), // updated_at is set to time.Now() inside Update
			resp.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), resp)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseRepository_Update_NotFound(t *testing.T) {
	repo, mock := setupResponseRepo(t)
	defer mock.Close()

	resp := sampleDBResponse()

	mock.ExpectExec("UPDATE responses").
		WithArgs(
			resp.Content, resp.Tone, resp.IsPosted, resp.PostedAt,
			pgxmock.AnyArg(), // updated_at
			resp.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), resp)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestResponseRepository_Delete_Success(t *testing.T) {
	repo, mock := setupResponseRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM responses").
		WithArgs("resp-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "resp-001")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseRepository_Delete_NotFound(t *testing.T) {
	repo, mock := setupResponseRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM responses").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
