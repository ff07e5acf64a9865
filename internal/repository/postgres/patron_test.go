package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/domain"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/database"
	apperrors "github.com/SarjuThakkar/TreehouseLibrary/pkg/errors"
)

func setupPatronRepo(t *testing.T) (*PatronRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewPatronRepository(mock)
	return repo, mock
}

func samplePatron() *domain.Patron {
	return &domain.Patron{
		ID:        "f2b3a6d8-2222-4f4b-9a6c-000000000002",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		CreatedAt: time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
	}
}

func patronColumns() []string {
	return []string{"id", "name", "email", "created_at"}
}

func patronRow(p *domain.Patron) *pgxmock.Rows {
	return pgxmock.NewRows(patronColumns()).
		AddRow(p.ID, p.Name, p.Email, p.CreatedAt)
}

func TestPatronRepository_Create_Success(t *testing.T) {
	repo, mock := setupPatronRepo(t)
	defer mock.Close()

	p := samplePatron()

	mock.ExpectExec("INSERT INTO patrons").
		WithArgs(p.ID, p.Name, p.Email, p.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatronRepository_GetByName_Found(t *testing.T) {
	repo, mock := setupPatronRepo(t)
	defer mock.Close()

	p := samplePatron()

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs(p.Name).
		WillReturnRows(patronRow(p))

	got, err := repo.GetByName(context.Background(), p.Name)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Email, got.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatronRepository_GetByName_NotFound(t *testing.T) {
	repo, mock := setupPatronRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs("Nobody").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByName(context.Background(), "Nobody")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatronRepository_SearchByName_PassesQueryAndLimit(t *testing.T) {
	repo, mock := setupPatronRepo(t)
	defer mock.Close()

	p := samplePatron()

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs("ada", 10).
		WillReturnRows(patronRow(p))

	patrons, err := repo.SearchByName(context.Background(), "ada", 10)
	require.NoError(t, err)
	require.Len(t, patrons, 1)
	assert.Equal(t, "Ada Lovelace", patrons[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatronRepository_SearchByName_NoMatches(t *testing.T) {
	repo, mock := setupPatronRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs("zzz", 10).
		WillReturnRows(pgxmock.NewRows(patronColumns()))

	patrons, err := repo.SearchByName(context.Background(), "zzz", 10)
	require.NoError(t, err)
	assert.Empty(t, patrons)
	assert.NotNil(t, patrons)
	assert.NoError(t, mock.ExpectationsWereMet())
}
