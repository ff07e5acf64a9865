package postgres

import (
	"context"
	"errors"
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

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func setupBookRepo(t *testing.T) (*BookRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewBookRepository(mock)
	return repo, mock
}

func sampleBook() *domain.Book {
	review := "A staff favorite."
	rating := 5
	return &domain.Book{
		ISBN:      "9780143127741",
		Title:     "The Boys in the Boat",
		Author:    "Daniel James Brown",
		OurReview: &review,
		OurRating: &rating,
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func bookColumns() []string {
	return []string{"isbn", "title", "author", "our_review", "our_rating", "created_at"}
}

func bookRow(b *domain.Book) *pgxmock.Rows {
	return pgxmock.NewRows(bookColumns()).
		AddRow(b.ISBN, b.Title, b.Author, b.OurReview, b.OurRating, b.CreatedAt)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestBookRepository_Create_Success(t *testing.T) {
	repo, mock := setupBookRepo(t)
	defer mock.Close()

	b := sampleBook()

	mock.ExpectExec("INSERT INTO books").
		WithArgs(b.ISBN, b.Title, b.Author, b.OurReview, b.OurRating, b.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), b)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_Create_DBError(t *testing.T) {
	repo, mock := setupBookRepo(t)
	defer mock.Close()

	b := sampleBook()

	mock.ExpectExec("INSERT INTO books").
		WithArgs(b.ISBN, b.Title, b.Author, b.OurReview, b.OurRating, b.CreatedAt).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), b)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByISBN
// ---------------------------------------------------------------------------

func TestBookRepository_GetByISBN_Found(t *testing.T) {
	repo, mock := setupBookRepo(t)
	defer mock.Close()

	b := sampleBook()

	mock.ExpectQuery("SELECT isbn, title, author").
		WithArgs(b.ISBN).
		WillReturnRows(bookRow(b))

	got, err := repo.GetByISBN(context.Background(), b.ISBN)
	require.NoError(t, err)
	assert.Equal(t, b.ISBN, got.ISBN)
	assert.Equal(t, b.Title, got.Title)
	require.NotNil(t, got.OurRating)
	assert.Equal(t, 5, *got.OurRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_GetByISBN_NotFound(t *testing.T) {
	repo, mock := setupBookRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT isbn, title, author").
		WithArgs("0000000000").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByISBN(context.Background(), "0000000000")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestBookRepository_Update_NotFound(t *testing.T) {
	repo, mock := setupBookRepo(t)
	defer mock.Close()

	b := sampleBook()

	mock.ExpectExec("UPDATE books").
		WithArgs(b.Title, b.Author, b.OurReview, b.OurRating, b.ISBN).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), b)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_Delete_Success(t *testing.T) {
	repo, mock := setupBookRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM books").
		WithArgs("9780143127741").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "9780143127741")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_Delete_NotFound(t *testing.T) {
	repo, mock := setupBookRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM books").
		WithArgs("0000000000").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "0000000000")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_Delete_WithHistoryIsConflict(t *testing.T) {
	repo, mock := setupBookRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM books").
		WithArgs("9780143127741").
		WillReturnError(errors.New("ERROR: update or delete on table \"books\" violates foreign key constraint (SQLSTATE 23503)"))

	err := repo.Delete(context.Background(), "9780143127741")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// List / ListAddedSince
// ---------------------------------------------------------------------------

func TestBookRepository_List_ReturnsAll(t *testing.T) {
	repo, mock := setupBookRepo(t)
	defer mock.Close()

	b := sampleBook()

	mock.ExpectQuery("SELECT isbn, title, author").
		WillReturnRows(bookRow(b))

	books, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, b.ISBN, books[0].ISBN)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_ListAddedSince_Empty(t *testing.T) {
	repo, mock := setupBookRepo(t)
	defer mock.Close()

	cutoff := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT isbn, title, author").
		WithArgs(cutoff).
		WillReturnRows(pgxmock.NewRows(bookColumns()))

	books, err := repo.ListAddedSince(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.NotNil(t, books)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// IsCheckedOut
// ---------------------------------------------------------------------------

func TestBookRepository_IsCheckedOut(t *testing.T) {
	repo, mock := setupBookRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("9780143127741").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	checkedOut, err := repo.IsCheckedOut(context.Background(), "9780143127741")
	require.NoError(t, err)
	assert.True(t, checkedOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}
