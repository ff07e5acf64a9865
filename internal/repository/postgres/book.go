package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/domain"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/database"
	apperrors "github.com/SarjuThakkar/TreehouseLibrary/pkg/errors"
)

// BookRepository implements repository.BookRepository using PostgreSQL.
type BookRepository struct {
	pool database.DBTX
}

// NewBookRepository creates a new PostgreSQL-backed book repository.
func NewBookRepository(pool database.DBTX) *BookRepository {
	return &BookRepository{pool: pool}
}

// Create inserts a new book.
func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `
		INSERT INTO books (isbn, title, author, our_review, our_rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		b.ISBN,
		b.Title,
		b.Author,
		b.OurReview,
		b.OurRating,
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	return nil
}

// GetByISBN retrieves a book by its ISBN.
func (r *BookRepository) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	query := `
		SELECT isbn, title, author, our_review, our_rating, created_at
		FROM books
		WHERE isbn = $1`

	var b domain.Book
	err := r.pool.QueryRow(ctx, query, isbn).Scan(
		&b.ISBN,
		&b.Title,
		&b.Author,
		&b.OurReview,
		&b.OurRating,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}

	return &b, nil
}

// Update modifies an existing book's details.
func (r *BookRepository) Update(ctx context.Context, b *domain.Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, our_review = $3, our_rating = $4
		WHERE isbn = $5`

	ct, err := r.pool.Exec(ctx, query,
		b.Title,
		b.Author,
		b.OurReview,
		b.OurRating,
		b.ISBN,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("book", b.ISBN)
	}

	return nil
}

// Delete removes a book. Foreign keys restrict deletion of books with
// checkout or rating history.
func (r *BookRepository) Delete(ctx context.Context, isbn string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM books WHERE isbn = $1`, isbn)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.Conflict("book has checkout or rating history")
		}
		return fmt.Errorf("delete book: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("book", isbn)
	}

	return nil
}

// List returns all books ordered by title.
func (r *BookRepository) List(ctx context.Context) ([]domain.Book, error) {
	query := `
		SELECT isbn, title, author, our_review, our_rating, created_at
		FROM books
		ORDER BY title`

	return r.scanBooks(ctx, query)
}

// ListAddedSince returns books created on or after the cutoff.
func (r *BookRepository) ListAddedSince(ctx context.Context, cutoff time.Time) ([]domain.Book, error) {
	query := `
		SELECT isbn, title, author, our_review, our_rating, created_at
		FROM books
		WHERE created_at >= $1
		ORDER BY created_at`

	return r.scanBooks(ctx, query, cutoff)
}

// IsCheckedOut reports whether an open checkout exists for the ISBN. This is
// an explicit existence query rather than a load of the checkout relation.
func (r *BookRepository) IsCheckedOut(ctx context.Context, isbn string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM checkouts
			WHERE book_isbn = $1 AND returned_at IS NULL
		)`

	var checkedOut bool
	if err := r.pool.QueryRow(ctx, query, isbn).Scan(&checkedOut); err != nil {
		return false, fmt.Errorf("check open checkout: %w", err)
	}

	return checkedOut, nil
}

// isForeignKeyViolation checks if the error is a PostgreSQL foreign key constraint violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23503")
}

// scanBooks executes a query expected to return book rows.
func (r *BookRepository) scanBooks(ctx context.Context, query string, args ...any) ([]domain.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := make([]domain.Book, 0)

	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(
			&b.ISBN,
			&b.Title,
			&b.Author,
			&b.OurReview,
			&b.OurRating,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate book rows: %w", err)
	}

	return books, nil
}
