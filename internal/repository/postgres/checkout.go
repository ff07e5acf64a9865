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

// CheckoutRepository implements repository.CheckoutRepository using PostgreSQL.
type CheckoutRepository struct {
	pool database.DBTX
}

// NewCheckoutRepository creates a new PostgreSQL-backed checkout repository.
func NewCheckoutRepository(pool database.DBTX) *CheckoutRepository {
	return &CheckoutRepository{pool: pool}
}

// Create inserts a new open checkout. The partial unique index on
// (book_isbn) WHERE returned_at IS NULL rejects a second open checkout for
// the same book.
func (r *CheckoutRepository) Create(ctx context.Context, c *domain.Checkout) error {
	query := `
		INSERT INTO checkouts (id, book_isbn, patron_id, checked_out_at, returned_at, last_reminder_sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.BookISBN,
		c.PatronID,
		c.CheckedOutAt,
		c.ReturnedAt,
		c.LastReminderSentAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("book already has an open checkout")
		}
		return fmt.Errorf("insert checkout: %w", err)
	}

	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

// GetByID retrieves a checkout by id.
func (r *CheckoutRepository) GetByID(ctx context.Context, id string) (*domain.Checkout, error) {
	query := `
		SELECT id, book_isbn, patron_id, checked_out_at, returned_at, last_reminder_sent_at
		FROM checkouts
		WHERE id = $1`

	return r.scanCheckout(ctx, query, id)
}

// GetOpenByBook retrieves the single open checkout for a book. Returns
// apperrors.ErrNotFound when the book is not currently out.
func (r *CheckoutRepository) GetOpenByBook(ctx context.Context, isbn string) (*domain.Checkout, error) {
	query := `
		SELECT id, book_isbn, patron_id, checked_out_at, returned_at, last_reminder_sent_at
		FROM checkouts
		WHERE book_isbn = $1 AND returned_at IS NULL`

	return r.scanCheckout(ctx, query, isbn)
}

// MarkReturned sets the returned timestamp on a checkout.
func (r *CheckoutRepository) MarkReturned(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE checkouts
		SET returned_at = $1
		WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("mark checkout returned: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("checkout", id)
	}

	return nil
}

// SetLastReminderSent updates the last-reminder timestamp on a checkout.
func (r *CheckoutRepository) SetLastReminderSent(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE checkouts
		SET last_reminder_sent_at = $1
		WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("set last reminder sent: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("checkout", id)
	}

	return nil
}

// ListOpen returns all open checkouts, oldest first.
func (r *CheckoutRepository) ListOpen(ctx context.Context) ([]domain.Checkout, error) {
	query := `
		SELECT id, book_isbn, patron_id, checked_out_at, returned_at, last_reminder_sent_at
		FROM checkouts
		WHERE returned_at IS NULL
		ORDER BY checked_out_at`

	return r.scanCheckouts(ctx, query)
}

// ListOverdue returns open checkouts checked out strictly before the cutoff.
func (r *CheckoutRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.Checkout, error) {
	query := `
		SELECT id, book_isbn, patron_id, checked_out_at, returned_at, last_reminder_sent_at
		FROM checkouts
		WHERE returned_at IS NULL AND checked_out_at < $1
		ORDER BY checked_out_at`

	return r.scanCheckouts(ctx, query, cutoff)
}

// ListHistory returns the most recent checkouts, newest first.
func (r *CheckoutRepository) ListHistory(ctx context.Context, limit int) ([]domain.Checkout, error) {
	query := `
		SELECT id, book_isbn, patron_id, checked_out_at, returned_at, last_reminder_sent_at
		FROM checkouts
		ORDER BY checked_out_at DESC
		LIMIT $1`

	return r.scanCheckouts(ctx, query, limit)
}

// scanCheckout executes a query expected to return a single checkout row.
func (r *CheckoutRepository) scanCheckout(ctx context.Context, query string, args ...any) (*domain.Checkout, error) {
	var c domain.Checkout
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID,
		&c.BookISBN,
		&c.PatronID,
		&c.CheckedOutAt,
		&c.ReturnedAt,
		&c.LastReminderSentAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan checkout: %w", err)
	}

	return &c, nil
}

// scanCheckouts executes a query expected to return multiple checkout rows.
func (r *CheckoutRepository) scanCheckouts(ctx context.Context, query string, args ...any) ([]domain.Checkout, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query checkouts: %w", err)
	}
	defer rows.Close()

	checkouts := make([]domain.Checkout, 0)

	for rows.Next() {
		var c domain.Checkout
		if err := rows.Scan(
			&c.ID,
			&c.BookISBN,
			&c.PatronID,
			&c.CheckedOutAt,
			&c.ReturnedAt,
			&c.LastReminderSentAt,
		); err != nil {
			return nil, fmt.Errorf("scan checkout row: %w", err)
		}
		checkouts = append(checkouts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkout rows: %w", err)
	}

	return checkouts, nil
}
