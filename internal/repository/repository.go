package repository

import (
	"context"
	"time"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/domain"
)

// BookRepository defines persistence operations for books.
type BookRepository interface {
	// Create inserts a new book.
	Create(ctx context.Context, book *domain.Book) error

	// GetByISBN retrieves a book by its ISBN.
	GetByISBN(ctx context.Context, isbn string) (*domain.Book, error)

	// Update modifies an existing book's details.
	Update(ctx context.Context, book *domain.Book) error

	// Delete removes a book. Books with checkout or rating history are
	// protected by foreign keys and cannot be deleted.
	Delete(ctx context.Context, isbn string) error

	// List returns all books ordered by title.
	List(ctx context.Context) ([]domain.Book, error)

	// ListAddedSince returns books created on or after the cutoff.
	ListAddedSince(ctx context.Context, cutoff time.Time) ([]domain.Book, error)

	// IsCheckedOut reports whether an open checkout exists for the ISBN.
	IsCheckedOut(ctx context.Context, isbn string) (bool, error)
}

// PatronRepository defines persistence operations for patrons.
type PatronRepository interface {
	// Create inserts a new patron.
	Create(ctx context.Context, patron *domain.Patron) error

	// GetByID retrieves a patron by id.
	GetByID(ctx context.Context, id string) (*domain.Patron, error)

	// GetByName retrieves a patron by exact name match.
	GetByName(ctx context.Context, name string) (*domain.Patron, error)

	// ListAll returns all patrons.
	ListAll(ctx context.Context) ([]domain.Patron, error)

	// SearchByName returns patrons whose name contains the query,
	// case-insensitively, up to limit rows.
	SearchByName(ctx context.Context, query string, limit int) ([]domain.Patron, error)
}

// CheckoutRepository defines persistence operations for checkouts.
type CheckoutRepository interface {
	// Create inserts a new open checkout.
	Create(ctx context.Context, checkout *domain.Checkout) error

	// GetByID retrieves a checkout by id.
	GetByID(ctx context.Context, id string) (*domain.Checkout, error)

	// GetOpenByBook retrieves the single open checkout for a book, if any.
	GetOpenByBook(ctx context.Context, isbn string) (*domain.Checkout, error)

	// MarkReturned sets the returned timestamp on a checkout.
	MarkReturned(ctx context.Context, id string, at time.Time) error

	// SetLastReminderSent updates the last-reminder timestamp.
	SetLastReminderSent(ctx context.Context, id string, at time.Time) error

	// ListOpen returns all open checkouts.
	ListOpen(ctx context.Context) ([]domain.Checkout, error)

	// ListOverdue returns open checkouts checked out before the cutoff.
	ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.Checkout, error)

	// ListHistory returns the most recent checkouts, newest first.
	ListHistory(ctx context.Context, limit int) ([]domain.Checkout, error)
}

// RatingRepository defines persistence operations for ratings.
type RatingRepository interface {
	// Create inserts a new rating.
	Create(ctx context.Context, rating *domain.Rating) error

	// ListByBook returns ratings for a book, newest first.
	ListByBook(ctx context.Context, isbn string) ([]domain.Rating, error)
}

// ReminderLogRepository defines persistence operations for the reminder audit trail.
type ReminderLogRepository interface {
	// Create appends a reminder log entry.
	Create(ctx context.Context, log *domain.ReminderLog) error

	// ListRecent returns the most recent log entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.ReminderLog, error)
}

// PatronSearchCache is an optional read-through cache for patron
// autocomplete queries. Implementations must degrade silently: a miss and a
// cache failure look the same to the caller.
type PatronSearchCache interface {
	// Get returns cached results for a query, and whether they were found.
	Get(ctx context.Context, query string) ([]domain.Patron, bool)

	// Set stores results for a query.
	Set(ctx context.Context, query string, patrons []domain.Patron)
}
