package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/domain"
	"github.com/SarjuThakkar/TreehouseLibrary/internal/repository"
	apperrors "github.com/SarjuThakkar/TreehouseLibrary/pkg/errors"
)

// Default page sizes for the admin dashboard, matching the original views.
const (
	defaultHistoryLimit     = 100
	defaultReminderLogLimit = 50
	patronSearchLimit       = 10
)

// LibraryService implements the scan routing state machine, checkout/return
// transitions, book administration, and patron search.
type LibraryService struct {
	books       repository.BookRepository
	patrons     repository.PatronRepository
	checkouts   repository.CheckoutRepository
	ratings     repository.RatingRepository
	reminderLog repository.ReminderLogRepository
	searchCache repository.PatronSearchCache
	logger      *slog.Logger
}

// NewLibraryService creates a new library service. searchCache may be nil;
// patron search then always hits the database.
func NewLibraryService(
	books repository.BookRepository,
	patrons repository.PatronRepository,
	checkouts repository.CheckoutRepository,
	ratings repository.RatingRepository,
	reminderLog repository.ReminderLogRepository,
	searchCache repository.PatronSearchCache,
	logger *slog.Logger,
) *LibraryService {
	return &LibraryService{
		books:       books,
		patrons:     patrons,
		checkouts:   checkouts,
		ratings:     ratings,
		reminderLog: reminderLog,
		searchCache: searchCache,
		logger:      logger,
	}
}

// ScanResult is the outcome of routing a scanned ISBN.
type ScanResult struct {
	ISBN   string            `json:"isbn"`
	Action domain.ScanAction `json:"action"`
	Book   *domain.Book      `json:"book,omitempty"`
}

// Scan routes a scanned ISBN to the register, checkout, or return flow.
// It performs no writes.
func (s *LibraryService) Scan(ctx context.Context, isbn string) (*ScanResult, error) {
	isbn = domain.NormalizeISBN(isbn)
	if isbn == "" {
		return nil, apperrors.InvalidInput("isbn is required")
	}

	book, err := s.books.GetByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &ScanResult{ISBN: isbn, Action: domain.ScanActionRegister}, nil
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	book.IsCheckedOut, err = s.books.IsCheckedOut(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("resolve checked-out state: %w", err)
	}

	return &ScanResult{ISBN: isbn, Action: domain.RouteScan(book), Book: book}, nil
}

// RegisterBookInput holds the parameters for registering a new book.
type RegisterBookInput struct {
	ISBN      string
	Title     string
	Author    string
	OurReview *string
	OurRating *int
}

// RegisterBook creates a book on first scan of an unknown ISBN.
func (s *LibraryService) RegisterBook(ctx context.Context, input *RegisterBookInput) (*domain.Book, error) {
	isbn := domain.NormalizeISBN(input.ISBN)
	if isbn == "" {
		return nil, apperrors.InvalidInput("isbn is required")
	}
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Author == "" {
		return nil, apperrors.InvalidInput("author is required")
	}
	if input.OurRating != nil && !domain.IsValidCuratorRating(*input.OurRating) {
		return nil, apperrors.InvalidInput("our_rating must be between 1 and 5")
	}

	if _, err := s.books.GetByISBN(ctx, isbn); err == nil {
		return nil, apperrors.AlreadyExists("book", "isbn", isbn)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check existing book: %w", err)
	}

	book := &domain.Book{
		ISBN:      isbn,
		Title:     input.Title,
		Author:    input.Author,
		OurReview: input.OurReview,
		OurRating: input.OurRating,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.InfoContext(ctx, "book registered",
		slog.String("isbn", book.ISBN),
		slog.String("title", book.Title),
	)

	return book, nil
}

// BookDetail is a book together with its ratings and checked-out state.
type BookDetail struct {
	domain.Book
	Ratings []domain.Rating `json:"ratings"`
}

// GetBook retrieves a book with its checked-out state and ratings.
func (s *LibraryService) GetBook(ctx context.Context, isbn string) (*BookDetail, error) {
	isbn = domain.NormalizeISBN(isbn)

	book, err := s.books.GetByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("book", isbn)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	book.IsCheckedOut, err = s.books.IsCheckedOut(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("resolve checked-out state: %w", err)
	}

	ratings, err := s.ratings.ListByBook(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	return &BookDetail{Book: *book, Ratings: ratings}, nil
}

// ListBooks returns the full inventory ordered by title.
func (s *LibraryService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// UpdateBookInput holds the parameters for editing a book.
type UpdateBookInput struct {
	Title     string
	Author    string
	OurReview *string
	OurRating *int
}

// UpdateBook modifies a book's details.
func (s *LibraryService) UpdateBook(ctx context.Context, isbn string, input *UpdateBookInput) (*domain.Book, error) {
	isbn = domain.NormalizeISBN(isbn)
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Author == "" {
		return nil, apperrors.InvalidInput("author is required")
	}
	if input.OurRating != nil && !domain.IsValidCuratorRating(*input.OurRating) {
		return nil, apperrors.InvalidInput("our_rating must be between 1 and 5")
	}

	book, err := s.books.GetByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("book", isbn)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	book.Title = input.Title
	book.Author = input.Author
	book.OurReview = input.OurReview
	book.OurRating = input.OurRating

	if err := s.books.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	return book, nil
}

// DeleteBook removes a book from the library. Books with checkout or rating
// history are protected by foreign keys; deletion then fails with a conflict.
func (s *LibraryService) DeleteBook(ctx context.Context, isbn string) error {
	isbn = domain.NormalizeISBN(isbn)

	if err := s.books.Delete(ctx, isbn); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("book", isbn)
		}
		return fmt.Errorf("delete book: %w", err)
	}

	s.logger.InfoContext(ctx, "book deleted", slog.String("isbn", isbn))
	return nil
}

// CheckoutBook checks an available book out to a patron. The patron is
// looked up by exact name; if absent, one is created with the given name and
// email. An existing patron's email is intentionally left untouched.
func (s *LibraryService) CheckoutBook(ctx context.Context, isbn, patronName, patronEmail string) (*domain.Checkout, error) {
	isbn = domain.NormalizeISBN(isbn)
	if patronName == "" {
		return nil, apperrors.InvalidInput("patron_name is required")
	}

	if _, err := s.books.GetByISBN(ctx, isbn); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("book", isbn)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	checkedOut, err := s.books.IsCheckedOut(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("resolve checked-out state: %w", err)
	}
	if checkedOut {
		return nil, apperrors.Conflict(fmt.Sprintf("book %s is already checked out", isbn))
	}

	patron, err := s.patrons.GetByName(ctx, patronName)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("get patron: %w", err)
		}
		patron = &domain.Patron{
			ID:        uuid.New().String(),
			Name:      patronName,
			Email:     patronEmail,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.patrons.Create(ctx, patron); err != nil {
			return nil, fmt.Errorf("create patron: %w", err)
		}
		s.logger.InfoContext(ctx, "patron created",
			slog.String("patron_id", patron.ID),
			slog.String("name", patron.Name),
		)
	}

	checkout := &domain.Checkout{
		ID:           uuid.New().String(),
		BookISBN:     isbn,
		PatronID:     patron.ID,
		CheckedOutAt: time.Now().UTC(),
	}

	if err := s.checkouts.Create(ctx, checkout); err != nil {
		return nil, fmt.Errorf("create checkout: %w", err)
	}

	s.logger.InfoContext(ctx, "book checked out",
		slog.String("isbn", isbn),
		slog.String("patron_id", patron.ID),
	)

	return checkout, nil
}

// ReturnResult is the outcome of a return operation.
type ReturnResult struct {
	Checkout   *domain.Checkout `json:"checkout,omitempty"`
	Rating     *domain.Rating   `json:"rating,omitempty"`
	PatronName string           `json:"patron_name"`
}

// ReturnBook closes the open checkout for an ISBN, if one exists, and
// records a rating when a positive star rating is supplied. A return with no
// open checkout still succeeds, and the rating path can still fire; the
// rating is then attributed to "Anonymous".
func (s *LibraryService) ReturnBook(ctx context.Context, isbn string, starRating int, reviewContent string) (*ReturnResult, error) {
	isbn = domain.NormalizeISBN(isbn)
	if starRating != 0 && !domain.IsValidStarRating(starRating) {
		return nil, apperrors.InvalidInput("star_rating must be between 1 and 5")
	}

	result := &ReturnResult{PatronName: domain.AnonymousPatronName}

	var patronID *string

	checkout, err := s.checkouts.GetOpenByBook(ctx, isbn)
	switch {
	case err == nil:
		now := time.Now().UTC()
		if err := s.checkouts.MarkReturned(ctx, checkout.ID, now); err != nil {
			return nil, fmt.Errorf("mark returned: %w", err)
		}
		checkout.ReturnedAt = &now
		result.Checkout = checkout

		patronID = &checkout.PatronID
		if patron, perr := s.patrons.GetByID(ctx, checkout.PatronID); perr == nil {
			result.PatronName = patron.Name
		} else if !errors.Is(perr, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("get patron: %w", perr)
		}

		s.logger.InfoContext(ctx, "book returned",
			slog.String("isbn", isbn),
			slog.String("checkout_id", checkout.ID),
		)
	case errors.Is(err, apperrors.ErrNotFound):
		// No open checkout: the return is a no-op on checkout state, but
		// a supplied rating is still recorded, attributed to Anonymous.
		s.logger.WarnContext(ctx, "return scanned with no open checkout",
			slog.String("isbn", isbn),
		)
	default:
		return nil, fmt.Errorf("get open checkout: %w", err)
	}

	if starRating > 0 {
		rating := &domain.Rating{
			ID:         uuid.New().String(),
			BookISBN:   isbn,
			PatronID:   patronID,
			PatronName: result.PatronName,
			StarRating: starRating,
			CreatedAt:  time.Now().UTC(),
		}
		if reviewContent != "" {
			rating.ReviewContent = &reviewContent
		}
		if err := s.ratings.Create(ctx, rating); err != nil {
			return nil, fmt.Errorf("create rating: %w", err)
		}
		result.Rating = rating
	}

	return result, nil
}

// ForceReturn closes a checkout by id without the rating path. Used by
// admins when a book came back without being scanned.
func (s *LibraryService) ForceReturn(ctx context.Context, checkoutID string) (*domain.Checkout, error) {
	checkout, err := s.checkouts.GetByID(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("checkout", checkoutID)
		}
		return nil, fmt.Errorf("get checkout: %w", err)
	}

	// Already returned: idempotent no-op.
	if !checkout.IsOpen() {
		return checkout, nil
	}

	now := time.Now().UTC()
	if err := s.checkouts.MarkReturned(ctx, checkout.ID, now); err != nil {
		return nil, fmt.Errorf("mark returned: %w", err)
	}
	checkout.ReturnedAt = &now

	s.logger.InfoContext(ctx, "checkout force-returned",
		slog.String("checkout_id", checkout.ID),
		slog.String("isbn", checkout.BookISBN),
	)

	return checkout, nil
}

// DashboardData aggregates the admin dashboard view.
type DashboardData struct {
	ActiveCheckouts []domain.Checkout    `json:"active_checkouts"`
	ReminderLogs    []domain.ReminderLog `json:"reminder_logs"`
	Books           []domain.Book        `json:"books"`
	History         []domain.Checkout    `json:"history"`
}

// Dashboard returns active checkouts, recent reminder logs, the inventory,
// and recent checkout history.
func (s *LibraryService) Dashboard(ctx context.Context) (*DashboardData, error) {
	active, err := s.checkouts.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open checkouts: %w", err)
	}

	logs, err := s.reminderLog.ListRecent(ctx, defaultReminderLogLimit)
	if err != nil {
		return nil, fmt.Errorf("list reminder logs: %w", err)
	}

	books, err := s.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	history, err := s.checkouts.ListHistory(ctx, defaultHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list checkout history: %w", err)
	}

	return &DashboardData{
		ActiveCheckouts: active,
		ReminderLogs:    logs,
		Books:           books,
		History:         history,
	}, nil
}

// SearchPatrons returns up to ten patrons whose name contains the query.
// An empty query returns no results. Results are served from the optional
// cache when fresh.
func (s *LibraryService) SearchPatrons(ctx context.Context, query string) ([]domain.Patron, error) {
	if query == "" {
		return []domain.Patron{}, nil
	}

	if s.searchCache != nil {
		if patrons, ok := s.searchCache.Get(ctx, query); ok {
			return patrons, nil
		}
	}

	patrons, err := s.patrons.SearchByName(ctx, query, patronSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search patrons: %w", err)
	}

	if s.searchCache != nil {
		s.searchCache.Set(ctx, query, patrons)
	}

	return patrons, nil
}
