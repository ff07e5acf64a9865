package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/domain"
)

// --- Mock Repositories ---

type mockBookRepository struct {
	mock.Mock
}

func (m *mockBookRepository) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *mockBookRepository) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *mockBookRepository) Update(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *mockBookRepository) Delete(ctx context.Context, isbn string) error {
	args := m.Called(ctx, isbn)
	return args.Error(0)
}

func (m *mockBookRepository) List(ctx context.Context) ([]domain.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *mockBookRepository) ListAddedSince(ctx context.Context, cutoff time.Time) ([]domain.Book, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *mockBookRepository) IsCheckedOut(ctx context.Context, isbn string) (bool, error) {
	args := m.Called(ctx, isbn)
	return args.Bool(0), args.Error(1)
}

type mockPatronRepository struct {
	mock.Mock
}

func (m *mockPatronRepository) Create(ctx context.Context, patron *domain.Patron) error {
	args := m.Called(ctx, patron)
	return args.Error(0)
}

func (m *mockPatronRepository) GetByID(ctx context.Context, id string) (*domain.Patron, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patron), args.Error(1)
}

func (m *mockPatronRepository) GetByName(ctx context.Context, name string) (*domain.Patron, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patron), args.Error(1)
}

func (m *mockPatronRepository) ListAll(ctx context.Context) ([]domain.Patron, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Patron), args.Error(1)
}

func (m *mockPatronRepository) SearchByName(ctx context.Context, query string, limit int) ([]domain.Patron, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]domain.Patron), args.Error(1)
}

type mockCheckoutRepository struct {
	mock.Mock
}

func (m *mockCheckoutRepository) Create(ctx context.Context, checkout *domain.Checkout) error {
	args := m.Called(ctx, checkout)
	return args.Error(0)
}

func (m *mockCheckoutRepository) GetByID(ctx context.Context, id string) (*domain.Checkout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}

func (m *mockCheckoutRepository) GetOpenByBook(ctx context.Context, isbn string) (*domain.Checkout, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}

func (m *mockCheckoutRepository) MarkReturned(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *mockCheckoutRepository) SetLastReminderSent(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *mockCheckoutRepository) ListOpen(ctx context.Context) ([]domain.Checkout, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Checkout), args.Error(1)
}

func (m *mockCheckoutRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.Checkout, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Checkout), args.Error(1)
}

func (m *mockCheckoutRepository) ListHistory(ctx context.Context, limit int) ([]domain.Checkout, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Checkout), args.Error(1)
}

type mockRatingRepository struct {
	mock.Mock
}

func (m *mockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *mockRatingRepository) ListByBook(ctx context.Context, isbn string) ([]domain.Rating, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).([]domain.Rating), args.Error(1)
}

type mockReminderLogRepository struct {
	mock.Mock
}

func (m *mockReminderLogRepository) Create(ctx context.Context, log *domain.ReminderLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *mockReminderLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.ReminderLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.ReminderLog), args.Error(1)
}

type mockSearchCache struct {
	mock.Mock
}

func (m *mockSearchCache) Get(ctx context.Context, query string) ([]domain.Patron, bool) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]domain.Patron), args.Bool(1)
}

func (m *mockSearchCache) Set(ctx context.Context, query string, patrons []domain.Patron) {
	m.Called(ctx, query, patrons)
}

// --- Mock Sender ---

type mockEmailSender struct {
	mock.Mock
}

func (m *mockEmailSender) Name() string {
	return "mock"
}

func (m *mockEmailSender) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type libraryMocks struct {
	books       *mockBookRepository
	patrons     *mockPatronRepository
	checkouts   *mockCheckoutRepository
	ratings     *mockRatingRepository
	reminderLog *mockReminderLogRepository
}

func newTestLibraryService(t *testing.T) (*LibraryService, *libraryMocks) {
	t.Helper()
	m := &libraryMocks{
		books:       new(mockBookRepository),
		patrons:     new(mockPatronRepository),
		checkouts:   new(mockCheckoutRepository),
		ratings:     new(mockRatingRepository),
		reminderLog: new(mockReminderLogRepository),
	}
	svc := NewLibraryService(m.books, m.patrons, m.checkouts, m.ratings, m.reminderLog, nil, newTestLogger())
	return svc, m
}

func (m *libraryMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.books.AssertExpectations(t)
	m.patrons.AssertExpectations(t)
	m.checkouts.AssertExpectations(t)
	m.ratings.AssertExpectations(t)
	m.reminderLog.AssertExpectations(t)
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func timePtr(t time.Time) *time.Time {
	return &t
}
