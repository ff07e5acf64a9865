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
	"github.com/SarjuThakkar/TreehouseLibrary/internal/sender"
	apperrors "github.com/SarjuThakkar/TreehouseLibrary/pkg/errors"
)

const (
	reminderSubject  = "Reminder from the Treehouse Library"
	reminderBodyTmpl = "Hello! This is an automated reminder that '%s' has been checked out for a while! If you are done with it, come back and exchange it for another book!"

	// unknownBookTitle stands in when a checkout's book row is missing.
	unknownBookTitle = "Unknown Book"
)

// ReminderService sends overdue reminders for checkouts that have been out
// past the threshold and have not been reminded within the cadence.
type ReminderService struct {
	checkouts repository.CheckoutRepository
	patrons   repository.PatronRepository
	books     repository.BookRepository
	logs      repository.ReminderLogRepository
	sender    sender.Sender
	threshold time.Duration
	cadence   time.Duration
	logger    *slog.Logger
}

// NewReminderService creates a new reminder service.
func NewReminderService(
	checkouts repository.CheckoutRepository,
	patrons repository.PatronRepository,
	books repository.BookRepository,
	logs repository.ReminderLogRepository,
	snd sender.Sender,
	threshold, cadence time.Duration,
	logger *slog.Logger,
) *ReminderService {
	return &ReminderService{
		checkouts: checkouts,
		patrons:   patrons,
		books:     books,
		logs:      logs,
		sender:    snd,
		threshold: threshold,
		cadence:   cadence,
		logger:    logger,
	}
}

// Run performs one overdue-reminder sweep and returns the number of
// reminders sent. Each checkout is processed and persisted independently, so
// a failure partway through never loses the reminders already recorded.
func (s *ReminderService) Run(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	overdue, err := s.checkouts.ListOverdue(ctx, now.Add(-s.threshold))
	if err != nil {
		return 0, fmt.Errorf("list overdue checkouts: %w", err)
	}

	s.logger.InfoContext(ctx, "reminder sweep started",
		slog.Int("overdue_count", len(overdue)),
	)

	sent := 0
	for i := range overdue {
		checkout := &overdue[i]
		if !checkout.ReminderDue(now, s.cadence) {
			continue
		}

		if err := ctx.Err(); err != nil {
			return sent, err
		}

		if err := s.remindOne(ctx, checkout, now); err != nil {
			s.logger.ErrorContext(ctx, "reminder failed",
				slog.String("checkout_id", checkout.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		sent++
	}

	s.logger.InfoContext(ctx, "reminder sweep finished", slog.Int("sent", sent))
	return sent, nil
}

// remindOne sends a single reminder and records the outcome. Checkouts whose
// patron has no email address are skipped without an audit row.
func (s *ReminderService) remindOne(ctx context.Context, checkout *domain.Checkout, now time.Time) error {
	patron, err := s.patrons.GetByID(ctx, checkout.PatronID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "reminder skipped, patron missing",
				slog.String("checkout_id", checkout.ID),
				slog.String("patron_id", checkout.PatronID),
			)
			return nil
		}
		return fmt.Errorf("get patron: %w", err)
	}
	if !patron.HasEmail() {
		s.logger.WarnContext(ctx, "reminder skipped, patron has no email",
			slog.String("checkout_id", checkout.ID),
			slog.String("patron_id", patron.ID),
		)
		return nil
	}

	title := unknownBookTitle
	if book, err := s.books.GetByISBN(ctx, checkout.BookISBN); err == nil {
		title = book.Title
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("get book: %w", err)
	}

	body := fmt.Sprintf(reminderBodyTmpl, title)

	status := domain.ReminderStatusSent
	sendErr := s.sender.Send(ctx, patron.Email, reminderSubject, body)
	if sendErr != nil {
		status = domain.ReminderStatusFailed
	}
	remindersTotal.WithLabelValues(status).Inc()

	if err := s.logs.Create(ctx, &domain.ReminderLog{
		ID:         uuid.New().String(),
		CheckoutID: checkout.ID,
		SentAt:     now,
		Status:     status,
	}); err != nil {
		return fmt.Errorf("create reminder log: %w", err)
	}

	if sendErr != nil {
		return fmt.Errorf("send reminder: %w", sendErr)
	}

	if err := s.checkouts.SetLastReminderSent(ctx, checkout.ID, now); err != nil {
		return fmt.Errorf("set last reminder: %w", err)
	}

	s.logger.InfoContext(ctx, "reminder sent",
		slog.String("checkout_id", checkout.ID),
		slog.String("isbn", checkout.BookISBN),
		slog.String("sender", s.sender.Name()),
	)
	return nil
}
