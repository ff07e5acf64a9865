package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/repository"
	"github.com/SarjuThakkar/TreehouseLibrary/internal/sender"
	apperrors "github.com/SarjuThakkar/TreehouseLibrary/pkg/errors"
)

const (
	newsletterSubject  = "New at the Treehouse Library 📚"
	newsletterBodyTmpl = "New at Treehouse Library this month: %s. Come check them out!"
)

// NewsletterService sends the monthly new-arrivals announcement and ad-hoc
// broadcast emails to all patrons with an email address.
type NewsletterService struct {
	books   repository.BookRepository
	patrons repository.PatronRepository
	sender  sender.Sender
	window  time.Duration
	pacing  time.Duration
	logger  *slog.Logger
}

// NewNewsletterService creates a new newsletter service.
func NewNewsletterService(
	books repository.BookRepository,
	patrons repository.PatronRepository,
	snd sender.Sender,
	window, pacing time.Duration,
	logger *slog.Logger,
) *NewsletterService {
	return &NewsletterService{
		books:   books,
		patrons: patrons,
		sender:  snd,
		window:  window,
		pacing:  pacing,
		logger:  logger,
	}
}

// Run sends the monthly newsletter listing books added within the window and
// returns the number of emails sent. When no new books exist, nothing is
// sent at all.
func (s *NewsletterService) Run(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	books, err := s.books.ListAddedSince(ctx, now.Add(-s.window))
	if err != nil {
		return 0, fmt.Errorf("list new books: %w", err)
	}
	if len(books) == 0 {
		s.logger.InfoContext(ctx, "newsletter skipped, no new books")
		return 0, nil
	}

	titles := make([]string, len(books))
	for i, book := range books {
		titles[i] = book.Title
	}
	message := fmt.Sprintf(newsletterBodyTmpl, strings.Join(titles, ", "))

	return s.broadcast(ctx, newsletterSubject, message)
}

// Blast sends an arbitrary message to every patron with an email address.
func (s *NewsletterService) Blast(ctx context.Context, subject, message string) (int, error) {
	if subject == "" {
		return 0, apperrors.InvalidInput("subject is required")
	}
	if message == "" {
		return 0, apperrors.InvalidInput("message is required")
	}
	return s.broadcast(ctx, subject, message)
}

// broadcast fans a message out to all emailable patrons, serially, pausing
// between sends to stay under provider rate limits. A failed send is logged
// and skipped; the rest of the list still goes out.
func (s *NewsletterService) broadcast(ctx context.Context, subject, message string) (int, error) {
	patrons, err := s.patrons.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list patrons: %w", err)
	}

	sent := 0
	attempted := 0
	for _, patron := range patrons {
		if !patron.HasEmail() {
			continue
		}

		if attempted > 0 && s.pacing > 0 {
			select {
			case <-ctx.Done():
				return sent, ctx.Err()
			case <-time.After(s.pacing):
			}
		}

		attempted++
		if err := s.sender.Send(ctx, patron.Email, subject, message); err != nil {
			newsletterEmailsTotal.WithLabelValues(statusFailed).Inc()
			s.logger.ErrorContext(ctx, "newsletter send failed",
				slog.String("patron_id", patron.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		newsletterEmailsTotal.WithLabelValues(statusSent).Inc()
		sent++
	}

	s.logger.InfoContext(ctx, "broadcast finished",
		slog.String("subject", subject),
		slog.Int("sent", sent),
	)
	return sent, nil
}
