package smtp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
)

// ErrNoCredentials is returned by Send when the sender identity or password
// is not configured. It is a deterministic failure, never a panic, so policy
// logic logs a uniform "failed" status.
var ErrNoCredentials = errors.New("smtp credentials not configured")

// Sender delivers mail through an SMTP relay using PLAIN auth.
type Sender struct {
	host     string
	port     int
	from     string
	password string
	logger   *slog.Logger
}

// NewSender creates an SMTP sender. From and password may be empty; sends
// then fail deterministically with ErrNoCredentials.
func NewSender(host string, port int, from, password string, logger *slog.Logger) *Sender {
	return &Sender{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		logger:   logger,
	}
}

// Name returns the name of this sender.
func (s *Sender) Name() string {
	return "smtp"
}

// Send delivers a plain-text message to a single recipient. The underlying
// smtp.SendMail call has no context support, so cancellation is checked only
// before dialing.
func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	if s.from == "" || s.password == "" {
		s.logger.WarnContext(ctx, "smtp credentials not set, skipping send",
			slog.String("to", to),
		)
		return ErrNoCredentials
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		s.logger.ErrorContext(ctx, "smtp send failed",
			slog.String("to", to),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("send mail: %w", err)
	}

	s.logger.InfoContext(ctx, "email sent", slog.String("to", to))
	return nil
}
