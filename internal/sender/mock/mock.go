package mock

import (
	"context"
	"log/slog"
	"time"
)

// Sender is a sender implementation that logs messages and always succeeds.
// It simulates a short delay to mimic real sending latency. Used in
// development mode when no SMTP credentials are configured.
type Sender struct {
	logger *slog.Logger
}

// NewSender creates a new mock sender.
func NewSender(logger *slog.Logger) *Sender {
	return &Sender{logger: logger}
}

// Name returns the name of this sender.
func (s *Sender) Name() string {
	return "mock"
}

// Send logs the message details and simulates a 10ms sending delay.
func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	time.Sleep(10 * time.Millisecond)

	s.logger.InfoContext(ctx, "mock sender: email sent",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(body)),
	)

	return nil
}
