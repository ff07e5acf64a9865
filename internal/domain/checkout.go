package domain

import "time"

// Default policy windows. Both are overridable through configuration.
const (
	// DefaultOverdueThreshold is how long a book may stay out before it
	// counts as overdue.
	DefaultOverdueThreshold = 21 * 24 * time.Hour

	// DefaultReminderCadence is the minimum spacing between successive
	// reminders for the same checkout.
	DefaultReminderCadence = 7 * 24 * time.Hour

	// DefaultNewsletterWindow is the trailing period used to select "new"
	// books for the monthly newsletter.
	DefaultNewsletterWindow = 30 * 24 * time.Hour
)

// Checkout records a book being checked out by a patron. A checkout with no
// ReturnedAt timestamp is open; the store enforces at most one open checkout
// per book.
type Checkout struct {
	ID                 string     `json:"id"`
	BookISBN           string     `json:"book_isbn"`
	PatronID           string     `json:"patron_id"`
	CheckedOutAt       time.Time  `json:"checked_out_at"`
	ReturnedAt         *time.Time `json:"returned_at,omitempty"`
	LastReminderSentAt *time.Time `json:"last_reminder_sent_at,omitempty"`
}

// IsOpen reports whether the book is still out.
func (c *Checkout) IsOpen() bool {
	return c.ReturnedAt == nil
}

// IsOverdue reports whether an open checkout has been out longer than the
// threshold. A returned checkout is never overdue.
func (c *Checkout) IsOverdue(now time.Time, threshold time.Duration) bool {
	if !c.IsOpen() {
		return false
	}
	return c.CheckedOutAt.Before(now.Add(-threshold))
}

// ReminderDue reports whether a reminder should be sent for this checkout:
// either none has ever been sent, or the last one is at least a full cadence
// in the past. Callers must have already established the checkout is overdue.
func (c *Checkout) ReminderDue(now time.Time, cadence time.Duration) bool {
	if c.LastReminderSentAt == nil {
		return true
	}
	return now.Sub(*c.LastReminderSentAt) >= cadence
}
