package domain

import "time"

// Reminder log status constants.
const (
	ReminderStatusSent   = "sent"
	ReminderStatusFailed = "failed"
)

// ReminderLog is an append-only audit record of a single overdue-reminder
// send attempt. Exactly one row is written per attempt; skipped checkouts
// (no patron email) produce no row.
type ReminderLog struct {
	ID         string    `json:"id"`
	CheckoutID string    `json:"checkout_id"`
	SentAt     time.Time `json:"sent_at"`
	Status     string    `json:"status"`
}
