package postgres

import (
	"context"
	"fmt"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/domain"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/database"
)

// ReminderLogRepository implements repository.ReminderLogRepository using PostgreSQL.
type ReminderLogRepository struct {
	pool database.DBTX
}

// NewReminderLogRepository creates a new PostgreSQL-backed reminder log repository.
func NewReminderLogRepository(pool database.DBTX) *ReminderLogRepository {
	return &ReminderLogRepository{pool: pool}
}

// Create appends a reminder log entry.
func (r *ReminderLogRepository) Create(ctx context.Context, log *domain.ReminderLog) error {
	query := `
		INSERT INTO reminder_logs (id, checkout_id, sent_at, status)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, log.ID, log.CheckoutID, log.SentAt, log.Status)
	if err != nil {
		return fmt.Errorf("insert reminder log: %w", err)
	}

	return nil
}

// ListRecent returns the most recent log entries, newest first.
func (r *ReminderLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.ReminderLog, error) {
	query := `
		SELECT id, checkout_id, sent_at, status
		FROM reminder_logs
		ORDER BY sent_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query reminder logs: %w", err)
	}
	defer rows.Close()

	logs := make([]domain.ReminderLog, 0)

	for rows.Next() {
		var l domain.ReminderLog
		if err := rows.Scan(&l.ID, &l.CheckoutID, &l.SentAt, &l.Status); err != nil {
			return nil, fmt.Errorf("scan reminder log row: %w", err)
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminder log rows: %w", err)
	}

	return logs, nil
}
