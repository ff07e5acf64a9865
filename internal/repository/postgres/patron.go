package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/domain"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/database"
	apperrors "github.com/SarjuThakkar/TreehouseLibrary/pkg/errors"
)

// PatronRepository implements repository.PatronRepository using PostgreSQL.
type PatronRepository struct {
	pool database.DBTX
}

// NewPatronRepository creates a new PostgreSQL-backed patron repository.
func NewPatronRepository(pool database.DBTX) *PatronRepository {
	return &PatronRepository{pool: pool}
}

// Create inserts a new patron.
func (r *PatronRepository) Create(ctx context.Context, p *domain.Patron) error {
	query := `
		INSERT INTO patrons (id, name, email, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Email, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert patron: %w", err)
	}

	return nil
}

// GetByID retrieves a patron by id.
func (r *PatronRepository) GetByID(ctx context.Context, id string) (*domain.Patron, error) {
	query := `
		SELECT id, name, email, created_at
		FROM patrons
		WHERE id = $1`

	return r.scanPatron(ctx, query, id)
}

// GetByName retrieves a patron by exact name match. When duplicate names
// exist, the oldest row wins, matching first-created semantics.
func (r *PatronRepository) GetByName(ctx context.Context, name string) (*domain.Patron, error) {
	query := `
		SELECT id, name, email, created_at
		FROM patrons
		WHERE name = $1
		ORDER BY created_at
		LIMIT 1`

	return r.scanPatron(ctx, query, name)
}

// ListAll returns all patrons.
func (r *PatronRepository) ListAll(ctx context.Context) ([]domain.Patron, error) {
	query := `
		SELECT id, name, email, created_at
		FROM patrons
		ORDER BY name`

	return r.scanPatrons(ctx, query)
}

// SearchByName returns patrons whose name contains the query,
// case-insensitively, up to limit rows.
func (r *PatronRepository) SearchByName(ctx context.Context, query string, limit int) ([]domain.Patron, error) {
	sql := `
		SELECT id, name, email, created_at
		FROM patrons
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2`

	return r.scanPatrons(ctx, sql, query, limit)
}

// scanPatron executes a query expected to return a single patron row.
func (r *PatronRepository) scanPatron(ctx context.Context, query string, args ...any) (*domain.Patron, error) {
	var p domain.Patron
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan patron: %w", err)
	}

	return &p, nil
}

// scanPatrons executes a query expected to return multiple patron rows.
func (r *PatronRepository) scanPatrons(ctx context.Context, query string, args ...any) ([]domain.Patron, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query patrons: %w", err)
	}
	defer rows.Close()

	patrons := make([]domain.Patron, 0)

	for rows.Next() {
		var p domain.Patron
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan patron row: %w", err)
		}
		patrons = append(patrons, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patron rows: %w", err)
	}

	return patrons, nil
}
