package postgres

import (
	"context"
	"fmt"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/domain"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/database"
)

// RatingRepository implements repository.RatingRepository using PostgreSQL.
type RatingRepository struct {
	pool database.DBTX
}

// NewRatingRepository creates a new PostgreSQL-backed rating repository.
func NewRatingRepository(pool database.DBTX) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// Create inserts a new rating.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (id, book_isbn, patron_id, patron_name, star_rating, review_content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		rating.ID,
		rating.BookISBN,
		rating.PatronID,
		rating.PatronName,
		rating.StarRating,
		rating.ReviewContent,
		rating.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rating: %w", err)
	}

	return nil
}

// ListByBook returns ratings for a book, newest first.
func (r *RatingRepository) ListByBook(ctx context.Context, isbn string) ([]domain.Rating, error) {
	query := `
		SELECT id, book_isbn, patron_id, patron_name, star_rating, review_content, created_at
		FROM ratings
		WHERE book_isbn = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, isbn)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]domain.Rating, 0)

	for rows.Next() {
		var rt domain.Rating
		if err := rows.Scan(
			&rt.ID,
			&rt.BookISBN,
			&rt.PatronID,
			&rt.PatronName,
			&rt.StarRating,
			&rt.ReviewContent,
			&rt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		ratings = append(ratings, rt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	return ratings, nil
}
