package domain

import "time"

// Rating is a star rating and optional review left by a patron when
// returning a book. PatronName is intentionally free text, decoupled from
// the Patron entity, so unmatched returns can still log a review
// attributed to "Anonymous".
type Rating struct {
	ID            string    `json:"id"`
	BookISBN      string    `json:"book_isbn"`
	PatronID      *string   `json:"patron_id,omitempty"`
	PatronName    string    `json:"patron_name"`
	StarRating    int       `json:"star_rating"`
	ReviewContent *string   `json:"review_content,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsValidStarRating checks that a star rating is in the 1-5 range.
func IsValidStarRating(stars int) bool {
	return stars >= 1 && stars <= 5
}
