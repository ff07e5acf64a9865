package domain

import (
	"strings"
	"time"
)

// Book represents a title in the library, keyed by its ISBN.
type Book struct {
	ISBN      string    `json:"isbn"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	OurReview *string   `json:"our_review,omitempty"`
	OurRating *int      `json:"our_rating,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// IsCheckedOut is derived from the checkout table (an open checkout
	// exists for this ISBN). It is resolved by the service layer, not
	// stored.
	IsCheckedOut bool `json:"is_checked_out"`
}

// NormalizeISBN trims surrounding whitespace from a scanned ISBN. Barcode
// scanners commonly append a newline before the terminating Enter.
func NormalizeISBN(isbn string) string {
	return strings.TrimSpace(isbn)
}

// IsValidCuratorRating checks that a curator rating is in the 1-5 range.
func IsValidCuratorRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// AddedSince reports whether the book was added on or after the cutoff.
// Used to select newsletter-eligible new arrivals.
func (b *Book) AddedSince(cutoff time.Time) bool {
	return !b.CreatedAt.Before(cutoff)
}
