package domain

import "time"

// AnonymousPatronName is the attribution used for ratings when no open
// checkout (or no linked patron) identifies the reviewer.
const AnonymousPatronName = "Anonymous"

// Patron represents a library patron. Patrons are created lazily on their
// first checkout; the exact name string is the lookup key, so two spellings
// of the same person produce two patron rows.
type Patron struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// HasEmail reports whether the patron can receive mail.
func (p *Patron) HasEmail() bool {
	return p.Email != ""
}
