package models

import "time"

// Known reading statuses.
const (
	StatusWishlist  = "wishlist"
	StatusReading   = "reading"
	StatusCompleted = "completed"
	StatusFavorite  = "favorite"
)

// Statuses lists every accepted activity status.
var Statuses = []string{StatusWishlist, StatusReading, StatusCompleted, StatusFavorite}

// ActivityDB represents a reading_activity row joined with its book
type ActivityDB struct {
	ActivityID int64     `json:"id" db:"id"`                   // Primary key
	UserID     int64     `json:"user_id" db:"user_id"`         // Owner of the library entry
	BookID     int64     `json:"book_id" db:"book_id"`         // Book in the library entry
	Status     string    `json:"status" db:"status"`           // Reading status
	Progress   int       `json:"progress" db:"progress"`       // Reading progress, 0 by default
	IsFavorite bool      `json:"is_favorite" db:"is_favorite"` // Favorite flag
	DateAdded  time.Time `json:"date_added" db:"date_added"`   // When the book was added to the library
	Book       BookDB    `json:"book" db:"book"`               // Joined book, populated by read queries
}

// ActivityPatch carries a partial update. Only fields that are Set are applied.
type ActivityPatch struct {
	Status     Optional[string]
	Progress   Optional[int]
	IsFavorite Optional[bool]
}

// Apply merges the patch into a and reports whether anything changed.
func (p ActivityPatch) Apply(a *ActivityDB) bool {
	changed := false
	if v, ok := p.Status.Get(); ok && v != a.Status {
		a.Status = v
		changed = true
	}
	if v, ok := p.Progress.Get(); ok && v != a.Progress {
		a.Progress = v
		changed = true
	}
	if v, ok := p.IsFavorite.Get(); ok && v != a.IsFavorite {
		a.IsFavorite = v
		changed = true
	}
	return changed
}
