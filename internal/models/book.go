package models

import "time"

// BookDB represents a book row in the database
type BookDB struct {
	BookID      int64     `json:"id" db:"id"`                   // Primary key
	Title       string    `json:"title" db:"title"`             // Book title
	Author      *string   `json:"author" db:"author"`           // Comma-joined author list
	Description *string   `json:"description" db:"description"` // Free-form description
	CoverImage  *string   `json:"cover_image" db:"cover_image"` // Thumbnail URL
	Category    *string   `json:"category" db:"category"`       // Primary category
	ExternalID  *string   `json:"external_id" db:"external_id"` // Identifier in the external catalog, unique when set
	CreatedAt   time.Time `json:"-" db:"created_at"`            // Creation timestamp
}

// BookFields holds the writable fields of a book.
// It is also the shape of an external search candidate before it is persisted.
type BookFields struct {
	ExternalID  *string `json:"external_id"`
	Title       string  `json:"title"`
	Author      *string `json:"author"`
	Description *string `json:"description"`
	CoverImage  *string `json:"cover_image"`
	Category    *string `json:"category"`
}
