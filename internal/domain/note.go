package domain

import (
	"time"

	"github.com/google/uuid"
)

// Note is the domain entity for a note.
// Tags is the normalized form: space-separated, each token prefixed with "#",
// deduplicated in first-occurrence order.
// Username is a denormalized copy of the owner's username for query convenience.
type Note struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Username string
	Title    string
	Content  string
	Tags     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NotePage is one page of a note listing. CurrentPage is 1-indexed;
// TotalPages is ceil(Total / limit).
type NotePage struct {
	Notes       []Note
	Total       int64
	CurrentPage int
	TotalPages  int
}

// NoteStats aggregates over a single owner's notes. LatestNote and OldestNote
// are nil when the owner has no notes.
type NoteStats struct {
	TotalNotes           int64
	TotalTags            int64
	AverageContentLength float64
	LatestNote           *time.Time
	OldestNote           *time.Time
}
