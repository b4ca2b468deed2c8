package dto

import (
	"time"

	dom "github.com/muhzarfan/backend-cttn/internal/domain"
)

// calendarDate is how note timestamps are rendered on the wire: a plain
// d/m/yyyy calendar date, not a machine-sortable timestamp. Callers that
// need raw timestamps would rely on a separate field if one is ever added.
const calendarDate = "2/1/2006"

// NoteRequest is the JSON body for POST /api/notes and PUT /api/notes/:id.
// Updates are a full replace of title/content/tags.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

// NoteResponse is the public view of a note.
type NoteResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Tags      string `json:"tags"`
	Username  string `json:"username"`
	UserID    string `json:"userId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Pagination describes the page returned by the list endpoint. Pages are
// 1-indexed.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// ListNotesData is the payload of GET /api/notes.
type ListNotesData struct {
	Notes      []NoteResponse `json:"notes"`
	Pagination Pagination     `json:"pagination"`
}

// StatsResponse is the payload of GET /api/notes/stats. LatestNote and
// OldestNote are null when the owner has no notes.
type StatsResponse struct {
	TotalNotes           int64      `json:"totalNotes"`
	TotalTags            int64      `json:"totalTags"`
	AverageContentLength float64    `json:"averageContentLength"`
	LatestNote           *time.Time `json:"latestNote"`
	OldestNote           *time.Time `json:"oldestNote"`
}

// NoteToResponse converts a domain note to its public view.
func NoteToResponse(n dom.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Content:   n.Content,
		Tags:      n.Tags,
		Username:  n.Username,
		UserID:    n.UserID.String(),
		CreatedAt: n.CreatedAt.Format(calendarDate),
		UpdatedAt: n.UpdatedAt.Format(calendarDate),
	}
}

// NotesToResponses converts a slice of domain notes.
func NotesToResponses(list []dom.Note) []NoteResponse {
	out := make([]NoteResponse, len(list))
	for i := range list {
		out[i] = NoteToResponse(list[i])
	}
	return out
}

// PageToData converts a service page to the wire shape, deriving the
// has-next/has-prev flags from the page position.
func PageToData(p dom.NotePage) ListNotesData {
	return ListNotesData{
		Notes: NotesToResponses(p.Notes),
		Pagination: Pagination{
			CurrentPage: p.CurrentPage,
			TotalPages:  p.TotalPages,
			Total:       p.Total,
			HasNextPage: p.CurrentPage < p.TotalPages,
			HasPrevPage: p.CurrentPage > 1,
		},
	}
}

// StatsToResponse converts domain stats to the wire shape.
func StatsToResponse(s dom.NoteStats) StatsResponse {
	return StatsResponse{
		TotalNotes:           s.TotalNotes,
		TotalTags:            s.TotalTags,
		AverageContentLength: s.AverageContentLength,
		LatestNote:           s.LatestNote,
		OldestNote:           s.OldestNote,
	}
}
