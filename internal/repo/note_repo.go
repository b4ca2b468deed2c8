package repo

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	dom "github.com/muhzarfan/backend-cttn/internal/domain"
)

// ListParams carries normalized query options for List. The service layer
// clamps page/limit and restricts SortBy/SortOrder to known values before
// they reach the repo.
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string // createdAt | updatedAt | title
	SortOrder string // asc | desc
}

// NoteRepo provides note persistence. Every operation is scoped by the owning
// user ID in the WHERE clause, so a note belonging to another owner is
// structurally unreachable, not just filtered out in application code.
type NoteRepo interface {
	Create(ctx context.Context, n dom.Note) (dom.Note, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (dom.Note, error)
	List(ctx context.Context, userID uuid.UUID, p ListParams) ([]dom.Note, int64, error)
	Update(ctx context.Context, userID, id uuid.UUID, title, content, tags string) (dom.Note, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID) (dom.NoteStats, error)
}

// PGNoteRepo implements NoteRepo with Postgres.
type PGNoteRepo struct {
	db *pgxpool.Pool
}

func NewPGNoteRepo(db *pgxpool.Pool) *PGNoteRepo {
	return &PGNoteRepo{db: db}
}

const noteColumns = `id, user_id, username, title, content, tags, created_at, updated_at`

// sortColumns whitelists ORDER BY targets; anything else falls back to created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

func (r *PGNoteRepo) Create(ctx context.Context, n dom.Note) (dom.Note, error) {
	query := `
		INSERT INTO notes (id, user_id, username, title, content, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + noteColumns
	var out dom.Note
	err := r.db.QueryRow(ctx, query, n.ID, n.UserID, n.Username, n.Title, n.Content, n.Tags).Scan(
		&out.ID, &out.UserID, &out.Username, &out.Title, &out.Content, &out.Tags,
		&out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGNoteRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (dom.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND user_id = $2`
	var n dom.Note
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&n.ID, &n.UserID, &n.Username, &n.Title, &n.Content, &n.Tags,
		&n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}

// List returns one page of the owner's notes plus the total match count.
// A non-empty search is a case-insensitive substring test across title,
// content and tags.
func (r *PGNoteRepo) List(ctx context.Context, userID uuid.UUID, p ListParams) ([]dom.Note, int64, error) {
	where := `user_id = $1`
	args := []any{userID}
	if p.Search != "" {
		where += ` AND (title ILIKE $2 OR content ILIKE $2 OR tags ILIKE $2)`
		args = append(args, "%"+p.Search+"%")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notes WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[p.SortBy]
	if !ok {
		column = "created_at"
	}
	dir := "DESC"
	if p.SortOrder == "asc" {
		dir = "ASC"
	}

	query := `SELECT ` + noteColumns + ` FROM notes WHERE ` + where +
		` ORDER BY ` + column + ` ` + dir +
		` LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	args = append(args, p.Limit, (p.Page-1)*p.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []dom.Note
	for rows.Next() {
		var n dom.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Username, &n.Title, &n.Content, &n.Tags,
			&n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, n)
	}
	return list, total, rows.Err()
}

// Update is a full replace of title/content/tags, atomic on (id, user_id).
func (r *PGNoteRepo) Update(ctx context.Context, userID, id uuid.UUID, title, content, tags string) (dom.Note, error) {
	query := `
		UPDATE notes SET title = $3, content = $4, tags = $5, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + noteColumns
	var n dom.Note
	err := r.db.QueryRow(ctx, query, id, userID, title, content, tags).Scan(
		&n.ID, &n.UserID, &n.Username, &n.Title, &n.Content, &n.Tags,
		&n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}

// Delete removes the note. Returns pgx.ErrNoRows when nothing matched the
// (id, user_id) pair.
func (r *PGNoteRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Stats aggregates over all of the owner's notes in a single query.
// TotalTags counts non-empty whitespace-separated tag tokens.
func (r *PGNoteRepo) Stats(ctx context.Context, userID uuid.UUID) (dom.NoteStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(cardinality(array_remove(string_to_array(tags, ' '), ''))), 0),
		       COALESCE(AVG(char_length(content)), 0),
		       MAX(created_at),
		       MIN(created_at)
		FROM notes WHERE user_id = $1`
	var s dom.NoteStats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.TotalNotes, &s.TotalTags, &s.AverageContentLength, &s.LatestNote, &s.OldestNote,
	)
	return s, err
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
