package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/muhzarfan/backend-cttn/internal/cache"
	dom "github.com/muhzarfan/backend-cttn/internal/domain"
	"github.com/muhzarfan/backend-cttn/internal/repo"
)

const (
	maxTitleLen   = 200
	maxContentLen = 10000
	maxTagsLen    = 500

	defaultLimit = 10
	maxLimit     = 100
)

// ListOptions are the raw query options as supplied by the caller. Zero or
// out-of-range values are normalized, never rejected.
type ListOptions struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

// NoteService builds and executes owner-scoped note queries, normalizes tags
// on every write and computes aggregate statistics.
type NoteService struct {
	repo  repo.NoteRepo
	cache *cache.NoteCache
	sf    singleflight.Group
}

// NewNoteService creates a NoteService. If c is nil, caching is disabled.
func NewNoteService(r repo.NoteRepo, c *cache.NoteCache) *NoteService {
	return &NoteService{repo: r, cache: c}
}

// Create validates, normalizes tags and persists a new note stamped with the
// owner's ID and username. Nothing is written when validation fails.
func (s *NoteService) Create(ctx context.Context, owner dom.User, title, content, rawTags string) (dom.Note, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if ve := validateNote(title, content, rawTags); ve != nil {
		return dom.Note{}, ve
	}

	n, err := s.repo.Create(ctx, dom.Note{
		ID:       uuid.New(),
		UserID:   owner.ID,
		Username: owner.Username,
		Title:    title,
		Content:  content,
		Tags:     NormalizeTags(rawTags),
	})
	if err != nil {
		return dom.Note{}, err
	}
	s.invalidate(ctx, owner.ID)
	return n, nil
}

// List returns one page of the owner's notes. The query is always scoped by
// the owner ID; results for other owners are unreachable by construction.
// No matches yields an empty page, not an error.
func (s *NoteService) List(ctx context.Context, userID uuid.UUID, opts ListOptions) (dom.NotePage, error) {
	p := normalizeList(opts)
	if s.cache == nil {
		return s.listPage(ctx, userID, p)
	}

	v, err, _ := s.sf.Do(cache.PageKey(userID, p), func() (interface{}, error) {
		if page, err := s.cache.GetPage(ctx, userID, p); err == nil && page != nil {
			return *page, nil
		}
		page, err := s.listPage(ctx, userID, p)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetPage(ctx, userID, p, page)
		return page, nil
	})
	if err != nil {
		return dom.NotePage{}, err
	}
	return v.(dom.NotePage), nil
}

func (s *NoteService) listPage(ctx context.Context, userID uuid.UUID, p repo.ListParams) (dom.NotePage, error) {
	notes, total, err := s.repo.List(ctx, userID, p)
	if err != nil {
		return dom.NotePage{}, err
	}
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return dom.NotePage{
		Notes:       notes,
		Total:       total,
		CurrentPage: p.Page,
		TotalPages:  totalPages,
	}, nil
}

// Get returns the owner's note by ID. ErrNotFound covers both a missing note
// and one owned by someone else.
func (s *NoteService) Get(ctx context.Context, userID, id uuid.UUID) (dom.Note, error) {
	n, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Note{}, ErrNotFound
		}
		return dom.Note{}, err
	}
	return n, nil
}

// Update fully replaces title, content and tags after the same validation as
// Create. ErrNotFound follows the same indistinguishable rule as Get.
func (s *NoteService) Update(ctx context.Context, userID, id uuid.UUID, title, content, rawTags string) (dom.Note, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if ve := validateNote(title, content, rawTags); ve != nil {
		return dom.Note{}, ve
	}

	n, err := s.repo.Update(ctx, userID, id, title, content, NormalizeTags(rawTags))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Note{}, ErrNotFound
		}
		return dom.Note{}, err
	}
	s.invalidate(ctx, userID)
	return n, nil
}

// Delete removes the note unconditionally once found (no soft delete).
func (s *NoteService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// Stats aggregates over the owner's notes. An owner with no notes gets a
// zero-valued result, not an error.
func (s *NoteService) Stats(ctx context.Context, userID uuid.UUID) (dom.NoteStats, error) {
	if s.cache == nil {
		return s.repo.Stats(ctx, userID)
	}
	v, err, _ := s.sf.Do(cache.StatsKey(userID), func() (interface{}, error) {
		if st, err := s.cache.GetStats(ctx, userID); err == nil && st != nil {
			return *st, nil
		}
		st, err := s.repo.Stats(ctx, userID)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetStats(ctx, userID, st)
		return st, nil
	})
	if err != nil {
		return dom.NoteStats{}, err
	}
	return v.(dom.NoteStats), nil
}

func (s *NoteService) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}

// validateNote checks the trimmed title/content and the raw tags against the
// length limits. Returns nil when the note is acceptable.
func validateNote(title, content, rawTags string) *ValidationError {
	fields := map[string]string{}
	switch {
	case title == "":
		fields["title"] = "Note title is required"
	case len([]rune(title)) > maxTitleLen:
		fields["title"] = "Title cannot exceed 200 characters"
	}
	switch {
	case content == "":
		fields["content"] = "Note content is required"
	case len([]rune(content)) > maxContentLen:
		fields["content"] = "Content cannot exceed 10000 characters"
	}
	if len([]rune(rawTags)) > maxTagsLen {
		fields["tags"] = "Tags cannot exceed 500 characters"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// normalizeList clamps paging and restricts sort options to known values.
func normalizeList(opts ListOptions) repo.ListParams {
	p := repo.ListParams{
		Page:      opts.Page,
		Limit:     opts.Limit,
		Search:    strings.TrimSpace(opts.Search),
		SortBy:    opts.SortBy,
		SortOrder: opts.SortOrder,
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	switch p.SortBy {
	case "createdAt", "updatedAt", "title":
	default:
		p.SortBy = "createdAt"
	}
	if p.SortOrder != "asc" {
		p.SortOrder = "desc"
	}
	return p
}
