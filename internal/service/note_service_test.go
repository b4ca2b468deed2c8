package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/muhzarfan/backend-cttn/internal/domain"
	"github.com/muhzarfan/backend-cttn/internal/repo"
)

// memNoteRepo is an in-memory NoteRepo with the same owner-scoping and query
// semantics as the Postgres implementation.
type memNoteRepo struct {
	notes map[uuid.UUID]dom.Note
	now   time.Time
}

func newMemNoteRepo() *memNoteRepo {
	return &memNoteRepo{
		notes: map[uuid.UUID]dom.Note{},
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memNoteRepo) tick() time.Time {
	m.now = m.now.Add(time.Minute)
	return m.now
}

func (m *memNoteRepo) Create(_ context.Context, n dom.Note) (dom.Note, error) {
	ts := m.tick()
	n.CreatedAt = ts
	n.UpdatedAt = ts
	m.notes[n.ID] = n
	return n, nil
}

func (m *memNoteRepo) GetByID(_ context.Context, userID, id uuid.UUID) (dom.Note, error) {
	n, ok := m.notes[id]
	if !ok || n.UserID != userID {
		return dom.Note{}, pgx.ErrNoRows
	}
	return n, nil
}

func (m *memNoteRepo) List(_ context.Context, userID uuid.UUID, p repo.ListParams) ([]dom.Note, int64, error) {
	var matched []dom.Note
	for _, n := range m.notes {
		if n.UserID != userID {
			continue
		}
		if p.Search != "" {
			q := strings.ToLower(p.Search)
			if !strings.Contains(strings.ToLower(n.Title), q) &&
				!strings.Contains(strings.ToLower(n.Content), q) &&
				!strings.Contains(strings.ToLower(n.Tags), q) {
				continue
			}
		}
		matched = append(matched, n)
	}
	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch p.SortBy {
		case "updatedAt":
			less = matched[i].UpdatedAt.Before(matched[j].UpdatedAt)
		case "title":
			less = matched[i].Title < matched[j].Title
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if p.SortOrder == "asc" {
			return less
		}
		return !less
	})
	total := int64(len(matched))
	start := (p.Page - 1) * p.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + p.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *memNoteRepo) Update(_ context.Context, userID, id uuid.UUID, title, content, tags string) (dom.Note, error) {
	n, ok := m.notes[id]
	if !ok || n.UserID != userID {
		return dom.Note{}, pgx.ErrNoRows
	}
	n.Title, n.Content, n.Tags = title, content, tags
	n.UpdatedAt = m.tick()
	m.notes[id] = n
	return n, nil
}

func (m *memNoteRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	n, ok := m.notes[id]
	if !ok || n.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(m.notes, id)
	return nil
}

func (m *memNoteRepo) Stats(_ context.Context, userID uuid.UUID) (dom.NoteStats, error) {
	var s dom.NoteStats
	var contentLen int64
	for _, n := range m.notes {
		if n.UserID != userID {
			continue
		}
		s.TotalNotes++
		contentLen += int64(len([]rune(n.Content)))
		for _, tok := range strings.Split(n.Tags, " ") {
			if tok != "" {
				s.TotalTags++
			}
		}
		created := n.CreatedAt
		if s.LatestNote == nil || created.After(*s.LatestNote) {
			t := created
			s.LatestNote = &t
		}
		if s.OldestNote == nil || created.Before(*s.OldestNote) {
			t := created
			s.OldestNote = &t
		}
	}
	if s.TotalNotes > 0 {
		s.AverageContentLength = float64(contentLen) / float64(s.TotalNotes)
	}
	return s, nil
}

func testOwner(name string) dom.User {
	return dom.User{ID: uuid.New(), Username: name, Email: name + "@example.com"}
}

func TestNoteService_Create(t *testing.T) {
	r := newMemNoteRepo()
	svc := NewNoteService(r, nil)
	owner := testOwner("alice")

	n, err := svc.Create(context.Background(), owner, "  My title  ", "  some content  ", "foo #foo bar")
	require.NoError(t, err)
	assert.Equal(t, "My title", n.Title)
	assert.Equal(t, "some content", n.Content)
	assert.Equal(t, "#foo #bar", n.Tags)
	assert.Equal(t, owner.ID, n.UserID)
	assert.Equal(t, "alice", n.Username)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestNoteService_Create_ValidationWritesNothing(t *testing.T) {
	r := newMemNoteRepo()
	svc := NewNoteService(r, nil)
	owner := testOwner("alice")

	tests := []struct {
		name    string
		title   string
		content string
		field   string
	}{
		{"empty title", "", "content", "title"},
		{"whitespace title", "   ", "content", "title"},
		{"empty content", "title", "", "content"},
		{"title too long", strings.Repeat("x", 201), "content", "title"},
		{"content too long", "title", strings.Repeat("x", 10001), "content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), owner, tt.title, tt.content, "")
			ve, ok := AsValidationError(err)
			require.True(t, ok, "want ValidationError, got %v", err)
			assert.Contains(t, ve.Fields, tt.field)
			assert.Empty(t, r.notes, "validation failure must not write")
		})
	}
}

func TestNoteService_Pagination(t *testing.T) {
	r := newMemNoteRepo()
	svc := NewNoteService(r, nil)
	owner := testOwner("alice")

	for i := 1; i <= 23; i++ {
		_, err := svc.Create(context.Background(), owner, fmt.Sprintf("note %02d", i), "content", "")
		require.NoError(t, err)
	}

	page1, err := svc.List(context.Background(), owner.ID, ListOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 23, page1.Total)
	assert.Equal(t, 3, page1.TotalPages)
	assert.Equal(t, 1, page1.CurrentPage)
	assert.Len(t, page1.Notes, 10)

	page3, err := svc.List(context.Background(), owner.ID, ListOptions{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, page3.CurrentPage)
	assert.Len(t, page3.Notes, 3)

	// default sort is createdAt descending: newest first
	assert.Equal(t, "note 23", page1.Notes[0].Title)
	assert.Equal(t, "note 01", page3.Notes[2].Title)
}

func TestNoteService_List_SearchAndSort(t *testing.T) {
	r := newMemNoteRepo()
	svc := NewNoteService(r, nil)
	owner := testOwner("alice")

	mustCreate := func(title, content, tags string) {
		_, err := svc.Create(context.Background(), owner, title, content, tags)
		require.NoError(t, err)
	}
	mustCreate("Groceries", "milk and eggs", "errands")
	mustCreate("Meeting notes", "quarterly planning", "work")
	mustCreate("Ideas", "a GROCERY delivery app", "#work startup")

	got, err := svc.List(context.Background(), owner.ID, ListOptions{Search: "grocer"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Total)

	got, err = svc.List(context.Background(), owner.ID, ListOptions{Search: "work"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Total, "tags are searched too")

	got, err = svc.List(context.Background(), owner.ID, ListOptions{SortBy: "title", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, got.Notes, 3)
	assert.Equal(t, "Groceries", got.Notes[0].Title)
	assert.Equal(t, "Meeting notes", got.Notes[2].Title)

	got, err = svc.List(context.Background(), owner.ID, ListOptions{Search: "no such thing"})
	require.NoError(t, err)
	assert.Empty(t, got.Notes)
	assert.EqualValues(t, 0, got.Total)
	assert.Equal(t, 0, got.TotalPages)
}

func TestNoteService_OwnerScoping(t *testing.T) {
	r := newMemNoteRepo()
	svc := NewNoteService(r, nil)
	alice := testOwner("alice")
	bob := testOwner("bob")

	an, err := svc.Create(context.Background(), alice, "alice note", "content", "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob, "bob note", "content", "")
	require.NoError(t, err)

	got, err := svc.List(context.Background(), alice.ID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "alice note", got.Notes[0].Title)

	// another owner's note is indistinguishable from a missing one
	_, err = svc.Get(context.Background(), bob.ID, an.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(context.Background(), bob.ID, an.ID, "stolen", "content", "")
	assert.ErrorIs(t, err, ErrNotFound)
	err = svc.Delete(context.Background(), bob.ID, an.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// and alice still has her note, unchanged
	kept, err := svc.Get(context.Background(), alice.ID, an.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice note", kept.Title)
}

func TestNoteService_Update_FullReplace(t *testing.T) {
	r := newMemNoteRepo()
	svc := NewNoteService(r, nil)
	owner := testOwner("alice")

	n, err := svc.Create(context.Background(), owner, "title", "content", "old tags")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), owner.ID, n.ID, "new title", "new content", "")
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "new content", updated.Content)
	assert.Equal(t, "", updated.Tags, "tags are replaced, not merged")
	assert.True(t, updated.UpdatedAt.After(n.UpdatedAt))
	assert.Equal(t, n.CreatedAt, updated.CreatedAt)
}

func TestNoteService_Delete(t *testing.T) {
	r := newMemNoteRepo()
	svc := NewNoteService(r, nil)
	owner := testOwner("alice")

	n, err := svc.Create(context.Background(), owner, "title", "content", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), owner.ID, n.ID))
	err = svc.Delete(context.Background(), owner.ID, n.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoteService_Stats(t *testing.T) {
	r := newMemNoteRepo()
	svc := NewNoteService(r, nil)
	owner := testOwner("alice")

	t.Run("no notes yields zero values", func(t *testing.T) {
		s, err := svc.Stats(context.Background(), owner.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, s.TotalNotes)
		assert.EqualValues(t, 0, s.TotalTags)
		assert.EqualValues(t, 0, s.AverageContentLength)
		assert.Nil(t, s.LatestNote)
		assert.Nil(t, s.OldestNote)
	})

	t.Run("aggregates over the owner only", func(t *testing.T) {
		_, err := svc.Create(context.Background(), owner, "a", "1234", "one two")
		require.NoError(t, err)
		_, err = svc.Create(context.Background(), owner, "b", "12345678", "three")
		require.NoError(t, err)

		bob := testOwner("bob")
		_, err = svc.Create(context.Background(), bob, "c", "x", "many many many tags")
		require.NoError(t, err)

		s, err := svc.Stats(context.Background(), owner.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, s.TotalNotes)
		assert.EqualValues(t, 3, s.TotalTags)
		assert.EqualValues(t, 6, s.AverageContentLength)
		require.NotNil(t, s.LatestNote)
		require.NotNil(t, s.OldestNote)
		assert.True(t, s.OldestNote.Before(*s.LatestNote))
	})
}

func TestNormalizeListOptions(t *testing.T) {
	p := normalizeList(ListOptions{Page: 0, Limit: -5, SortBy: "password_hash", SortOrder: "sideways"})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, defaultLimit, p.Limit)
	assert.Equal(t, "createdAt", p.SortBy)
	assert.Equal(t, "desc", p.SortOrder)

	p = normalizeList(ListOptions{Page: 2, Limit: 5000, SortBy: "title", SortOrder: "asc", Search: "  q  "})
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, maxLimit, p.Limit)
	assert.Equal(t, "title", p.SortBy)
	assert.Equal(t, "asc", p.SortOrder)
	assert.Equal(t, "q", p.Search)
}
