package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/muhzarfan/backend-cttn/internal/auth"
	dom "github.com/muhzarfan/backend-cttn/internal/domain"
	"github.com/muhzarfan/backend-cttn/internal/repo"
	"github.com/muhzarfan/backend-cttn/internal/service"
)

// In-memory repos with the same error signals as the Postgres ones, so the
// full handler → service → repo chain is exercised per request.

type stubUserRepo struct {
	users map[uuid.UUID]dom.User
}

func (s *stubUserRepo) Create(_ context.Context, u dom.User) (dom.User, error) {
	for _, other := range s.users {
		if other.Email == u.Email {
			return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
		if other.Username == u.Username {
			return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
		}
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (dom.User, error) {
	u, ok := s.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (s *stubUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (s *stubUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, username, email string) (dom.User, error) {
	u, ok := s.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	u.Username, u.Email = username, email
	s.users[id] = u
	return u, nil
}

type stubNoteRepo struct {
	notes map[uuid.UUID]dom.Note
	clock time.Time
}

func (s *stubNoteRepo) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *stubNoteRepo) Create(_ context.Context, n dom.Note) (dom.Note, error) {
	ts := s.tick()
	n.CreatedAt, n.UpdatedAt = ts, ts
	s.notes[n.ID] = n
	return n, nil
}

func (s *stubNoteRepo) GetByID(_ context.Context, userID, id uuid.UUID) (dom.Note, error) {
	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return dom.Note{}, pgx.ErrNoRows
	}
	return n, nil
}

func (s *stubNoteRepo) List(_ context.Context, userID uuid.UUID, p repo.ListParams) ([]dom.Note, int64, error) {
	var owned []dom.Note
	for _, n := range s.notes {
		if n.UserID == userID {
			owned = append(owned, n)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	total := int64(len(owned))
	start := (p.Page - 1) * p.Limit
	if start > len(owned) {
		start = len(owned)
	}
	end := start + p.Limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[start:end], total, nil
}

func (s *stubNoteRepo) Update(_ context.Context, userID, id uuid.UUID, title, content, tags string) (dom.Note, error) {
	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return dom.Note{}, pgx.ErrNoRows
	}
	n.Title, n.Content, n.Tags = title, content, tags
	n.UpdatedAt = s.tick()
	s.notes[id] = n
	return n, nil
}

func (s *stubNoteRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(s.notes, id)
	return nil
}

func (s *stubNoteRepo) Stats(_ context.Context, userID uuid.UUID) (dom.NoteStats, error) {
	var st dom.NoteStats
	for _, n := range s.notes {
		if n.UserID == userID {
			st.TotalNotes++
		}
	}
	return st, nil
}

// testRig wires the real middleware, handlers and services over the stubs,
// mirroring the route layout of the app package.
type testRig struct {
	router   *gin.Engine
	userRepo *stubUserRepo
	noteRepo *stubNoteRepo
	tokens   *auth.TokenService
	userSvc  *service.UserService
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rig := &testRig{
		userRepo: &stubUserRepo{users: map[uuid.UUID]dom.User{}},
		noteRepo: &stubNoteRepo{
			notes: map[uuid.UUID]dom.Note{},
			clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	rig.tokens = auth.NewTokenService("test-secret", time.Hour)
	rig.userSvc = service.NewUserService(rig.userRepo)
	noteSvc := service.NewNoteService(rig.noteRepo, nil)

	authHandler := NewAuthHandler(rig.tokens, rig.userSvc, "7d")
	noteHandler := NewNoteHandler(noteSvc)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/profile", auth.RequireAuth(rig.tokens, rig.userSvc), authHandler.GetProfile)
	api.PUT("/auth/profile", auth.RequireAuth(rig.tokens, rig.userSvc), authHandler.UpdateProfile)
	api.POST("/auth/logout", auth.OptionalAuth(rig.tokens, rig.userSvc), authHandler.Logout)

	notes := api.Group("/notes", auth.RequireAuth(rig.tokens, rig.userSvc))
	notes.GET("", noteHandler.List)
	notes.GET("/stats", noteHandler.Stats)
	notes.GET("/:id", noteHandler.Get)
	notes.POST("", noteHandler.Create)
	notes.PUT("/:id", noteHandler.Update)
	notes.DELETE("/:id", noteHandler.Delete)

	rig.router = r
	return rig
}

func (rig *testRig) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	rig.router.ServeHTTP(w, req)
	return w
}

// register creates a user through the API and returns its token.
func (rig *testRig) register(t *testing.T, username, email string) string {
	t.Helper()
	w := rig.do(t, "POST", "/api/auth/register", "", map[string]string{
		"username": username, "email": email, "password": "s3cret99",
	})
	require.Equal(t, 201, w.Code, "register %s: %s", username, w.Body.String())
	var out struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.Data.Token)
	return out.Data.Token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
