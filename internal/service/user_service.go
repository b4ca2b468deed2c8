package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	dom "github.com/muhzarfan/backend-cttn/internal/domain"
	"github.com/muhzarfan/backend-cttn/internal/repo"
	"github.com/muhzarfan/backend-cttn/internal/utils"
)

const (
	maxUsernameLen = 30
	minPasswordLen = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserService handles registration, login and profile logic.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user with a hashed password. Email is stored
// lower-cased. A store-level unique violation (including one lost in a race
// with a concurrent registration) is translated to a ConflictError naming
// the duplicated field.
func (s *UserService) Register(ctx context.Context, username, email, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	fields := map[string]string{}
	if username == "" {
		fields["username"] = "Username is required"
	} else if len(username) > maxUsernameLen {
		fields["username"] = "Username cannot exceed 30 characters"
	}
	if email == "" {
		fields["email"] = "Email is required"
	} else if !emailPattern.MatchString(email) {
		fields["email"] = "Please provide a valid email"
	}
	if password == "" {
		fields["password"] = "Password is required"
	} else if len(password) < minPasswordLen {
		fields["password"] = "Password must be at least 6 characters"
	}
	if len(fields) > 0 {
		return dom.User{}, &ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, dom.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, &ConflictError{Field: conflictField(err)}
		}
		return dom.User{}, err
	}
	return u, nil
}

// ValidateCredentials checks username and password; returns the user if valid.
// Unknown users and wrong passwords are indistinguishable.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID resolves a user by ID; ErrNotFound when absent. Used by the auth
// middleware to confirm a token subject still exists.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// UpdateProfile changes username and/or email. Omitted fields (nil) keep
// their current value; the row write itself is a full replace of both.
func (s *UserService) UpdateProfile(ctx context.Context, current dom.User, username, email *string) (dom.User, error) {
	newUsername := current.Username
	newEmail := current.Email
	fields := map[string]string{}
	if username != nil {
		newUsername = strings.TrimSpace(*username)
		if newUsername == "" {
			fields["username"] = "Username is required"
		} else if len(newUsername) > maxUsernameLen {
			fields["username"] = "Username cannot exceed 30 characters"
		}
	}
	if email != nil {
		newEmail = strings.ToLower(strings.TrimSpace(*email))
		if !emailPattern.MatchString(newEmail) {
			fields["email"] = "Please provide a valid email"
		}
	}
	if len(fields) > 0 {
		return dom.User{}, &ValidationError{Fields: fields}
	}

	u, err := s.repo.UpdateProfile(ctx, current.ID, newUsername, newEmail)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, &ConflictError{Field: conflictField(err)}
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// conflictField maps the violated unique constraint to the user-facing field
// name. The constraint names come from the migrations.
func conflictField(err error) string {
	if strings.Contains(utils.PGConstraintName(err), "email") {
		return "Email"
	}
	return "Username"
}
