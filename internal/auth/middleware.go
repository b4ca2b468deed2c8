package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/muhzarfan/backend-cttn/internal/domain"
)

const bearerPrefix = "Bearer "

const contextKeyUser = "current_user"

// UserResolver confirms that a token subject still exists and loads the
// profile attached to the request context.
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// CurrentUser returns the authenticated user set by RequireAuth or
// OptionalAuth. ok is false when the request carries no identity.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return domain.User{}, false
	}
	u, ok := v.(domain.User)
	return u, ok
}

// RequireAuth returns a middleware that extracts a bearer token, verifies it,
// resolves the subject and attaches the user to the request context. Any
// failure rejects the request with 401 and a reason-appropriate message.
func RequireAuth(tokens *TokenService, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, reason := authenticate(c, tokens, users)
		if reason != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": reason})
			return
		}
		c.Set(contextKeyUser, user)
		c.Next()
	}
}

// OptionalAuth runs the same extraction and verification as RequireAuth but
// never rejects: on any failure the request continues with no identity
// attached. For routes that degrade gracefully without a caller identity.
func OptionalAuth(tokens *TokenService, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, reason := authenticate(c, tokens, users)
		if reason == "" {
			c.Set(contextKeyUser, user)
		}
		c.Next()
	}
}

// authenticate walks the header → verify → resolve chain. A non-empty reason
// means the request carries no usable identity.
func authenticate(c *gin.Context, tokens *TokenService, users UserResolver) (domain.User, string) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return domain.User{}, "Access denied. No token provided."
	}

	claims, err := tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
	if err != nil {
		log.Printf("auth: token rejected: %v", err)
		switch {
		case errors.Is(err, ErrTokenExpired):
			return domain.User{}, "Token has expired"
		case errors.Is(err, ErrTokenMalformed):
			return domain.User{}, "Malformed token"
		default:
			return domain.User{}, "Invalid token"
		}
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.User{}, "Invalid token"
	}
	user, err := users.GetByID(c.Request.Context(), id)
	if err != nil {
		return domain.User{}, "Token is valid but user not found"
	}
	return user, ""
}
