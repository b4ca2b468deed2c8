package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/muhzarfan/backend-cttn/internal/domain"
)

const (
	// Issuer and Audience are fixed for this deployment; tokens minted by
	// anything else are rejected.
	Issuer   = "notesapp-api"
	Audience = "notesapp-client"
)

// Verification failures. All of them surface to clients as a plain 401; the
// distinction exists for logging and the reason-specific message only.
var (
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenMalformed   = errors.New("token is malformed")
	ErrIssuerMismatch   = errors.New("token issuer mismatch")
	ErrAudienceMismatch = errors.New("token audience mismatch")
	ErrTokenInvalid     = errors.New("token is invalid")
)

// Claims carried by every issued token. Subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenService issues and verifies signed identity tokens. Tokens are
// stateless: the signature is verifiable without a store lookup, but callers
// still resolve the subject to confirm the user exists.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
}

// NewTokenService returns a TokenService signing with secret. Tokens expire
// after expiresIn (the config layer guarantees a positive value).
func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), expiresIn: expiresIn}
}

// Issue signs a token for the given user.
func (s *TokenService) Issue(u domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
		},
		Username: u.Username,
		Email:    u.Email,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates signature, issuer, audience and expiry, and returns the
// claims. The returned error is one of the sentinel errors above.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, ErrIssuerMismatch
		case errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, ErrAudienceMismatch
		default:
			return nil, ErrTokenInvalid
		}
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
