package dto

import dom "github.com/muhzarfan/backend-cttn/internal/domain"

// RegisterRequest is the JSON body for POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the JSON body for PUT /api/auth/profile.
// nil = keep the current value.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthData is returned by register and login: the signed token, the user it
// identifies and the token lifetime (e.g. "7d").
type AuthData struct {
	Token     string       `json:"token"`
	User      UserResponse `json:"user"`
	ExpiresIn string       `json:"expiresIn"`
}

// UserToResponse converts a domain user to its public view.
func UserToResponse(u dom.User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
	}
}
