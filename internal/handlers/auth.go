package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhzarfan/backend-cttn/internal/auth"
	dom "github.com/muhzarfan/backend-cttn/internal/domain"
	"github.com/muhzarfan/backend-cttn/internal/dto"
	"github.com/muhzarfan/backend-cttn/internal/service"
)

// TokenIssuer signs identity tokens for register and login responses.
// Satisfied by auth.TokenService.
type TokenIssuer interface {
	Issue(u dom.User) (string, error)
}

// AuthHandler handles register, login, profile and logout.
type AuthHandler struct {
	tokens    TokenIssuer
	userSvc   *service.UserService
	expiresIn string
}

// NewAuthHandler returns a new AuthHandler. expiresIn is the token lifetime
// label echoed to clients (e.g. "7d").
func NewAuthHandler(tokens TokenIssuer, userSvc *service.UserService, expiresIn string) *AuthHandler {
	return &AuthHandler{tokens: tokens, userSvc: userSvc, expiresIn: expiresIn}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "Credentials"
// @Success      201   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Failure      500   {object}  dto.Envelope
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request body"))
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeUserError(c, err, "Server error during registration")
		return
	}
	h.writeTokenResponse(c, http.StatusCreated, "User registered successfully", "Server error during registration", user)
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      401   {object}  dto.Envelope
// @Failure      500   {object}  dto.Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, dto.Fail("Username and password are required"))
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, dto.Fail("Invalid username or password"))
			return
		}
		log.Printf("login: %v", err)
		c.JSON(http.StatusInternalServerError, dto.Fail("Server error during login"))
		return
	}
	h.writeTokenResponse(c, http.StatusOK, "Login successful", "Server error during login", user)
}

// GetProfile godoc
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.Envelope
// @Failure      401  {object}  dto.Envelope
// @Router       /auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	c.JSON(http.StatusOK, dto.OK(gin.H{"user": dto.UserToResponse(user)}))
}

// UpdateProfile godoc
// @Summary      Update username and/or email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.UpdateProfileRequest  true  "Fields to change"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Failure      500   {object}  dto.Envelope
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request body"))
		return
	}
	current, _ := auth.CurrentUser(c)
	user, err := h.userSvc.UpdateProfile(c.Request.Context(), current, req.Username, req.Email)
	if err != nil {
		h.writeUserError(c, err, "Server error while updating profile")
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("Profile updated successfully", gin.H{"user": dto.UserToResponse(user)}))
}

// Logout godoc
// @Summary      Logout
// @Description  Tokens are stateless; the client discards its copy.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	msg := "Logout successful, please discard the token on the client"
	if user, ok := auth.CurrentUser(c); ok {
		msg = "Goodbye, " + user.Username + ". Please discard the token on the client"
	}
	c.JSON(http.StatusOK, dto.OKMessage(msg, nil))
}

func (h *AuthHandler) writeTokenResponse(c *gin.Context, status int, message, internalMsg string, user dom.User) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Printf("issue token: %v", err)
		c.JSON(http.StatusInternalServerError, dto.Fail(internalMsg))
		return
	}
	c.JSON(status, dto.OKMessage(message, dto.AuthData{
		Token:     token,
		User:      dto.UserToResponse(user),
		ExpiresIn: h.expiresIn,
	}))
}

// writeUserError translates UserService errors: per-field 400, conflict 409
// naming the field, otherwise a logged 500 with a generic message.
func (h *AuthHandler) writeUserError(c *gin.Context, err error, internalMsg string) {
	if ve, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, dto.FailFields("Validation error", ve.Fields))
		return
	}
	if ce, ok := service.AsConflictError(err); ok {
		c.JSON(http.StatusConflict, dto.Fail(ce.Field+" already in use"))
		return
	}
	log.Printf("user: %v", err)
	c.JSON(http.StatusInternalServerError, dto.Fail(internalMsg))
}
