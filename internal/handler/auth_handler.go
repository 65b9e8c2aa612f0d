package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"userauth/internal/auth"
	"userauth/internal/config"
	"userauth/internal/errors"
	"userauth/internal/model"
	"userauth/internal/service"
)

// Client-facing messages.
const (
	MsgSignupIncomplete = "Please fill all fields"
	MsgLoginIncomplete  = "Please fill all details"
	MsgUserNotFound     = "User not found"
	MsgLoggedOut        = "Logged Out"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookie      config.CookieConfig
}

// NewAuthHandler creates a new auth handler writing cookies as described by cookie.
func NewAuthHandler(authService service.AuthService, cookie config.CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = auth.CookieName
	}
	if cookie.TTL <= 0 {
		cookie.TTL = auth.DefaultTokenExpiry
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &AuthHandler{authService: authService, cookie: cookie}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	User    *model.UserView `json:"user"`
}

// ProfileResponse is returned by the profile endpoint.
type ProfileResponse struct {
	Success bool            `json:"success"`
	User    *model.UserView `json:"user"`
}

// MessageResponse is a success envelope with a message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Signup godoc
// @Summary Sign up a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		req = SignupRequest{}
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return errors.Incomplete(MsgSignupIncomplete)
	}

	token, user, err := h.authService.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return c.JSON(http.StatusOK, AuthResponse{Success: true, Token: token, User: user})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		req = LoginRequest{}
	}
	if req.Email == "" || req.Password == "" {
		return errors.Incomplete(MsgLoginIncomplete)
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return c.JSON(http.StatusOK, AuthResponse{Success: true, Token: token, User: user})
}

// Logout godoc
// @Summary Logout user
// @Description Expires the token cookie. Works with or without a session.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/logout [get]
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     h.cookie.Path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: h.cookie.SameSite,
	})
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: MsgLoggedOut})
}

// GetProfile godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security CookieAuth
// @Security BearerAuth
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return errors.Unauthorized(MsgUserNotFound)
	}
	return c.JSON(http.StatusOK, ProfileResponse{Success: true, User: user})
}

func (h *AuthHandler) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     h.cookie.Path,
		Expires:  time.Now().Add(h.cookie.TTL),
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: h.cookie.SameSite,
	})
}
