package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskforge/api/internal/domain"
	"github.com/taskforge/api/internal/metrics"
	"github.com/taskforge/api/internal/token"
	"github.com/taskforge/api/internal/transport/http/middleware"
	"github.com/taskforge/api/internal/usecase"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

var (
	accessCookieMaxAge  = int(token.AccessTTL / time.Second)
	refreshCookieMaxAge = int(token.RefreshTTL / time.Second)
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthResult, error)
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

type AuthHandler struct {
	auth          authUsecaser
	logger        *slog.Logger
	secureCookies bool
	dev           bool
}

// NewAuthHandler builds the auth endpoints. secureCookies should be true in
// production; dev exposes internal error messages.
func NewAuthHandler(auth authUsecaser, logger *slog.Logger, secureCookies, dev bool) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		logger:        logger.With("component", "auth_handler"),
		secureCookies: secureCookies,
		dev:           dev,
	}
}

type registerRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name"     binding:"required,min=1,max=100"`
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.error(c, bindingError(err))
		return
	}

	result, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.error(c, err)
		return
	}

	metrics.RegistrationsTotal.Inc()
	h.setSessionCookies(c, result.Tokens)
	respond(c, http.StatusCreated, gin.H{
		"user":        newUserResponse(result.User),
		"accessToken": result.Tokens.AccessToken,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.error(c, bindingError(err))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		h.error(c, err)
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	h.setSessionCookies(c, result.Tokens)
	respond(c, http.StatusOK, gin.H{
		"user":        newUserResponse(result.User),
		"accessToken": result.Tokens.AccessToken,
	})
}

// POST /auth/refresh
// The refresh token comes from the cookie, or from the body for non-browser
// clients. A valid token rotates the full pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, _ := c.Cookie(refreshCookie)
	if raw == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			raw = req.RefreshToken
		}
	}
	if raw == "" {
		h.error(c, domain.NewError(domain.KindUnauthenticated, "Refresh token required"))
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), raw)
	if err != nil {
		h.error(c, err)
		return
	}

	h.setSessionCookies(c, pair)
	respond(c, http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

// POST /auth/logout
// Clearing cookies is all there is to it; calling it without a session is
// fine, so the endpoint never fails.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookies(c)
	respond(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	user, err := h.auth.CurrentUser(c.Request.Context(), principal.UserID)
	if err != nil {
		h.error(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"user": newUserResponse(user)})
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, pair *domain.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, pair.AccessToken, accessCookieMaxAge, "/", "", h.secureCookies, true)
	c.SetCookie(refreshCookie, pair.RefreshToken, refreshCookieMaxAge, "/", "", h.secureCookies, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", h.secureCookies, true)
}

func (h *AuthHandler) error(c *gin.Context, err error) {
	writeError(c, h.logger, h.dev, err)
}
