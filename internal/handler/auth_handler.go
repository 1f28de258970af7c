package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/dto"
	"github.com/prohmpiriya/lensdesk/internal/service"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/prohmpiriya/lensdesk/pkg/middleware"
	"github.com/prohmpiriya/lensdesk/pkg/response"
	"go.uber.org/zap"
)

// AuthHandler handles login, signup and session endpoints
type AuthHandler struct {
	authService service.AuthService
	cookie      CookieConfig
	now         func() time.Time
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, now: time.Now}
}

// Login handles PIN or email login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, response.InvalidCredentials())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.loginFailed(c, err)
		return
	}
	h.loggedIn(c, result)
}

// LoginWithEmail handles email and password login
// POST /api/auth/login-email
func (h *AuthHandler) LoginWithEmail(c *gin.Context) {
	var req dto.EmailLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, response.InvalidCredentials())
		return
	}

	result, err := h.authService.LoginWithEmail(c.Request.Context(), &req)
	if err != nil {
		h.loginFailed(c, err)
		return
	}
	h.loggedIn(c, result)
}

// Every credential failure reads the same; only server trouble is distinguishable
func (h *AuthHandler) loginFailed(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrValidation) {
		c.JSON(http.StatusUnauthorized, response.InvalidCredentials())
		return
	}
	writeError(c, err)
}

func (h *AuthHandler) loggedIn(c *gin.Context, result *service.LoginResult) {
	if old, ok := middleware.GetSessionID(c); ok && old != result.Session.ID {
		if err := h.authService.Logout(c.Request.Context(), old); err != nil {
			logger.Get().WithContext(c.Request.Context()).Warn("failed to destroy previous session", zap.Error(err))
		}
	}
	h.cookie.set(c, result.Session, h.now())
	c.JSON(http.StatusOK, response.Success(&dto.AuthResponse{
		User:  result.User,
		Firm:  result.Firm,
		Token: result.Session.Token,
	}))
}

// Signup handles user registration; it does not log in
// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(result))
}

// Logout destroys the current session and expires the cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)
	if err := h.authService.Logout(c.Request.Context(), sessionID); err != nil {
		logger.Get().WithContext(c.Request.Context()).Warn("failed to destroy session", zap.Error(err))
	}
	h.cookie.expire(c)
	c.JSON(http.StatusOK, response.Success(gin.H{"loggedOut": true}))
}

// Me returns the session user and firm
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	result, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}
