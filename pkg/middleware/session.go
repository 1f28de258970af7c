package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/prohmpiriya/lensdesk/pkg/response"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Context keys for the session principal
const (
	ContextKeyUserID    = "user_id"
	ContextKeyFirmID    = "firm_id"
	ContextKeySessionID = "session_id"
)

// Principal is who a request acts as. FirmID is empty for an admin without a firm.
type Principal struct {
	UserID    string
	FirmID    string
	SessionID string
}

// SessionLoader resolves a session id to its principal; (nil, nil) means no such session
type SessionLoader interface {
	Load(ctx context.Context, sessionID string) (*Principal, error)
}

// TokenConfig holds the session token signing settings
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// IssueToken signs a token that carries only the session id
func IssueToken(cfg TokenConfig, sessionID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(cfg.TTL)
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken validates the signature and expiry and returns the session id
func ParseToken(cfg TokenConfig, tokenString string) (string, error) {
	claims := &sessionClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidToken
	}
	return claims.SessionID, nil
}

// SessionConfig configures the Session middleware
type SessionConfig struct {
	Token      TokenConfig
	CookieName string
	Loader     SessionLoader
}

// Session identifies the caller from the session cookie or a Bearer token.
// It never aborts: a missing or invalid session leaves the context empty.
func Session(config SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c, config.CookieName)
		if tokenString == "" {
			c.Next()
			return
		}

		sessionID, err := ParseToken(config.Token, tokenString)
		if err != nil {
			c.Next()
			return
		}

		principal, err := config.Loader.Load(c.Request.Context(), sessionID)
		if err != nil {
			logger.Get().WithContext(c.Request.Context()).Error("failed to load session", zap.Error(err))
			c.Next()
			return
		}
		if principal == nil {
			c.Next()
			return
		}

		c.Set(ContextKeyUserID, principal.UserID)
		c.Set(ContextKeySessionID, principal.SessionID)
		if principal.FirmID != "" {
			c.Set(ContextKeyFirmID, principal.FirmID)
			c.Request = c.Request.WithContext(logger.ContextWithFirmID(c.Request.Context(), principal.FirmID))
		}

		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v
		}
	}

	const bearerPrefix = "Bearer "
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimSpace(authHeader[len(bearerPrefix):])
	}
	return ""
}

// RequireUser rejects requests without an authenticated user
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized(""))
			return
		}
		c.Next()
	}
}

// RequireFirm rejects requests unless both the user and the firm are known.
// An admin who has not created a firm yet is treated as unauthenticated here.
func RequireFirm() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, hasUser := GetUserID(c)
		_, hasFirm := GetFirmID(c)
		if !hasUser || !hasFirm {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized(""))
			return
		}
		c.Next()
	}
}

// GetUserID extracts user ID from gin context
func GetUserID(c *gin.Context) (string, bool) {
	return getString(c, ContextKeyUserID)
}

// GetFirmID extracts the session firm from gin context
func GetFirmID(c *gin.Context) (string, bool) {
	return getString(c, ContextKeyFirmID)
}

// GetSessionID extracts the session id from gin context
func GetSessionID(c *gin.Context) (string, bool) {
	return getString(c, ContextKeySessionID)
}

func getString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
