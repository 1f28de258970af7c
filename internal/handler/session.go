package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/lensdesk/internal/service"
	"github.com/prohmpiriya/lensdesk/pkg/middleware"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

func (cfg CookieConfig) set(c *gin.Context, sess *service.IssuedSession, now time.Time) {
	maxAge := int(sess.ExpiresAt.Sub(now).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.Name, sess.Token, maxAge, "/", cfg.Domain, cfg.Secure, true)
}

func (cfg CookieConfig) expire(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.Name, "", -1, "/", cfg.Domain, cfg.Secure, true)
}

// actor is the acting identity of an authenticated request
func actor(c *gin.Context) service.Actor {
	userID, _ := middleware.GetUserID(c)
	firmID, _ := middleware.GetFirmID(c)
	return service.Actor{UserID: userID, FirmID: firmID}
}
