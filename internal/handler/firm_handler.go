package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/lensdesk/internal/dto"
	"github.com/prohmpiriya/lensdesk/internal/service"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/prohmpiriya/lensdesk/pkg/middleware"
	"github.com/prohmpiriya/lensdesk/pkg/response"
	"go.uber.org/zap"
)

// FirmHandler handles firm listing and creation
type FirmHandler struct {
	firmService service.FirmService
	sessions    *service.SessionManager
	cookie      CookieConfig
	now         func() time.Time
}

// NewFirmHandler creates a new FirmHandler
func NewFirmHandler(firmService service.FirmService, sessions *service.SessionManager, cookie CookieConfig) *FirmHandler {
	return &FirmHandler{firmService: firmService, sessions: sessions, cookie: cookie, now: time.Now}
}

// List returns active firms without their pins
// GET /api/firms
func (h *FirmHandler) List(c *gin.Context) {
	firms, err := h.firmService.ListPublic(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(firms, 0))
}

// Create lets an admin without a firm create one. The session is re-issued with the new firm.
// POST /api/firms
func (h *FirmHandler) Create(c *gin.Context) {
	var req dto.CreateFirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	userID, _ := middleware.GetUserID(c)
	firm, err := h.firmService.Create(ctx, userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	sess, err := h.sessions.Create(ctx, userID, firm.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	if old, ok := middleware.GetSessionID(c); ok {
		if err := h.sessions.Destroy(ctx, old); err != nil {
			logger.Get().WithContext(ctx).Warn("failed to destroy previous session", zap.Error(err))
		}
	}
	h.cookie.set(c, sess, h.now())

	c.JSON(http.StatusCreated, response.Success(gin.H{"firm": firm, "token": sess.Token}))
}
