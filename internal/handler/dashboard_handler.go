package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/dto"
	"github.com/prohmpiriya/lensdesk/internal/service"
	"github.com/prohmpiriya/lensdesk/pkg/response"
)

// DashboardHandler serves the aggregation endpoints and the activity feed
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats handles GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context(), actor(c).FirmID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(stats))
}

// FinancialSummary handles GET /api/dashboard/financial-summary
func (h *DashboardHandler) FinancialSummary(c *gin.Context) {
	summary, err := h.dashboardService.FinancialSummary(c.Request.Context(), actor(c).FirmID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(summary))
}

// Activity handles GET /api/activity?limit=N
func (h *DashboardHandler) Activity(c *gin.Context) {
	var query dto.ActivityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("limit must be a number"))
		return
	}

	limit := domain.ClampActivityLimit(query.Limit)
	entries, err := h.dashboardService.RecentActivity(c.Request.Context(), actor(c).FirmID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(entries, limit))
}
