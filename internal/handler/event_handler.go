package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/dto"
	"github.com/prohmpiriya/lensdesk/internal/service"
	"github.com/prohmpiriya/lensdesk/pkg/middleware"
	"github.com/prohmpiriya/lensdesk/pkg/response"
)

// EventHandler handles bookings
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List handles GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventService.List(c.Request.Context(), actor(c).FirmID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(events, 0))
}

// Create handles POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), actor(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(event))
}

// Get handles GET /api/events/:id after the ownership check
func (h *EventHandler) Get(c *gin.Context) {
	event, ok := middleware.OwnedResource[*domain.EventWithClient](c)
	if !ok {
		writeError(c, service.ErrEventNotFound)
		return
	}
	c.JSON(http.StatusOK, response.Success(event))
}

// UpdateStatus handles PATCH /api/events/:id/status
func (h *EventHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	event, ok := middleware.OwnedResource[*domain.EventWithClient](c)
	if !ok {
		writeError(c, service.ErrEventNotFound)
		return
	}

	updated, err := h.eventService.UpdateStatus(c.Request.Context(), actor(c), &event.Event, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(updated))
}
