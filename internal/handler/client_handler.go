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

// ClientHandler handles the firm's clients
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List handles GET /api/clients
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clientService.List(c.Request.Context(), actor(c).FirmID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(clients, 0))
}

// Create handles POST /api/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), actor(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(client))
}

// Get handles GET /api/clients/:id after the ownership check
func (h *ClientHandler) Get(c *gin.Context) {
	client, ok := middleware.OwnedResource[*domain.Client](c)
	if !ok {
		writeError(c, service.ErrClientNotFound)
		return
	}
	c.JSON(http.StatusOK, response.Success(client))
}
