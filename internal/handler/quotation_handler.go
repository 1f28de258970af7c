package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/dto"
	"github.com/prohmpiriya/lensdesk/internal/service"
	"github.com/prohmpiriya/lensdesk/pkg/middleware"
	"github.com/prohmpiriya/lensdesk/pkg/response"
)

// QuotationHandler handles quotations and their conversion into events
type QuotationHandler struct {
	quotationService service.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// List handles GET /api/quotations
func (h *QuotationHandler) List(c *gin.Context) {
	quotations, err := h.quotationService.List(c.Request.Context(), actor(c).FirmID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(quotations, 0))
}

// Create handles POST /api/quotations
func (h *QuotationHandler) Create(c *gin.Context) {
	var req dto.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	q, err := h.quotationService.Create(c.Request.Context(), actor(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(q))
}

// Get handles GET /api/quotations/:id after the ownership check
func (h *QuotationHandler) Get(c *gin.Context) {
	q, ok := middleware.OwnedResource[*domain.Quotation](c)
	if !ok {
		writeError(c, service.ErrQuotationNotFound)
		return
	}
	c.JSON(http.StatusOK, response.Success(q))
}

// Convert handles POST /api/quotations/:id/convert. The body is optional.
func (h *QuotationHandler) Convert(c *gin.Context) {
	var req dto.ConvertQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBindError(c, err)
		return
	}
	q, ok := middleware.OwnedResource[*domain.Quotation](c)
	if !ok {
		writeError(c, service.ErrQuotationNotFound)
		return
	}

	result, err := h.quotationService.Convert(c.Request.Context(), actor(c), q.ID, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(result))
}
