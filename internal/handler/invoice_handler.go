package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fixpoint-works/repairdesk-api/internal/invoice"
	"github.com/fixpoint-works/repairdesk-api/internal/middleware"
	"github.com/fixpoint-works/repairdesk-api/internal/model"
	"github.com/fixpoint-works/repairdesk-api/internal/service"
	"github.com/fixpoint-works/repairdesk-api/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/invoices", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleTechnician))
	{
		invoices.POST("/generate", h.GenerateInvoice)
	}
}

// GenerateInvoice handles POST /invoices/generate
// @Summary      Generate an invoice PDF
// @Description  Resolves the selected parts, computes totals and streams the rendered PDF back as an attachment. The document is not stored server-side.
// @Tags         invoices
// @Accept       json
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        payload  body      service.GenerateInvoiceRequest  true  "Invoice Generation Payload"
// @Success      200      {file}    file
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /invoices/generate [post]
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	var req service.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	artifact, err := h.invoiceService.GenerateInvoice(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, invoice.ErrGenerationInProgress):
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
		case errors.Is(err, invoice.ErrNoItems), errors.Is(err, invoice.ErrClientRequired):
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		case errors.Is(err, invoice.ErrRenderFailed):
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		default:
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Header("X-Page-Count", fmt.Sprintf("%d", artifact.PageCount))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}
