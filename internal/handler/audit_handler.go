package handler

import (
	"net/http"

	"github.com/fixpoint-works/repairdesk-api/internal/middleware"
	"github.com/fixpoint-works/repairdesk-api/internal/model"
	"github.com/fixpoint-works/repairdesk-api/internal/service"
	"github.com/fixpoint-works/repairdesk-api/pkg/pagination"
	"github.com/fixpoint-works/repairdesk-api/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit-logs", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.ListLogs)
}

// ListLogs handles GET /audit-logs
// @Summary      List audit logs
// @Description  Retrieves a paginated audit trail of catalog, booking and invoice actions
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /audit-logs [get]
func (h *AuditHandler) ListLogs(c *gin.Context) {
	params := pagination.Parse(c)

	logs, total, err := h.auditService.ListLogs(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch audit logs"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"logs":  logs,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}
