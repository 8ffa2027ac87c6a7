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

type PartHandler struct {
	catalogService service.CatalogService
}

func NewPartHandler(catalogService service.CatalogService) *PartHandler {
	return &PartHandler{catalogService: catalogService}
}

// RegisterRoutes binds the catalog endpoints. Browsing is public so the
// storefront can render the parts list without a login; mutations are
// restricted to back-office roles.
func (h *PartHandler) RegisterRoutes(router *gin.RouterGroup) {
	parts := router.Group("/parts")
	{
		parts.GET("", h.ListParts)
		parts.GET("/:id", h.GetPart)

		parts.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.CreatePart)
		parts.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.UpdatePart)
		parts.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeletePart)
		parts.POST("/:id/stock", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleTechnician), h.AdjustStock)
		parts.GET("/:id/movements", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.ListMovements)
	}
}

// ListParts handles GET /parts with pagination and search
// @Summary      List spare parts
// @Description  Retrieves a paginated catalog of spare parts, optionally filtered by a search term over name, brand and model
// @Tags         parts
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search term"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /parts [get]
func (h *PartHandler) ListParts(c *gin.Context) {
	params := pagination.Parse(c)
	search := c.Query("search")

	parts, total, err := h.catalogService.GetParts(c.Request.Context(), params.Page, params.Limit, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch parts"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"parts": parts,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetPart handles GET /parts/:id
// @Summary      Get part by ID
// @Description  Fetch a single spare part by its UUID
// @Tags         parts
// @Produce      json
// @Param        id   path      string  true  "Part ID"
// @Success      200  {object}  response.Response{data=service.PartResponse}
// @Failure      404  {object}  response.Response
// @Router       /parts/{id} [get]
func (h *PartHandler) GetPart(c *gin.Context) {
	part, err := h.catalogService.GetPart(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, part))
}

// CreatePart handles POST /parts
// @Summary      Create a spare part
// @Description  Adds a new spare part to the catalog with zero initial stock
// @Tags         parts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePartRequest  true  "Create Part Payload"
// @Success      201      {object}  response.Response{data=service.PartResponse}
// @Failure      400      {object}  response.Response
// @Router       /parts [post]
func (h *PartHandler) CreatePart(c *gin.Context) {
	var req service.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	part, err := h.catalogService.CreatePart(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, part))
}

// UpdatePart handles PUT /parts/:id
// @Summary      Update a spare part
// @Description  Updates a part's catalog details; stock is adjusted separately
// @Tags         parts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Part ID"
// @Param        payload  body      service.UpdatePartRequest  true  "Update Part Payload"
// @Success      200      {object}  response.Response{data=service.PartResponse}
// @Failure      400      {object}  response.Response
// @Router       /parts/{id} [put]
func (h *PartHandler) UpdatePart(c *gin.Context) {
	var req service.UpdatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	part, err := h.catalogService.UpdatePart(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, part))
}

// DeletePart handles DELETE /parts/:id
// @Summary      Delete a spare part
// @Description  Removes a part from the catalog
// @Tags         parts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Part ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /parts/{id} [delete]
func (h *PartHandler) DeletePart(c *gin.Context) {
	if err := h.catalogService.DeletePart(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Part deleted successfully"))
}

// AdjustStock handles POST /parts/:id/stock
// @Summary      Adjust part stock
// @Description  Applies a positive or negative stock change, records the movement and broadcasts the new level
// @Tags         parts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Part ID"
// @Param        payload  body      service.AdjustStockRequest  true  "Stock Adjustment Payload"
// @Success      200      {object}  response.Response{data=service.PartResponse}
// @Failure      400      {object}  response.Response
// @Router       /parts/{id}/stock [post]
func (h *PartHandler) AdjustStock(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	part, err := h.catalogService.AdjustStock(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, part))
}

// ListMovements handles GET /parts/:id/movements
// @Summary      List stock movements
// @Description  Retrieves the stock movement history for a part, newest first
// @Tags         parts
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Part ID"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      400    {object}  response.Response
// @Router       /parts/{id}/movements [get]
func (h *PartHandler) ListMovements(c *gin.Context) {
	params := pagination.Parse(c)

	movements, total, err := h.catalogService.GetMovements(c.Request.Context(), c.Param("id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"movements": movements,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}
