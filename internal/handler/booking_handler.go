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

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// RegisterRoutes binds the repair booking endpoints. Booking creation is
// public so the storefront form works without a login; everything else
// is back-office.
func (h *BookingHandler) RegisterRoutes(router *gin.RouterGroup) {
	bookings := router.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)

		staff := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleTechnician)
		bookings.GET("", staff, h.ListBookings)
		bookings.GET("/:id", staff, h.GetBooking)
		bookings.PATCH("/:id/status", staff, h.UpdateStatus)
	}
}

// CreateBooking handles POST /bookings
// @Summary      Create a repair booking
// @Description  Registers a device repair request and assigns it a booking code
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBookingRequest  true  "Create Booking Payload"
// @Success      201      {object}  response.Response{data=service.BookingResponse}
// @Failure      400      {object}  response.Response
// @Router       /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, booking))
}

// ListBookings handles GET /bookings
// @Summary      List repair bookings
// @Description  Retrieves a paginated list of bookings, optionally filtered by status
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        status  query     string  false  "Booking status filter"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	params := pagination.Parse(c)
	status := c.Query("status")

	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(), status, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch bookings"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetBooking handles GET /bookings/:id
// @Summary      Get booking by ID
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response{data=service.BookingResponse}
// @Failure      404  {object}  response.Response
// @Router       /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}

// UpdateStatus handles PATCH /bookings/:id/status
// @Summary      Update booking status
// @Description  Moves a booking through the repair workflow; invalid transitions are rejected
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                              true  "Booking ID"
// @Param        payload  body      service.UpdateBookingStatusRequest  true  "Status Update Payload"
// @Success      200      {object}  response.Response{data=service.BookingResponse}
// @Failure      400      {object}  response.Response
// @Router       /bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}
