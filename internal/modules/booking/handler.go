package booking

import (
	"net/http"
	"strconv"

	"classbook/internal/middleware"
	"classbook/internal/pkg/response"
	"classbook/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/bookings/classroom/:classroomId", h.GetClassroomBookings)
		public.POST("/bookings/check-availability", h.CheckAvailability)
	}

	if protected != nil {
		bookings := protected.Group("/bookings")
		bookings.GET("", h.ListBookings)
		bookings.GET("/user/:userId", h.ListUserBookings)
		bookings.GET("/date/:date", h.GetBookingsForDate)
		bookings.GET("/stats", h.GetStats)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("", h.CreateBooking)
		bookings.PUT("/:id/status", h.UpdateStatus)
		bookings.PUT("/:id/cancel", h.Cancel)
		bookings.DELETE("/:id", h.DeleteBooking)
	}
}

func (h *Handler) ListBookings(c *gin.Context) {
	list, err := h.service.ListBookings(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

func (h *Handler) ListUserBookings(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	list, err := h.service.ListUserBookings(c.Request.Context(), middleware.CallerFrom(c), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

func (h *Handler) GetClassroomBookings(c *gin.Context) {
	classroomID, ok := idParam(c, "classroomId")
	if !ok {
		return
	}
	list, err := h.service.GetBookingsForClassroom(c.Request.Context(), classroomID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

func (h *Handler) GetBookingsForDate(c *gin.Context) {
	list, err := h.service.GetBookingsForDate(c.Request.Context(), middleware.CallerFrom(c), c.Param("date"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// CheckAvailability answers whether a slot can be booked right now. It does
// not reserve anything.
func (h *Handler) CheckAvailability(c *gin.Context) {
	var q AvailabilityQuery
	if err := validator.BindJSON(c, &q); err != nil {
		response.FromError(c, err)
		return
	}
	res, err := h.service.CheckAvailability(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// CreateBooking godoc
// @Summary   Create a booking
// @Tags      Bookings
// @Security  BearerAuth
// @Param     request body CreateBookingRequest true "classroom, date, time range and purpose"
// @Success   201 {object} map[string]interface{}
// @Failure   400 {object} map[string]interface{} "invalid date, time or empty purpose"
// @Failure   404 {object} map[string]interface{} "unknown classroom"
// @Failure   409 {object} map[string]interface{} "classroom unavailable or slot taken"
// @Router    /bookings [POST]
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := validator.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := validator.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	b, err := h.service.SetStatus(c.Request.Context(), middleware.CallerFrom(c), id, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	b, err := h.service.Cancel(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteBooking(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Booking removed"})
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}
