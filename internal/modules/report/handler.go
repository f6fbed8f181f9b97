package report

import (
	"net/http"
	"net/url"
	"strconv"

	"classbook/internal/middleware"
	"classbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	export := protected.Group("/export")
	export.GET("/bookings/:format", h.ExportBookings)
	export.GET("/user-bookings/:format/:userId", h.ExportUserBookings)
}

// ExportBookings
// GET /api/v1/export/bookings/:format?status=&startDate=&endDate=&classroomId=
func (h *Handler) ExportBookings(c *gin.Context) {
	format, err := ParseFormat(c.Param("format"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	f := ParseFilter(c.Query("status"), c.Query("startDate"), c.Query("endDate"), c.Query("classroomId"))

	exp, err := h.service.ExportAll(c.Request.Context(), middleware.CallerFrom(c), format, f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	sendFile(c, exp)
}

func (h *Handler) ExportUserBookings(c *gin.Context) {
	format, err := ParseFormat(c.Param("format"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid userId")
		return
	}

	exp, err := h.service.ExportUser(c.Request.Context(), middleware.CallerFrom(c), format, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	sendFile(c, exp)
}

func sendFile(c *gin.Context, exp *Export) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(exp.Filename))
	c.Header("X-Total-Count", strconv.Itoa(exp.Rows))
	c.Data(http.StatusOK, exp.ContentType, exp.Body.Bytes())
}
