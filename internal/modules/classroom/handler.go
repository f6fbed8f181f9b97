package classroom

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
		public.GET("/classrooms", h.List)
		public.GET("/classrooms/:id", h.Get)
	}

	if protected != nil {
		admin := protected.Group("/classrooms", middleware.AdminOnly())
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classrooms": list, "count": len(list)})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := classroomID(c)
	if !ok {
		return
	}
	room, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classroom": room})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateClassroomRequest
	if err := validator.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}
	room, err := h.service.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"classroom": room})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := classroomID(c)
	if !ok {
		return
	}
	var req UpdateClassroomRequest
	if err := validator.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}
	room, err := h.service.Update(c.Request.Context(), middleware.CallerFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classroom": room})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := classroomID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Classroom deleted"})
}

func classroomID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid classroom ID")
		return 0, false
	}
	return id, true
}
