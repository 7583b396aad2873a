package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradehub/gradehub-backend/internal/model"
	"github.com/gradehub/gradehub-backend/internal/response"
	"github.com/gradehub/gradehub-backend/internal/service"
	"github.com/gradehub/gradehub-backend/internal/validator"
)

// ClassHandler handles class management (CRUD).
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// ListClasses godoc
// GET /api/v1/classes
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.classService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// GetClass godoc
// GET /api/v1/classes/:id
func (h *ClassHandler) GetClass(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	class, err := h.classService.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// CreateClass godoc
// POST /api/v1/classes
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Create(c.Request.Context(), &req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// UpdateClass godoc
// PUT /api/v1/classes/:id
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// DeleteClass godoc
// DELETE /api/v1/classes/:id
// Fails with 409 while students are still attached.
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.classService.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "class deleted successfully"})
}
