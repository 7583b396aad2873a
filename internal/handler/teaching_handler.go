package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradehub/gradehub-backend/internal/middleware"
	"github.com/gradehub/gradehub-backend/internal/model"
	"github.com/gradehub/gradehub-backend/internal/perm"
	"github.com/gradehub/gradehub-backend/internal/propagation"
	"github.com/gradehub/gradehub-backend/internal/response"
	"github.com/gradehub/gradehub-backend/internal/service"
	"github.com/gradehub/gradehub-backend/internal/validator"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TeachingHandler handles Teaches rows. Enrolled students see the rows of
// their courses; only the owning instructor can change one.
type TeachingHandler struct {
	teachingService *service.TeachingService
	access          *access
}

// NewTeachingHandler creates a new TeachingHandler.
func NewTeachingHandler(pool *pgxpool.Pool, teachingService *service.TeachingService) *TeachingHandler {
	return &TeachingHandler{
		teachingService: teachingService,
		access:          newAccess(pool),
	}
}

func (h *TeachingHandler) canView(c *gin.Context, teachesID int64) (bool, error) {
	claims := middleware.GetClaims(c)
	obj := perm.ObjectRef{Kind: propagation.KindTeaches, ID: teachesID}
	return h.access.can(c, propagation.PermViewTeaches, claims.UserID, obj)
}

func (h *TeachingHandler) canChange(c *gin.Context, teachesID int64) (bool, error) {
	claims := middleware.GetClaims(c)
	obj := perm.ObjectRef{Kind: propagation.KindTeaches, ID: teachesID}
	return h.access.can(c, propagation.PermChangeTeaches, claims.UserID, obj)
}

// ListCourseTeaches godoc
// GET /api/v1/courses/:id/teaches
// Lists the teaching rows of a course that are visible to the viewer.
func (h *TeachingHandler) ListCourseTeaches(c *gin.Context) {
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	teaches, err := h.teachingService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	views := make([]model.Teaches, 0, len(teaches))
	for i := range teaches {
		visible, err := h.canView(c, teaches[i].ID)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if visible {
			views = append(views, teaches[i])
		}
	}

	response.Success(c, http.StatusOK, gin.H{"teaches": views})
}

// GetTeaches godoc
// GET /api/v1/teaches/:id
func (h *TeachingHandler) GetTeaches(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	teaches, err := h.teachingService.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}

	visible, err := h.canView(c, id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"teaches": teaches})
}

// createTeachesPayload assigns an instructor to the course in the path.
type createTeachesPayload struct {
	InstructorID int64 `json:"instructor_id" binding:"required"`
}

// CreateTeaches godoc
// POST /api/v1/courses/:id/teaches
// Assigns an instructor, linking permissions with enrolled students and
// co-instructors.
func (h *TeachingHandler) CreateTeaches(c *gin.Context) {
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req createTeachesPayload
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	teaches, err := h.teachingService.Create(c.Request.Context(), &model.CreateTeachesRequest{
		InstructorID: req.InstructorID,
		CourseID:     courseID,
	})
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"teaches": teaches})
}

// UpdateTeaches godoc
// PUT /api/v1/teaches/:id
// Moving the row replays the permission links for the old and new pair.
func (h *TeachingHandler) UpdateTeaches(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateTeachesRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	visible, err := h.canView(c, id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	allowed, err := h.canChange(c, id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	teaches, err := h.teachingService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"teaches": teaches})
}

// DeleteTeaches godoc
// DELETE /api/v1/teaches/:id
func (h *TeachingHandler) DeleteTeaches(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	visible, err := h.canView(c, id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	allowed, err := h.canChange(c, id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	if err := h.teachingService.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "teaching assignment deleted successfully"})
}
