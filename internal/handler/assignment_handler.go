package handler

import (
	"net/http"
	"time"

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

// AssignmentHandler handles course assignments. Assignments are visible to
// the course's takers and instructors (a full view grant on the course, not
// the passive floor) and writable by its instructors.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
	access            *access
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(pool *pgxpool.Pool, assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		access:            newAccess(pool),
	}
}

func (h *AssignmentHandler) canViewCourse(c *gin.Context, courseID int64) (bool, error) {
	claims := middleware.GetClaims(c)
	obj := perm.ObjectRef{Kind: propagation.KindCourse, ID: courseID}
	lvl, ok, err := h.access.level(c, propagation.PermViewCourse, claims.UserID, obj)
	return ok && lvl >= perm.LevelAll, err
}

func (h *AssignmentHandler) canChangeCourse(c *gin.Context, courseID int64) (bool, error) {
	claims := middleware.GetClaims(c)
	obj := perm.ObjectRef{Kind: propagation.KindCourse, ID: courseID}
	return h.access.can(c, propagation.PermChangeCourse, claims.UserID, obj)
}

// ListCourseAssignments godoc
// GET /api/v1/courses/:id/assignments
// Ordered by assigned time; each row carries its ordinal in the course.
func (h *AssignmentHandler) ListCourseAssignments(c *gin.Context) {
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	visible, err := h.canViewCourse(c, courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	assignments, err := h.assignmentService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignments": assignments})
}

// GetAssignment godoc
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	assignment, err := h.assignmentService.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}

	visible, err := h.canViewCourse(c, assignment.CourseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignment": assignment})
}

// createAssignmentPayload creates an assignment under the course in the path.
type createAssignmentPayload struct {
	Title       string    `json:"title" binding:"required,min=1,max=255"`
	Description string    `json:"description" binding:"max=4000"`
	GradeRatio  float64   `json:"grade_ratio" binding:"required,gt=0,lte=1"`
	DeadlineAt  time.Time `json:"deadline_at" binding:"required"`
}

// CreateAssignment godoc
// POST /api/v1/courses/:id/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req createAssignmentPayload
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	allowed, err := h.canChangeCourse(c, courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	assignment, err := h.assignmentService.Create(c.Request.Context(), &model.CreateAssignmentRequest{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		GradeRatio:  req.GradeRatio,
		DeadlineAt:  req.DeadlineAt,
	})
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assignment": assignment})
}

// UpdateAssignment godoc
// PUT /api/v1/assignments/:id
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateAssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	existing, err := h.assignmentService.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}

	visible, err := h.canViewCourse(c, existing.CourseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	allowed, err := h.canChangeCourse(c, existing.CourseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	assignment, err := h.assignmentService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignment": assignment})
}

// DeleteAssignment godoc
// DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	existing, err := h.assignmentService.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}

	visible, err := h.canViewCourse(c, existing.CourseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	allowed, err := h.canChangeCourse(c, existing.CourseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	if err := h.assignmentService.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "assignment deleted successfully"})
}
