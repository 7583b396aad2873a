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

// EnrollmentHandler handles Takes rows. A row is visible only to the student
// who owns it and the instructors of its course; grades never leak to
// coursemates.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
	access            *access
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(pool *pgxpool.Pool, enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		access:            newAccess(pool),
	}
}

func (h *EnrollmentHandler) canView(c *gin.Context, takesID int64) (bool, error) {
	claims := middleware.GetClaims(c)
	obj := perm.ObjectRef{Kind: propagation.KindTakes, ID: takesID}
	return h.access.can(c, propagation.PermViewTakes, claims.UserID, obj)
}

func (h *EnrollmentHandler) canChange(c *gin.Context, takesID int64) (bool, error) {
	claims := middleware.GetClaims(c)
	obj := perm.ObjectRef{Kind: propagation.KindTakes, ID: takesID}
	return h.access.can(c, propagation.PermChangeTakes, claims.UserID, obj)
}

// ListCourseTakes godoc
// GET /api/v1/courses/:id/takes
// Lists the enrollment rows of a course that are visible to the viewer.
func (h *EnrollmentHandler) ListCourseTakes(c *gin.Context) {
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	takes, err := h.enrollmentService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	views := make([]model.Takes, 0, len(takes))
	for i := range takes {
		visible, err := h.canView(c, takes[i].ID)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if visible {
			views = append(views, takes[i])
		}
	}

	response.Success(c, http.StatusOK, gin.H{"takes": views})
}

// GetTakes godoc
// GET /api/v1/takes/:id
func (h *EnrollmentHandler) GetTakes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	takes, err := h.enrollmentService.Get(c.Request.Context(), id)
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

	response.Success(c, http.StatusOK, gin.H{"takes": takes})
}

// createTakesPayload enrolls a student into the course in the path.
type createTakesPayload struct {
	StudentID int64 `json:"student_id" binding:"required"`
	Grade     *int  `json:"grade" binding:"omitempty,min=0,max=100"`
}

// CreateTakes godoc
// POST /api/v1/courses/:id/takes
// Enrolls a student, linking permissions with instructors and coursemates.
func (h *EnrollmentHandler) CreateTakes(c *gin.Context) {
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req createTakesPayload
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	takes, err := h.enrollmentService.Create(c.Request.Context(), &model.CreateTakesRequest{
		StudentID: req.StudentID,
		CourseID:  courseID,
		Grade:     req.Grade,
	})
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"takes": takes})
}

// UpdateTakes godoc
// PUT /api/v1/takes/:id
// Moving the row across students or courses replays the permission links;
// a grade-only change does not.
func (h *EnrollmentHandler) UpdateTakes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateTakesRequest
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

	takes, err := h.enrollmentService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"takes": takes})
}

// DeleteTakes godoc
// DELETE /api/v1/takes/:id
func (h *EnrollmentHandler) DeleteTakes(c *gin.Context) {
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

	if err := h.enrollmentService.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "enrollment deleted successfully"})
}
