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

// StudentHandler handles student profiles. Read responses widen with the
// viewer's granted level on the student object; invisible students 404.
type StudentHandler struct {
	studentService    *service.StudentService
	enrollmentService *service.EnrollmentService
	access            *access
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(pool *pgxpool.Pool, studentService *service.StudentService, enrollmentService *service.EnrollmentService) *StudentHandler {
	return &StudentHandler{
		studentService:    studentService,
		enrollmentService: enrollmentService,
		access:            newAccess(pool),
	}
}

// studentView projects a student row down to the viewer's level.
func studentView(s *model.Student, lvl perm.Level) gin.H {
	view := gin.H{
		"id":   s.ID,
		"name": s.Name,
		"sex":  s.Sex,
	}
	if lvl >= perm.LevelNormal {
		view["s_id"] = s.SID
		view["class_id"] = s.ClassID
	}
	if lvl >= perm.LevelAdvanced {
		view["created_at"] = s.CreatedAt
		view["updated_at"] = s.UpdatedAt
	}
	if lvl >= perm.LevelAll {
		view["user_id"] = s.UserID
	}
	return view
}

// studentLevel resolves the viewer's level on a student, treating the
// viewer's own profile as fully visible.
func (h *StudentHandler) studentLevel(c *gin.Context, s *model.Student) (perm.Level, bool, error) {
	claims := middleware.GetClaims(c)
	if claims != nil && claims.UserID == s.UserID {
		return perm.LevelAll, true, nil
	}
	obj := perm.ObjectRef{Kind: propagation.KindStudent, ID: s.ID}
	return h.access.level(c, propagation.PermViewStudent, claims.UserID, obj)
}

// ListStudents godoc
// GET /api/v1/students
// Lists the students visible to the viewer, each projected to the viewer's
// level.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.studentService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	views := make([]gin.H, 0, len(students))
	for i := range students {
		lvl, ok, err := h.studentLevel(c, &students[i])
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if !ok {
			continue
		}
		views = append(views, studentView(&students[i], lvl))
	}

	response.Success(c, http.StatusOK, gin.H{"students": views})
}

// GetStudent godoc
// GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	student, err := h.studentService.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}

	lvl, visible, err := h.studentLevel(c, student)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": studentView(student, lvl)})
}

// ListStudentTakes godoc
// GET /api/v1/students/:id/takes
// Lists the visible enrollment rows of a student.
func (h *StudentHandler) ListStudentTakes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	student, err := h.studentService.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	if _, visible, err := h.studentLevel(c, student); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	} else if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	takes, err := h.enrollmentService.ListByStudent(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	claims := middleware.GetClaims(c)
	views := make([]model.Takes, 0, len(takes))
	for i := range takes {
		obj := perm.ObjectRef{Kind: propagation.KindTakes, ID: takes[i].ID}
		visible, err := h.access.can(c, propagation.PermViewTakes, claims.UserID, obj)
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

// CreateStudent godoc
// POST /api/v1/students
// Creates a user account and student profile, seeding role-wide and
// relationship permissions.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), &req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// UpdateStudent godoc
// PUT /api/v1/students/:id
// A class change relinks classmate permissions.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// DeleteStudent godoc
// DELETE /api/v1/students/:id
// Cascades led groups, memberships, and enrollments with their revocations.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "student deleted successfully"})
}
