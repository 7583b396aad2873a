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

// CourseHandler handles courses. Every role holds at least a view floor on
// every course, so reads mostly differ in projection width; writes require
// an object-level change grant, which only the course's instructors hold.
type CourseHandler struct {
	courseService  *service.CourseService
	studentService *service.StudentService
	access         *access
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(pool *pgxpool.Pool, courseService *service.CourseService, studentService *service.StudentService) *CourseHandler {
	return &CourseHandler{
		courseService:  courseService,
		studentService: studentService,
		access:         newAccess(pool),
	}
}

// courseView projects a course row down to the viewer's level.
func courseView(course *model.Course, lvl perm.Level) gin.H {
	view := gin.H{
		"id":          course.ID,
		"title":       course.Title,
		"year":        course.Year,
		"semester":    course.Semester,
		"description": course.Description,
	}
	if lvl >= perm.LevelAdvanced {
		view["min_group_size"] = course.MinGroupSize
		view["max_group_size"] = course.MaxGroupSize
		view["created_at"] = course.CreatedAt
		view["updated_at"] = course.UpdatedAt
	}
	return view
}

func (h *CourseHandler) courseLevel(c *gin.Context, courseID int64) (perm.Level, bool, error) {
	claims := middleware.GetClaims(c)
	obj := perm.ObjectRef{Kind: propagation.KindCourse, ID: courseID}
	return h.access.level(c, propagation.PermViewCourse, claims.UserID, obj)
}

// canChangeCourse reports whether the viewer holds a change grant on the course.
func (h *CourseHandler) canChangeCourse(c *gin.Context, courseID int64) (bool, error) {
	claims := middleware.GetClaims(c)
	obj := perm.ObjectRef{Kind: propagation.KindCourse, ID: courseID}
	return h.access.can(c, propagation.PermChangeCourse, claims.UserID, obj)
}

// ListCourses godoc
// GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	views := make([]gin.H, 0, len(courses))
	for i := range courses {
		lvl, ok, err := h.courseLevel(c, courses[i].ID)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if !ok {
			continue
		}
		views = append(views, courseView(&courses[i], lvl))
	}

	response.Success(c, http.StatusOK, gin.H{"courses": views})
}

// GetCourse godoc
// GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	course, err := h.courseService.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}

	lvl, visible, err := h.courseLevel(c, id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !visible {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": courseView(course, lvl)})
}

// ListCourseStudents godoc
// GET /api/v1/courses/:id/students
// Lists the enrolled students visible to the viewer.
func (h *CourseHandler) ListCourseStudents(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.courseService.Get(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}

	students, err := h.studentService.ListByCourse(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	claims := middleware.GetClaims(c)
	views := make([]gin.H, 0, len(students))
	for i := range students {
		var lvl perm.Level
		var visible bool
		if claims.UserID == students[i].UserID {
			lvl, visible = perm.LevelAll, true
		} else {
			obj := perm.ObjectRef{Kind: propagation.KindStudent, ID: students[i].ID}
			var err error
			lvl, visible, err = h.access.level(c, propagation.PermViewStudent, claims.UserID, obj)
			if err != nil {
				response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
				return
			}
		}
		if !visible {
			continue
		}
		views = append(views, studentView(&students[i], lvl))
	}

	response.Success(c, http.StatusOK, gin.H{"students": views})
}

// CreateCourse godoc
// POST /api/v1/courses
// Seeds view floors for every student and instructor.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), &req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// UpdateCourse godoc
// PUT /api/v1/courses/:id
// Requires an object-level change grant on the course.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	allowed, err := h.canChangeCourse(c, id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// DeleteCourse godoc
// DELETE /api/v1/courses/:id
// Unwinds groups, enrollments, teaching rows, and assignments first.
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	allowed, err := h.canChangeCourse(c, id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "course deleted successfully"})
}
