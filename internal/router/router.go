package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gradehub/gradehub-backend/internal/config"
	"github.com/gradehub/gradehub-backend/internal/handler"
	"github.com/gradehub/gradehub-backend/internal/middleware"
	"github.com/gradehub/gradehub-backend/internal/response"
	"github.com/gradehub/gradehub-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Class      *handler.ClassHandler
	Student    *handler.StudentHandler
	Instructor *handler.InstructorHandler
	Course     *handler.CourseHandler
	Enrollment *handler.EnrollmentHandler
	Teaching   *handler.TeachingHandler
	Group      *handler.GroupHandler
	Assignment *handler.AssignmentHandler
	Import     *handler.ImportHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict CORS to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for login (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
	}

	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth(authService))
	{
		api.GET("/myself", handlers.Auth.Myself)

		// Class management. Reads are open to any role; structural writes
		// are an instructor concern.
		api.GET("/classes", handlers.Class.ListClasses)
		api.GET("/classes/:id", handlers.Class.GetClass)
		api.POST("/classes", middleware.RequireInstructor(), handlers.Class.CreateClass)
		api.PUT("/classes/:id", middleware.RequireInstructor(), handlers.Class.UpdateClass)
		api.DELETE("/classes/:id", middleware.RequireInstructor(), handlers.Class.DeleteClass)

		// Students. Reads are projected per viewer grant.
		api.GET("/students", handlers.Student.ListStudents)
		api.GET("/students/:id", handlers.Student.GetStudent)
		api.GET("/students/:id/takes", handlers.Student.ListStudentTakes)
		api.POST("/students", middleware.RequireInstructor(), handlers.Student.CreateStudent)
		api.PUT("/students/:id", middleware.RequireInstructor(), handlers.Student.UpdateStudent)
		api.DELETE("/students/:id", middleware.RequireInstructor(), handlers.Student.DeleteStudent)

		// Instructors.
		api.GET("/instructors", handlers.Instructor.ListInstructors)
		api.GET("/instructors/:id", handlers.Instructor.GetInstructor)
		api.GET("/instructors/:id/teaches", handlers.Instructor.ListInstructorTeaches)
		api.POST("/instructors", middleware.RequireInstructor(), handlers.Instructor.CreateInstructor)
		api.PUT("/instructors/:id", middleware.RequireInstructor(), handlers.Instructor.UpdateInstructor)
		api.DELETE("/instructors/:id", middleware.RequireInstructor(), handlers.Instructor.DeleteInstructor)

		// Courses and their nested relationship collections.
		api.GET("/courses", handlers.Course.ListCourses)
		api.GET("/courses/:id", handlers.Course.GetCourse)
		api.GET("/courses/:id/students", handlers.Course.ListCourseStudents)
		api.POST("/courses", middleware.RequireInstructor(), handlers.Course.CreateCourse)
		api.PUT("/courses/:id", middleware.RequireInstructor(), handlers.Course.UpdateCourse)
		api.DELETE("/courses/:id", middleware.RequireInstructor(), handlers.Course.DeleteCourse)

		api.GET("/courses/:id/takes", handlers.Enrollment.ListCourseTakes)
		api.POST("/courses/:id/takes", middleware.RequireInstructor(), handlers.Enrollment.CreateTakes)
		api.GET("/takes/:id", handlers.Enrollment.GetTakes)
		api.PUT("/takes/:id", handlers.Enrollment.UpdateTakes)
		api.DELETE("/takes/:id", handlers.Enrollment.DeleteTakes)

		api.GET("/courses/:id/teaches", handlers.Teaching.ListCourseTeaches)
		api.POST("/courses/:id/teaches", middleware.RequireInstructor(), handlers.Teaching.CreateTeaches)
		api.GET("/teaches/:id", handlers.Teaching.GetTeaches)
		api.PUT("/teaches/:id", handlers.Teaching.UpdateTeaches)
		api.DELETE("/teaches/:id", handlers.Teaching.DeleteTeaches)

		// Groups. Students create and lead their own groups, so creation is
		// open to both roles; object grants gate changes and deletion.
		api.GET("/courses/:id/groups", handlers.Group.ListCourseGroups)
		api.POST("/courses/:id/groups", handlers.Group.CreateGroup)
		api.GET("/groups/:id", handlers.Group.GetGroup)
		api.PUT("/groups/:id", handlers.Group.UpdateGroup)
		api.DELETE("/groups/:id", handlers.Group.DeleteGroup)
		api.GET("/groups/:id/members", handlers.Group.ListGroupMembers)
		api.POST("/groups/:id/members", handlers.Group.AddGroupMember)
		api.DELETE("/groups/:id/members/:student_id", handlers.Group.RemoveGroupMember)

		// Assignments.
		api.GET("/courses/:id/assignments", handlers.Assignment.ListCourseAssignments)
		api.POST("/courses/:id/assignments", middleware.RequireInstructor(), handlers.Assignment.CreateAssignment)
		api.GET("/assignments/:id", handlers.Assignment.GetAssignment)
		api.PUT("/assignments/:id", middleware.RequireInstructor(), handlers.Assignment.UpdateAssignment)
		api.DELETE("/assignments/:id", middleware.RequireInstructor(), handlers.Assignment.DeleteAssignment)

		// Bulk imports.
		api.POST("/import/students", middleware.RequireInstructor(), handlers.Import.ImportStudents)
		api.POST("/courses/:id/import-takes", middleware.RequireInstructor(), handlers.Import.ImportCourseTakes)
	}

	return router
}
