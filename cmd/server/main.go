package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gradehub/gradehub-backend/internal/config"
	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/handler"
	"github.com/gradehub/gradehub-backend/internal/importer"
	"github.com/gradehub/gradehub-backend/internal/logger"
	"github.com/gradehub/gradehub-backend/internal/repository"
	"github.com/gradehub/gradehub-backend/internal/router"
	"github.com/gradehub/gradehub-backend/internal/service"
	"github.com/gradehub/gradehub-backend/internal/validator"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting GradeHub Backend")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)

	authService := service.NewAuthService(cfg, rdb, userRepo, roleRepo)
	classService := service.NewClassService(pool, log)
	studentService := service.NewStudentService(pool, authService, log)
	instructorService := service.NewInstructorService(pool, authService, log)
	courseService := service.NewCourseService(pool, log)
	enrollmentService := service.NewEnrollmentService(pool, log)
	teachingService := service.NewTeachingService(pool, log)
	groupService := service.NewGroupService(pool, log)
	assignmentService := service.NewAssignmentService(pool, log)
	imp := importer.New(pool, studentService, enrollmentService, log)

	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Class:      handler.NewClassHandler(classService),
		Student:    handler.NewStudentHandler(pool, studentService, enrollmentService),
		Instructor: handler.NewInstructorHandler(pool, instructorService, teachingService),
		Course:     handler.NewCourseHandler(pool, courseService, studentService),
		Enrollment: handler.NewEnrollmentHandler(pool, enrollmentService),
		Teaching:   handler.NewTeachingHandler(pool, teachingService),
		Group:      handler.NewGroupHandler(pool, groupService),
		Assignment: handler.NewAssignmentHandler(pool, assignmentService),
		Import:     handler.NewImportHandler(imp, cfg),
	}

	r := router.SetupRouter(authService, handlers, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
