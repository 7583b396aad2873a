package service

import (
	"context"
	"errors"

	"github.com/gradehub/gradehub-backend/internal/model"
	"github.com/gradehub/gradehub-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// AssignmentService manages course assignments. Assignments inherit their
// visibility from the course, so mutations never touch the permission
// engine.
type AssignmentService struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(pool *pgxpool.Pool, log zerolog.Logger) *AssignmentService {
	return &AssignmentService{
		pool: pool,
		log:  log.With().Str("component", "assignment_service").Logger(),
	}
}

// Get retrieves an assignment with its ordinal within the course.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*model.CourseAssignment, error) {
	a, err := repository.NewAssignmentRepository(s.pool).GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// ListByCourse retrieves the assignments of a course in assigned order.
func (s *AssignmentService) ListByCourse(ctx context.Context, courseID int64) ([]model.CourseAssignment, error) {
	return repository.NewAssignmentRepository(s.pool).ListByCourse(ctx, courseID)
}

// Create inserts a new assignment under a course.
func (s *AssignmentService) Create(ctx context.Context, req *model.CreateAssignmentRequest) (*model.CourseAssignment, error) {
	if _, err := repository.NewCourseRepository(s.pool).GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fieldError("course_id", "course does not exist")
		}
		return nil, err
	}

	a := &model.CourseAssignment{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		GradeRatio:  req.GradeRatio,
		DeadlineAt:  req.DeadlineAt,
	}
	if fields := a.ValidateGradeRatio(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if err := repository.NewAssignmentRepository(s.pool).Create(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info().Int64("assignment_id", a.ID).Int64("course_id", a.CourseID).Msg("assignment created")
	return s.Get(ctx, a.ID)
}

// Update modifies an assignment.
func (s *AssignmentService) Update(ctx context.Context, id int64, req *model.UpdateAssignmentRequest) (*model.CourseAssignment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Title = req.Title
	a.Description = req.Description
	a.GradeRatio = req.GradeRatio
	a.DeadlineAt = req.DeadlineAt
	if fields := a.ValidateGradeRatio(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if err := repository.NewAssignmentRepository(s.pool).Update(ctx, a); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return repository.NewAssignmentRepository(s.pool).Delete(ctx, id)
}
