package service

import (
	"context"
	"errors"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/model"
	"github.com/gradehub/gradehub-backend/internal/perm"
	"github.com/gradehub/gradehub-backend/internal/propagation"
	"github.com/gradehub/gradehub-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// EnrollmentService manages Takes rows. Creating, moving and deleting an
// enrollment drives the permission engine; a grade edit does not.
type EnrollmentService struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(pool *pgxpool.Pool, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		pool: pool,
		log:  log.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *EnrollmentService) engine(tx pgx.Tx) *propagation.Engine {
	return propagation.NewEngine(perm.NewPGStore(tx), repository.NewDirectory(tx), s.log)
}

// Get retrieves an enrollment by ID.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*model.Takes, error) {
	t, err := repository.NewTakesRepository(s.pool).GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// ListByCourse retrieves the enrollments of a course.
func (s *EnrollmentService) ListByCourse(ctx context.Context, courseID int64) ([]model.Takes, error) {
	return repository.NewTakesRepository(s.pool).ListByCourse(ctx, courseID)
}

// ListByStudent retrieves the enrollments of a student.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID int64) ([]model.Takes, error) {
	return repository.NewTakesRepository(s.pool).ListByStudent(ctx, studentID)
}

// Create enrolls a student in a course.
func (s *EnrollmentService) Create(ctx context.Context, req *model.CreateTakesRequest) (*model.Takes, error) {
	stu, err := repository.NewStudentRepository(s.pool).GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fieldError("student_id", "student does not exist")
		}
		return nil, err
	}
	if _, err := repository.NewCourseRepository(s.pool).GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fieldError("course_id", "course does not exist")
		}
		return nil, err
	}

	t := &model.Takes{StudentID: req.StudentID, CourseID: req.CourseID, Grade: req.Grade}
	if fields := t.ValidateGrade(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := repository.NewTakesRepository(tx).Create(ctx, t); err != nil {
			if repository.IsUniqueViolation(err) {
				return conflictError("course_id", "student already takes this course")
			}
			return err
		}
		return s.engine(tx).Apply(ctx, propagation.TakesCreated{Takes: takesInfo(t, stu.UserID)})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("takes_id", t.ID).Int64("student_id", t.StudentID).
		Int64("course_id", t.CourseID).Msg("enrollment created")
	return t, nil
}

// Update modifies an enrollment. Moving it between students or courses is a
// revoke of the old link plus a grant of the new one; a grade-only change
// skips the engine entirely.
func (s *EnrollmentService) Update(ctx context.Context, id int64, req *model.UpdateTakesRequest) (*model.Takes, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStu, err := repository.NewStudentRepository(s.pool).GetByID(ctx, old.StudentID)
	if err != nil {
		return nil, err
	}
	newStu := oldStu
	if req.StudentID != old.StudentID {
		newStu, err = repository.NewStudentRepository(s.pool).GetByID(ctx, req.StudentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fieldError("student_id", "student does not exist")
			}
			return nil, err
		}
	}
	if req.CourseID != old.CourseID {
		if _, err := repository.NewCourseRepository(s.pool).GetByID(ctx, req.CourseID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fieldError("course_id", "course does not exist")
			}
			return nil, err
		}
	}

	t := &model.Takes{ID: old.ID, StudentID: req.StudentID, CourseID: req.CourseID, Grade: req.Grade}
	if fields := t.ValidateGrade(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := repository.NewTakesRepository(tx).Update(ctx, t); err != nil {
			if repository.IsUniqueViolation(err) {
				return conflictError("course_id", "student already takes this course")
			}
			return err
		}
		if t.StudentID == old.StudentID && t.CourseID == old.CourseID {
			return nil
		}
		return s.engine(tx).Apply(ctx, propagation.TakesUpdated{
			Old: takesInfo(old, oldStu.UserID),
			New: takesInfo(t, newStu.UserID),
		})
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes an enrollment and revokes what it granted.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	stu, err := repository.NewStudentRepository(s.pool).GetByID(ctx, t.StudentID)
	if err != nil {
		return err
	}

	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := repository.NewTakesRepository(tx).Delete(ctx, t.ID); err != nil {
			return err
		}
		return s.engine(tx).Apply(ctx, propagation.TakesDeleted{Takes: takesInfo(t, stu.UserID)})
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("takes_id", t.ID).Msg("enrollment deleted")
	return nil
}

func takesInfo(t *model.Takes, studentUserID int64) propagation.TakesInfo {
	return propagation.TakesInfo{
		TakesID:       t.ID,
		StudentID:     t.StudentID,
		StudentUserID: studentUserID,
		CourseID:      t.CourseID,
	}
}
