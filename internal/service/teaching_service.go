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

// TeachingService manages Teaches rows.
type TeachingService struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewTeachingService creates a new TeachingService.
func NewTeachingService(pool *pgxpool.Pool, log zerolog.Logger) *TeachingService {
	return &TeachingService{
		pool: pool,
		log:  log.With().Str("component", "teaching_service").Logger(),
	}
}

func (s *TeachingService) engine(tx pgx.Tx) *propagation.Engine {
	return propagation.NewEngine(perm.NewPGStore(tx), repository.NewDirectory(tx), s.log)
}

// Get retrieves a teaching assignment by ID.
func (s *TeachingService) Get(ctx context.Context, id int64) (*model.Teaches, error) {
	w, err := repository.NewTeachesRepository(s.pool).GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return w, err
}

// ListByCourse retrieves the teaching assignments of a course.
func (s *TeachingService) ListByCourse(ctx context.Context, courseID int64) ([]model.Teaches, error) {
	return repository.NewTeachesRepository(s.pool).ListByCourse(ctx, courseID)
}

// ListByInstructor retrieves the teaching assignments of an instructor.
func (s *TeachingService) ListByInstructor(ctx context.Context, instructorID int64) ([]model.Teaches, error) {
	return repository.NewTeachesRepository(s.pool).ListByInstructor(ctx, instructorID)
}

// Create assigns an instructor to a course.
func (s *TeachingService) Create(ctx context.Context, req *model.CreateTeachesRequest) (*model.Teaches, error) {
	inst, err := repository.NewInstructorRepository(s.pool).GetByID(ctx, req.InstructorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fieldError("instructor_id", "instructor does not exist")
		}
		return nil, err
	}
	if _, err := repository.NewCourseRepository(s.pool).GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fieldError("course_id", "course does not exist")
		}
		return nil, err
	}

	w := &model.Teaches{InstructorID: req.InstructorID, CourseID: req.CourseID}
	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := repository.NewTeachesRepository(tx).Create(ctx, w); err != nil {
			if repository.IsUniqueViolation(err) {
				return conflictError("course_id", "instructor already gives this course")
			}
			return err
		}
		return s.engine(tx).Apply(ctx, propagation.TeachesCreated{Teaches: teachesInfo(w, inst.UserID)})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("teaches_id", w.ID).Int64("instructor_id", w.InstructorID).
		Int64("course_id", w.CourseID).Msg("teaching assignment created")
	return w, nil
}

// Update moves a teaching assignment between instructors or courses.
func (s *TeachingService) Update(ctx context.Context, id int64, req *model.UpdateTeachesRequest) (*model.Teaches, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldInst, err := repository.NewInstructorRepository(s.pool).GetByID(ctx, old.InstructorID)
	if err != nil {
		return nil, err
	}
	newInst := oldInst
	if req.InstructorID != old.InstructorID {
		newInst, err = repository.NewInstructorRepository(s.pool).GetByID(ctx, req.InstructorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fieldError("instructor_id", "instructor does not exist")
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
	if req.InstructorID == old.InstructorID && req.CourseID == old.CourseID {
		return old, nil
	}

	w := &model.Teaches{ID: old.ID, InstructorID: req.InstructorID, CourseID: req.CourseID}
	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := repository.NewTeachesRepository(tx).Update(ctx, w); err != nil {
			if repository.IsUniqueViolation(err) {
				return conflictError("course_id", "instructor already gives this course")
			}
			return err
		}
		return s.engine(tx).Apply(ctx, propagation.TeachesUpdated{
			Old: teachesInfo(old, oldInst.UserID),
			New: teachesInfo(w, newInst.UserID),
		})
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Delete removes a teaching assignment and revokes what it granted.
func (s *TeachingService) Delete(ctx context.Context, id int64) error {
	w, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	inst, err := repository.NewInstructorRepository(s.pool).GetByID(ctx, w.InstructorID)
	if err != nil {
		return err
	}

	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := repository.NewTeachesRepository(tx).Delete(ctx, w.ID); err != nil {
			return err
		}
		return s.engine(tx).Apply(ctx, propagation.TeachesDeleted{Teaches: teachesInfo(w, inst.UserID)})
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("teaches_id", w.ID).Msg("teaching assignment deleted")
	return nil
}

func teachesInfo(w *model.Teaches, instructorUserID int64) propagation.TeachesInfo {
	return propagation.TeachesInfo{
		TeachesID:        w.ID,
		InstructorID:     w.InstructorID,
		InstructorUserID: instructorUserID,
		CourseID:         w.CourseID,
	}
}
