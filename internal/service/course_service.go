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

// CourseService manages courses.
type CourseService struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(pool *pgxpool.Pool, log zerolog.Logger) *CourseService {
	return &CourseService{
		pool: pool,
		log:  log.With().Str("component", "course_service").Logger(),
	}
}

func (s *CourseService) engine(tx pgx.Tx) *propagation.Engine {
	return propagation.NewEngine(perm.NewPGStore(tx), repository.NewDirectory(tx), s.log)
}

// Get retrieves a course by ID.
func (s *CourseService) Get(ctx context.Context, id int64) (*model.Course, error) {
	c, err := repository.NewCourseRepository(s.pool).GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// List retrieves all courses.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	return repository.NewCourseRepository(s.pool).List(ctx)
}

// ListByStudent retrieves the courses a student takes.
func (s *CourseService) ListByStudent(ctx context.Context, studentID int64) ([]model.Course, error) {
	return repository.NewCourseRepository(s.pool).ListByStudent(ctx, studentID)
}

// ListByInstructor retrieves the courses an instructor gives.
func (s *CourseService) ListByInstructor(ctx context.Context, instructorID int64) ([]model.Course, error) {
	return repository.NewCourseRepository(s.pool).ListByInstructor(ctx, instructorID)
}

// Create inserts a new course and seeds its visibility floors.
func (s *CourseService) Create(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	c := &model.Course{
		Title:        req.Title,
		Year:         req.Year,
		Semester:     req.Semester,
		Description:  req.Description,
		MinGroupSize: req.MinGroupSize,
		MaxGroupSize: req.MaxGroupSize,
	}
	if fields := c.ValidateGroupSize(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	err := database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := repository.NewCourseRepository(tx).Create(ctx, c); err != nil {
			if repository.IsUniqueViolation(err) {
				return conflictError("title", "course already exists for this term")
			}
			return err
		}
		return s.engine(tx).Apply(ctx, propagation.CourseCreated{CourseID: c.ID})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("course_id", c.ID).Str("title", c.Title).Msg("course created")
	return c, nil
}

// Update modifies a course. Course attributes carry no permission
// consequences.
func (s *CourseService) Update(ctx context.Context, id int64, req *model.CreateCourseRequest) (*model.Course, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Title = req.Title
	c.Year = req.Year
	c.Semester = req.Semester
	c.Description = req.Description
	c.MinGroupSize = req.MinGroupSize
	c.MaxGroupSize = req.MaxGroupSize
	if fields := c.ValidateGroupSize(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if err := repository.NewCourseRepository(s.pool).Update(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, conflictError("title", "course already exists for this term")
		}
		return nil, err
	}
	return c, nil
}

// Delete removes a course, unwinding its groups, enrollments and teaching
// assignments so every revoke path runs before the course object is purged.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	err := database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		engine := s.engine(tx)
		dir := repository.NewDirectory(tx)

		groups, err := repository.NewGroupRepository(tx).ListByCourse(ctx, id)
		if err != nil {
			return err
		}
		for _, g := range groups {
			leader, err := repository.NewStudentRepository(tx).GetByID(ctx, g.LeaderID)
			if err != nil {
				return err
			}
			if err := deleteGroupRow(ctx, tx, engine, leader.UserID, g); err != nil {
				return err
			}
		}

		enrollments, err := dir.CourseStudents(ctx, id)
		if err != nil {
			return err
		}
		takesRepo := repository.NewTakesRepository(tx)
		for _, e := range enrollments {
			if err := takesRepo.Delete(ctx, e.TakesID); err != nil {
				return err
			}
			if err := engine.Apply(ctx, propagation.TakesDeleted{Takes: propagation.TakesInfo{
				TakesID:       e.TakesID,
				StudentID:     e.StudentID,
				StudentUserID: e.UserID,
				CourseID:      id,
			}}); err != nil {
				return err
			}
		}

		teaching, err := dir.CourseInstructors(ctx, id)
		if err != nil {
			return err
		}
		teachesRepo := repository.NewTeachesRepository(tx)
		for _, w := range teaching {
			if err := teachesRepo.Delete(ctx, w.TeachesID); err != nil {
				return err
			}
			if err := engine.Apply(ctx, propagation.TeachesDeleted{Teaches: propagation.TeachesInfo{
				TeachesID:        w.TeachesID,
				InstructorID:     w.InstructorID,
				InstructorUserID: w.UserID,
				CourseID:         id,
			}}); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM course_assignments WHERE course_id = $1`, id); err != nil {
			return err
		}
		if err := repository.NewCourseRepository(tx).Delete(ctx, id); err != nil {
			return err
		}
		return engine.Apply(ctx, propagation.CourseDeleted{CourseID: id})
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("course_id", id).Msg("course deleted")
	return nil
}
