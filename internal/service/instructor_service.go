package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/model"
	"github.com/gradehub/gradehub-backend/internal/perm"
	"github.com/gradehub/gradehub-backend/internal/propagation"
	"github.com/gradehub/gradehub-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// InstructorService manages instructor accounts.
type InstructorService struct {
	pool *pgxpool.Pool
	auth *AuthService
	log  zerolog.Logger
}

// NewInstructorService creates a new InstructorService.
func NewInstructorService(pool *pgxpool.Pool, auth *AuthService, log zerolog.Logger) *InstructorService {
	return &InstructorService{
		pool: pool,
		auth: auth,
		log:  log.With().Str("component", "instructor_service").Logger(),
	}
}

func (s *InstructorService) engine(tx pgx.Tx) *propagation.Engine {
	return propagation.NewEngine(perm.NewPGStore(tx), repository.NewDirectory(tx), s.log)
}

// Get retrieves an instructor by ID.
func (s *InstructorService) Get(ctx context.Context, id int64) (*model.Instructor, error) {
	inst, err := repository.NewInstructorRepository(s.pool).GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return inst, err
}

// List retrieves all instructors.
func (s *InstructorService) List(ctx context.Context) ([]model.Instructor, error) {
	return repository.NewInstructorRepository(s.pool).List(ctx)
}

// ListByCourse retrieves the instructors giving a course.
func (s *InstructorService) ListByCourse(ctx context.Context, courseID int64) ([]model.Instructor, error) {
	return repository.NewInstructorRepository(s.pool).ListByCourse(ctx, courseID)
}

// Create registers a login user and its instructor role, then seeds the
// instructor's permissions.
func (s *InstructorService) Create(ctx context.Context, req *model.CreateInstructorRequest) (*model.Instructor, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	inst := &model.Instructor{
		InstID: req.InstID,
		Name:   req.Name,
		Sex:    req.Sex,
	}
	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		user := &model.User{Username: req.Username, PasswordHash: hash}
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			if repository.IsUniqueViolation(err) {
				return conflictError("username", "username is already taken")
			}
			return err
		}
		inst.UserID = user.ID

		if err := repository.NewInstructorRepository(tx).Create(ctx, inst); err != nil {
			if repository.IsUniqueViolation(err) {
				return conflictError("inst_id", "instructor ID is already registered")
			}
			return err
		}

		return s.engine(tx).Apply(ctx, propagation.InstructorCreated{Instructor: instructorInfo(inst)})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("instructor_id", inst.ID).Str("inst_id", inst.InstID).Msg("instructor created")
	return inst, nil
}

// Update modifies an instructor's profile. Profile fields carry no
// permission consequences.
func (s *InstructorService) Update(ctx context.Context, id int64, req *model.UpdateInstructorRequest) (*model.Instructor, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	inst := &model.Instructor{
		ID:     old.ID,
		UserID: old.UserID,
		InstID: req.InstID,
		Name:   req.Name,
		Sex:    req.Sex,
	}
	if err := repository.NewInstructorRepository(s.pool).Update(ctx, inst); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, conflictError("inst_id", "instructor ID is already registered")
		}
		return nil, err
	}
	return inst, nil
}

// Delete removes an instructor together with their login user, unwinding
// teaching assignments first.
func (s *InstructorService) Delete(ctx context.Context, id int64) error {
	inst, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		engine := s.engine(tx)

		teachesRepo := repository.NewTeachesRepository(tx)
		rows, err := teachesRepo.ListByInstructor(ctx, inst.ID)
		if err != nil {
			return err
		}
		for _, w := range rows {
			if err := teachesRepo.Delete(ctx, w.ID); err != nil {
				return err
			}
			if err := engine.Apply(ctx, propagation.TeachesDeleted{Teaches: propagation.TeachesInfo{
				TeachesID:        w.ID,
				InstructorID:     inst.ID,
				InstructorUserID: inst.UserID,
				CourseID:         w.CourseID,
			}}); err != nil {
				return err
			}
		}

		if err := repository.NewInstructorRepository(tx).Delete(ctx, inst.ID); err != nil {
			return err
		}
		if err := engine.Apply(ctx, propagation.InstructorDeleted{Instructor: instructorInfo(inst)}); err != nil {
			return err
		}
		return repository.NewUserRepository(tx).Delete(ctx, inst.UserID)
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("instructor_id", inst.ID).Msg("instructor deleted")
	return nil
}

func instructorInfo(inst *model.Instructor) propagation.InstructorInfo {
	return propagation.InstructorInfo{InstructorID: inst.ID, UserID: inst.UserID}
}
