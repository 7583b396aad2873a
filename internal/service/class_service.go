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

// ClassService manages classes. Classes carry no permission consequences of
// their own; classmate links ride on student creation and class moves.
type ClassService struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(pool *pgxpool.Pool, log zerolog.Logger) *ClassService {
	return &ClassService{
		pool: pool,
		log:  log.With().Str("component", "class_service").Logger(),
	}
}

// Get retrieves a class by ID.
func (s *ClassService) Get(ctx context.Context, id int64) (*model.Class, error) {
	c, err := repository.NewClassRepository(s.pool).GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// List retrieves all classes.
func (s *ClassService) List(ctx context.Context) ([]model.Class, error) {
	return repository.NewClassRepository(s.pool).List(ctx)
}

// Create inserts a new class.
func (s *ClassService) Create(ctx context.Context, req *model.CreateClassRequest) (*model.Class, error) {
	c := &model.Class{ClassID: req.ClassID}
	if err := repository.NewClassRepository(s.pool).Create(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, conflictError("class_id", "class already exists")
		}
		return nil, err
	}
	return c, nil
}

// Update renames a class.
func (s *ClassService) Update(ctx context.Context, id int64, req *model.CreateClassRequest) (*model.Class, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.ClassID = req.ClassID
	if err := repository.NewClassRepository(s.pool).Update(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, conflictError("class_id", "class already exists")
		}
		return nil, err
	}
	return c, nil
}

// Delete removes a class. A class with students is kept.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := repository.NewClassRepository(s.pool).Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return err
	}
	return nil
}
