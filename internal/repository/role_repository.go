package repository

import (
	"context"
	"errors"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/model"
	"github.com/jackc/pgx/v5"
)

// RoleRepository resolves the role specialization bound to a user.
type RoleRepository struct {
	students    *StudentRepository
	instructors *InstructorRepository
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(db database.Querier) *RoleRepository {
	return &RoleRepository{
		students:    NewStudentRepository(db),
		instructors: NewInstructorRepository(db),
	}
}

// GetRoleOf returns the role bound to a user. A user with no role row gets
// model.RoleNone, not an error.
func (r *RoleRepository) GetRoleOf(ctx context.Context, userID int64) (*model.Role, error) {
	stu, err := r.students.GetByUserID(ctx, userID)
	if err == nil {
		return &model.Role{Kind: model.RoleStudent, Student: stu}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	inst, err := r.instructors.GetByUserID(ctx, userID)
	if err == nil {
		return &model.Role{Kind: model.RoleInstructor, Instructor: inst}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return &model.Role{Kind: model.RoleNone}, nil
}
