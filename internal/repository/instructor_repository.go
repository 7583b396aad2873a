package repository

import (
	"context"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/model"
)

// InstructorRepository handles instructor role data access.
type InstructorRepository struct {
	db database.Querier
}

// NewInstructorRepository creates a new InstructorRepository.
func NewInstructorRepository(db database.Querier) *InstructorRepository {
	return &InstructorRepository{db: db}
}

const instructorColumns = `id, user_id, inst_id, name, sex, created_at, updated_at`

func scanInstructor(row interface{ Scan(...any) error }) (*model.Instructor, error) {
	i := &model.Instructor{}
	var sex *string
	err := row.Scan(&i.ID, &i.UserID, &i.InstID, &i.Name, &sex, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if sex != nil {
		i.Sex = model.Sex(*sex)
	}
	return i, nil
}

// GetByID retrieves an instructor by its ID.
func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (*model.Instructor, error) {
	return scanInstructor(r.db.QueryRow(ctx,
		`SELECT `+instructorColumns+` FROM instructors WHERE id = $1`, id))
}

// GetByUserID retrieves the instructor bound to a user, if any.
func (r *InstructorRepository) GetByUserID(ctx context.Context, userID int64) (*model.Instructor, error) {
	return scanInstructor(r.db.QueryRow(ctx,
		`SELECT `+instructorColumns+` FROM instructors WHERE user_id = $1`, userID))
}

// List retrieves all instructors ordered by instructor number.
func (r *InstructorRepository) List(ctx context.Context) ([]model.Instructor, error) {
	return r.list(ctx, `SELECT `+instructorColumns+` FROM instructors ORDER BY inst_id`)
}

// ListByCourse retrieves the instructors teaching a course.
func (r *InstructorRepository) ListByCourse(ctx context.Context, courseID int64) ([]model.Instructor, error) {
	return r.list(ctx,
		`SELECT i.id, i.user_id, i.inst_id, i.name, i.sex, i.created_at, i.updated_at
		 FROM instructors i JOIN teaches w ON w.instructor_id = i.id
		 WHERE w.course_id = $1 ORDER BY i.inst_id`, courseID)
}

func (r *InstructorRepository) list(ctx context.Context, sql string, args ...any) ([]model.Instructor, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instructors []model.Instructor
	for rows.Next() {
		i, err := scanInstructor(rows)
		if err != nil {
			return nil, err
		}
		instructors = append(instructors, *i)
	}
	return instructors, rows.Err()
}

// Create inserts a new instructor.
func (r *InstructorRepository) Create(ctx context.Context, i *model.Instructor) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO instructors (user_id, inst_id, name, sex)
		 VALUES ($1, $2, $3, NULLIF($4, ''))
		 RETURNING id, created_at, updated_at`,
		i.UserID, i.InstID, i.Name, string(i.Sex),
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
}

// Update modifies an existing instructor.
func (r *InstructorRepository) Update(ctx context.Context, i *model.Instructor) error {
	_, err := r.db.Exec(ctx,
		`UPDATE instructors
		 SET inst_id = $1, name = $2, sex = NULLIF($3, ''), updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		i.InstID, i.Name, string(i.Sex), i.ID,
	)
	return err
}

// Delete removes an instructor by its ID.
func (r *InstructorRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM instructors WHERE id = $1`, id)
	return err
}
