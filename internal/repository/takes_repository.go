package repository

import (
	"context"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/model"
)

// TakesRepository handles enrollment row data access.
type TakesRepository struct {
	db database.Querier
}

// NewTakesRepository creates a new TakesRepository.
func NewTakesRepository(db database.Querier) *TakesRepository {
	return &TakesRepository{db: db}
}

const takesColumns = `id, student_id, course_id, grade, created_at, updated_at`

func scanTakes(row interface{ Scan(...any) error }) (*model.Takes, error) {
	t := &model.Takes{}
	err := row.Scan(&t.ID, &t.StudentID, &t.CourseID, &t.Grade, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID retrieves an enrollment by its ID.
func (r *TakesRepository) GetByID(ctx context.Context, id int64) (*model.Takes, error) {
	return scanTakes(r.db.QueryRow(ctx,
		`SELECT `+takesColumns+` FROM takes WHERE id = $1`, id))
}

// ListByCourse retrieves the enrollments of a course.
func (r *TakesRepository) ListByCourse(ctx context.Context, courseID int64) ([]model.Takes, error) {
	return r.list(ctx,
		`SELECT `+takesColumns+` FROM takes WHERE course_id = $1 ORDER BY id`, courseID)
}

// ListByStudent retrieves the enrollments of a student.
func (r *TakesRepository) ListByStudent(ctx context.Context, studentID int64) ([]model.Takes, error) {
	return r.list(ctx,
		`SELECT `+takesColumns+` FROM takes WHERE student_id = $1 ORDER BY id`, studentID)
}

func (r *TakesRepository) list(ctx context.Context, sql string, args ...any) ([]model.Takes, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var takes []model.Takes
	for rows.Next() {
		t, err := scanTakes(rows)
		if err != nil {
			return nil, err
		}
		takes = append(takes, *t)
	}
	return takes, rows.Err()
}

// Exists reports whether the student is enrolled in the course.
func (r *TakesRepository) Exists(ctx context.Context, studentID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM takes WHERE student_id = $1 AND course_id = $2)`,
		studentID, courseID,
	).Scan(&exists)
	return exists, err
}

// Create inserts a new enrollment.
func (r *TakesRepository) Create(ctx context.Context, t *model.Takes) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO takes (student_id, course_id, grade)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		t.StudentID, t.CourseID, t.Grade,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Update modifies an existing enrollment.
func (r *TakesRepository) Update(ctx context.Context, t *model.Takes) error {
	_, err := r.db.Exec(ctx,
		`UPDATE takes
		 SET student_id = $1, course_id = $2, grade = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		t.StudentID, t.CourseID, t.Grade, t.ID,
	)
	return err
}

// Delete removes an enrollment by its ID.
func (r *TakesRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM takes WHERE id = $1`, id)
	return err
}
