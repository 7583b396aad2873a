package repository

import (
	"context"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/model"
)

// TeachesRepository handles teaching-assignment row data access.
type TeachesRepository struct {
	db database.Querier
}

// NewTeachesRepository creates a new TeachesRepository.
func NewTeachesRepository(db database.Querier) *TeachesRepository {
	return &TeachesRepository{db: db}
}

const teachesColumns = `id, instructor_id, course_id, created_at, updated_at`

func scanTeaches(row interface{ Scan(...any) error }) (*model.Teaches, error) {
	w := &model.Teaches{}
	err := row.Scan(&w.ID, &w.InstructorID, &w.CourseID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// GetByID retrieves a teaching assignment by its ID.
func (r *TeachesRepository) GetByID(ctx context.Context, id int64) (*model.Teaches, error) {
	return scanTeaches(r.db.QueryRow(ctx,
		`SELECT `+teachesColumns+` FROM teaches WHERE id = $1`, id))
}

// ListByCourse retrieves the teaching assignments of a course.
func (r *TeachesRepository) ListByCourse(ctx context.Context, courseID int64) ([]model.Teaches, error) {
	return r.list(ctx,
		`SELECT `+teachesColumns+` FROM teaches WHERE course_id = $1 ORDER BY id`, courseID)
}

// ListByInstructor retrieves the teaching assignments of an instructor.
func (r *TeachesRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]model.Teaches, error) {
	return r.list(ctx,
		`SELECT `+teachesColumns+` FROM teaches WHERE instructor_id = $1 ORDER BY id`, instructorID)
}

func (r *TeachesRepository) list(ctx context.Context, sql string, args ...any) ([]model.Teaches, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teaches []model.Teaches
	for rows.Next() {
		w, err := scanTeaches(rows)
		if err != nil {
			return nil, err
		}
		teaches = append(teaches, *w)
	}
	return teaches, rows.Err()
}

// Exists reports whether the instructor is assigned to the course.
func (r *TeachesRepository) Exists(ctx context.Context, instructorID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM teaches WHERE instructor_id = $1 AND course_id = $2)`,
		instructorID, courseID,
	).Scan(&exists)
	return exists, err
}

// Create inserts a new teaching assignment.
func (r *TeachesRepository) Create(ctx context.Context, w *model.Teaches) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO teaches (instructor_id, course_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		w.InstructorID, w.CourseID,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
}

// Update modifies an existing teaching assignment.
func (r *TeachesRepository) Update(ctx context.Context, w *model.Teaches) error {
	_, err := r.db.Exec(ctx,
		`UPDATE teaches
		 SET instructor_id = $1, course_id = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		w.InstructorID, w.CourseID, w.ID,
	)
	return err
}

// Delete removes a teaching assignment by its ID.
func (r *TeachesRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM teaches WHERE id = $1`, id)
	return err
}
