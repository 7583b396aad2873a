package repository

import (
	"context"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	db database.Querier
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db database.Querier) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, title, year, semester, description, min_group_size, max_group_size, created_at, updated_at`

func scanCourse(row interface{ Scan(...any) error }) (*model.Course, error) {
	c := &model.Course{}
	err := row.Scan(&c.ID, &c.Title, &c.Year, &c.Semester, &c.Description,
		&c.MinGroupSize, &c.MaxGroupSize, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a course by its ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	return scanCourse(r.db.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

// List retrieves all courses, newest term first.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	return r.list(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY year DESC, semester, title`)
}

// ListByStudent retrieves the courses a student takes.
func (r *CourseRepository) ListByStudent(ctx context.Context, studentID int64) ([]model.Course, error) {
	return r.list(ctx,
		`SELECT c.id, c.title, c.year, c.semester, c.description, c.min_group_size, c.max_group_size, c.created_at, c.updated_at
		 FROM courses c JOIN takes t ON t.course_id = c.id
		 WHERE t.student_id = $1 ORDER BY c.year DESC, c.semester, c.title`, studentID)
}

// ListByInstructor retrieves the courses an instructor gives.
func (r *CourseRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]model.Course, error) {
	return r.list(ctx,
		`SELECT c.id, c.title, c.year, c.semester, c.description, c.min_group_size, c.max_group_size, c.created_at, c.updated_at
		 FROM courses c JOIN teaches w ON w.course_id = c.id
		 WHERE w.instructor_id = $1 ORDER BY c.year DESC, c.semester, c.title`, instructorID)
}

func (r *CourseRepository) list(ctx context.Context, sql string, args ...any) ([]model.Course, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// ListIDs retrieves every course ID.
func (r *CourseRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM courses`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO courses (title, year, semester, description, min_group_size, max_group_size)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		c.Title, c.Year, c.Semester, c.Description, c.MinGroupSize, c.MaxGroupSize,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update modifies an existing course.
func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	_, err := r.db.Exec(ctx,
		`UPDATE courses
		 SET title = $1, year = $2, semester = $3, description = $4,
		     min_group_size = $5, max_group_size = $6, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $7`,
		c.Title, c.Year, c.Semester, c.Description, c.MinGroupSize, c.MaxGroupSize, c.ID,
	)
	return err
}

// Delete removes a course by its ID.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}
