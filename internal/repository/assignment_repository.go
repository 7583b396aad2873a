package repository

import (
	"context"
	"time"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/model"
)

// AssignmentRepository handles course assignment data access. The ordinal of
// an assignment within its course is ranked by assigned time on every read
// rather than stored, so inserting older homework never leaves stale
// numbering behind.
type AssignmentRepository struct {
	db database.Querier
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(db database.Querier) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `id, course_id, title, description, grade_ratio, deadline_at, assigned_at, created_at, updated_at`

// nilTime maps the zero time to NULL so COALESCE can fill a column default.
func nilTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func scanAssignment(row interface{ Scan(...any) error }) (*model.CourseAssignment, error) {
	a := &model.CourseAssignment{}
	err := row.Scan(&a.ID, &a.CourseID, &a.Title, &a.Description, &a.GradeRatio,
		&a.DeadlineAt, &a.AssignedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an assignment with its rank within the course.
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*model.CourseAssignment, error) {
	a := &model.CourseAssignment{}
	err := r.db.QueryRow(ctx,
		`SELECT ranked.id, ranked.course_id, ranked.title, ranked.description, ranked.grade_ratio,
		        ranked.deadline_at, ranked.assigned_at, ranked.created_at, ranked.updated_at, ranked.no_in_course
		 FROM (
		   SELECT `+assignmentColumns+`,
		          RANK() OVER (PARTITION BY course_id ORDER BY assigned_at, id) AS no_in_course
		   FROM course_assignments
		 ) ranked
		 WHERE ranked.id = $1`, id,
	).Scan(&a.ID, &a.CourseID, &a.Title, &a.Description, &a.GradeRatio,
		&a.DeadlineAt, &a.AssignedAt, &a.CreatedAt, &a.UpdatedAt, &a.NoInCourse)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByCourse retrieves the assignments of a course in assigned order, with
// their ordinals populated.
func (r *AssignmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]model.CourseAssignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+assignmentColumns+`,
		        RANK() OVER (ORDER BY assigned_at, id) AS no_in_course
		 FROM course_assignments
		 WHERE course_id = $1
		 ORDER BY assigned_at, id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []model.CourseAssignment
	for rows.Next() {
		var a model.CourseAssignment
		if err := rows.Scan(&a.ID, &a.CourseID, &a.Title, &a.Description, &a.GradeRatio,
			&a.DeadlineAt, &a.AssignedAt, &a.CreatedAt, &a.UpdatedAt, &a.NoInCourse); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.CourseAssignment) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO course_assignments (course_id, title, description, grade_ratio, deadline_at, assigned_at)
		 VALUES ($1, $2, $3, $4, $5, COALESCE($6, CURRENT_TIMESTAMP))
		 RETURNING id, assigned_at, created_at, updated_at`,
		a.CourseID, a.Title, a.Description, a.GradeRatio, a.DeadlineAt, nilTime(a.AssignedAt),
	).Scan(&a.ID, &a.AssignedAt, &a.CreatedAt, &a.UpdatedAt)
}

// Update modifies an existing assignment.
func (r *AssignmentRepository) Update(ctx context.Context, a *model.CourseAssignment) error {
	_, err := r.db.Exec(ctx,
		`UPDATE course_assignments
		 SET title = $1, description = $2, grade_ratio = $3, deadline_at = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5`,
		a.Title, a.Description, a.GradeRatio, a.DeadlineAt, a.ID,
	)
	return err
}

// Delete removes an assignment by its ID.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM course_assignments WHERE id = $1`, id)
	return err
}
