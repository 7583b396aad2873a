package repository

import (
	"context"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/model"
)

// StudentRepository handles student role data access.
type StudentRepository struct {
	db database.Querier
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db database.Querier) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, user_id, s_id, name, sex, class_id, created_at, updated_at`

func scanStudent(row interface{ Scan(...any) error }) (*model.Student, error) {
	s := &model.Student{}
	var sex *string
	err := row.Scan(&s.ID, &s.UserID, &s.SID, &s.Name, &sex, &s.ClassID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if sex != nil {
		s.Sex = model.Sex(*sex)
	}
	return s, nil
}

// GetByID retrieves a student by its ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	return scanStudent(r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
}

// GetByUserID retrieves the student bound to a user, if any.
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*model.Student, error) {
	return scanStudent(r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE user_id = $1`, userID))
}

// GetBySID retrieves a student by their student number.
func (r *StudentRepository) GetBySID(ctx context.Context, sid string) (*model.Student, error) {
	return scanStudent(r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE s_id = $1`, sid))
}

// List retrieves all students ordered by student number.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	return r.list(ctx, `SELECT `+studentColumns+` FROM students ORDER BY s_id`)
}

// ListByClass retrieves the students of a class.
func (r *StudentRepository) ListByClass(ctx context.Context, classID int64) ([]model.Student, error) {
	return r.list(ctx,
		`SELECT `+studentColumns+` FROM students WHERE class_id = $1 ORDER BY s_id`, classID)
}

// ListByCourse retrieves the students enrolled in a course.
func (r *StudentRepository) ListByCourse(ctx context.Context, courseID int64) ([]model.Student, error) {
	return r.list(ctx,
		`SELECT s.id, s.user_id, s.s_id, s.name, s.sex, s.class_id, s.created_at, s.updated_at
		 FROM students s JOIN takes t ON t.student_id = s.id
		 WHERE t.course_id = $1 ORDER BY s.s_id`, courseID)
}

// ListByGroup retrieves the member students of a group, leader excluded.
func (r *StudentRepository) ListByGroup(ctx context.Context, groupID int64) ([]model.Student, error) {
	return r.list(ctx,
		`SELECT s.id, s.user_id, s.s_id, s.name, s.sex, s.class_id, s.created_at, s.updated_at
		 FROM students s JOIN group_memberships m ON m.student_id = s.id
		 WHERE m.group_id = $1 ORDER BY s.s_id`, groupID)
}

func (r *StudentRepository) list(ctx context.Context, sql string, args ...any) ([]model.Student, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO students (user_id, s_id, name, sex, class_id)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		 RETURNING id, created_at, updated_at`,
		s.UserID, s.SID, s.Name, string(s.Sex), s.ClassID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	_, err := r.db.Exec(ctx,
		`UPDATE students
		 SET s_id = $1, name = $2, sex = NULLIF($3, ''), class_id = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5`,
		s.SID, s.Name, string(s.Sex), s.ClassID, s.ID,
	)
	return err
}

// Delete removes a student by its ID.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}
