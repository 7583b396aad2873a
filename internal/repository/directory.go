package repository

import (
	"context"

	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/propagation"
)

// Directory is the PostgreSQL-backed read side of the propagation engine.
// It is constructed over the mutation's transaction so every answer reflects
// the row change the engine is reacting to.
type Directory struct {
	db database.Querier
}

// NewDirectory creates a Directory over db.
func NewDirectory(db database.Querier) *Directory {
	return &Directory{db: db}
}

var _ propagation.Directory = (*Directory)(nil)

func (d *Directory) CourseStudents(ctx context.Context, courseID int64) ([]propagation.EnrollmentRef, error) {
	rows, err := d.db.Query(ctx,
		`SELECT s.id, s.user_id, t.id
		 FROM takes t JOIN students s ON s.id = t.student_id
		 WHERE t.course_id = $1`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []propagation.EnrollmentRef
	for rows.Next() {
		var ref propagation.EnrollmentRef
		if err := rows.Scan(&ref.StudentID, &ref.UserID, &ref.TakesID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (d *Directory) CourseInstructors(ctx context.Context, courseID int64) ([]propagation.TeachingRef, error) {
	rows, err := d.db.Query(ctx,
		`SELECT i.id, i.user_id, w.id
		 FROM teaches w JOIN instructors i ON i.id = w.instructor_id
		 WHERE w.course_id = $1`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []propagation.TeachingRef
	for rows.Next() {
		var ref propagation.TeachingRef
		if err := rows.Scan(&ref.InstructorID, &ref.UserID, &ref.TeachesID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (d *Directory) CourseGroups(ctx context.Context, courseID int64) ([]propagation.GroupRef, error) {
	rows, err := d.db.Query(ctx,
		`SELECT g.id, g.leader_id, s.user_id
		 FROM groups g JOIN students s ON s.id = g.leader_id
		 WHERE g.course_id = $1`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []propagation.GroupRef
	for rows.Next() {
		var ref propagation.GroupRef
		if err := rows.Scan(&ref.GroupID, &ref.LeaderID, &ref.LeaderUserID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (d *Directory) Classmates(ctx context.Context, classID, excludeStudentID int64) ([]propagation.RoleRef, error) {
	return d.roleRefs(ctx,
		`SELECT id, user_id FROM students WHERE class_id = $1 AND id <> $2`,
		classID, excludeStudentID)
}

func (d *Directory) AllStudents(ctx context.Context) ([]propagation.RoleRef, error) {
	return d.roleRefs(ctx, `SELECT id, user_id FROM students`)
}

func (d *Directory) AllInstructors(ctx context.Context) ([]propagation.RoleRef, error) {
	return d.roleRefs(ctx, `SELECT id, user_id FROM instructors`)
}

func (d *Directory) roleRefs(ctx context.Context, sql string, args ...any) ([]propagation.RoleRef, error) {
	rows, err := d.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []propagation.RoleRef
	for rows.Next() {
		var ref propagation.RoleRef
		if err := rows.Scan(&ref.ID, &ref.UserID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (d *Directory) AllCourseIDs(ctx context.Context) ([]int64, error) {
	rows, err := d.db.Query(ctx, `SELECT id FROM courses`)
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

func (d *Directory) TakesCourseGivenBy(ctx context.Context, studentID, instructorID int64) (bool, error) {
	var exists bool
	err := d.db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM takes t JOIN teaches w ON w.course_id = t.course_id
		   WHERE t.student_id = $1 AND w.instructor_id = $2
		 )`, studentID, instructorID,
	).Scan(&exists)
	return exists, err
}

func (d *Directory) SharesCourseWith(ctx context.Context, studentID, otherStudentID int64) (bool, error) {
	var exists bool
	err := d.db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM takes a JOIN takes b ON b.course_id = a.course_id
		   WHERE a.student_id = $1 AND b.student_id = $2
		 )`, studentID, otherStudentID,
	).Scan(&exists)
	return exists, err
}

func (d *Directory) SharesTeachingWith(ctx context.Context, instructorID, otherInstructorID int64) (bool, error) {
	var exists bool
	err := d.db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM teaches a JOIN teaches b ON b.course_id = a.course_id
		   WHERE a.instructor_id = $1 AND b.instructor_id = $2
		 )`, instructorID, otherInstructorID,
	).Scan(&exists)
	return exists, err
}
