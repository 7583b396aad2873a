package propagation

import "context"

// RoleRef identifies a role row together with its login user.
type RoleRef struct {
	ID     int64 // student or instructor ID
	UserID int64
}

// EnrollmentRef is a course student together with their enrollment row.
type EnrollmentRef struct {
	StudentID int64
	UserID    int64
	TakesID   int64
}

// TeachingRef is a course instructor together with their teaching row.
type TeachingRef struct {
	InstructorID int64
	UserID       int64
	TeachesID    int64
}

// GroupRef identifies a group and its leader.
type GroupRef struct {
	GroupID      int64
	LeaderID     int64
	LeaderUserID int64
}

// Directory is the read side the engine walks when propagating grants.
// Queries run inside the mutation's transaction, after the row change, so
// the mutated row is already absent (on delete) or present (on create) in
// every answer — the non-regression checks rely on that.
type Directory interface {
	// CourseStudents lists current enrollments of a course.
	CourseStudents(ctx context.Context, courseID int64) ([]EnrollmentRef, error)

	// CourseInstructors lists current teaching assignments of a course.
	CourseInstructors(ctx context.Context, courseID int64) ([]TeachingRef, error)

	// CourseGroups lists the groups of a course.
	CourseGroups(ctx context.Context, courseID int64) ([]GroupRef, error)

	// Classmates lists the students of a class, excluding one student.
	Classmates(ctx context.Context, classID, excludeStudentID int64) ([]RoleRef, error)

	AllStudents(ctx context.Context) ([]RoleRef, error)
	AllInstructors(ctx context.Context) ([]RoleRef, error)
	AllCourseIDs(ctx context.Context) ([]int64, error)

	// TakesCourseGivenBy reports whether the student is enrolled in any
	// course the instructor currently teaches.
	TakesCourseGivenBy(ctx context.Context, studentID, instructorID int64) (bool, error)

	// SharesCourseWith reports whether two students have a course in common.
	SharesCourseWith(ctx context.Context, studentID, otherStudentID int64) (bool, error)

	// SharesTeachingWith reports whether two instructors co-teach any course.
	SharesTeachingWith(ctx context.Context, instructorID, otherInstructorID int64) (bool, error)
}
