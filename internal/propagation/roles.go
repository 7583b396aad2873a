package propagation

import (
	"context"

	"github.com/gradehub/gradehub-backend/internal/perm"
)

// studentCreated seeds the student's role-wide permissions and the passive
// floors between the new student and every existing course and instructor,
// then links the student with their classmates.
func (e *Engine) studentCreated(ctx context.Context, stu StudentInfo) error {
	for _, name := range studentGlobalPerms {
		if err := e.store.Assign(ctx, name, stu.UserID, perm.Global); err != nil {
			return err
		}
	}

	courseIDs, err := e.dir.AllCourseIDs(ctx)
	if err != nil {
		return err
	}
	for _, courseID := range courseIDs {
		if err := e.assign(ctx, perm.Name(PermViewCourse, perm.LevelNormal), stu.UserID, courseRef(courseID)); err != nil {
			return err
		}
	}

	instructors, err := e.dir.AllInstructors(ctx)
	if err != nil {
		return err
	}
	for _, inst := range instructors {
		if err := e.assign(ctx, perm.Name(PermViewStudent, perm.LevelAdvanced), inst.UserID, studentRef(stu.StudentID)); err != nil {
			return err
		}
	}

	return e.linkClassmates(ctx, stu)
}

// linkClassmates grants bidirectional normal student visibility between the
// student and everyone in their class.
func (e *Engine) linkClassmates(ctx context.Context, stu StudentInfo) error {
	classmates, err := e.dir.Classmates(ctx, stu.ClassID, stu.StudentID)
	if err != nil {
		return err
	}
	normal := perm.Name(PermViewStudent, perm.LevelNormal)
	for _, mate := range classmates {
		if err := e.assign(ctx, normal, stu.UserID, studentRef(mate.ID)); err != nil {
			return err
		}
		if err := e.assign(ctx, normal, mate.UserID, studentRef(stu.StudentID)); err != nil {
			return err
		}
	}
	return nil
}

// studentClassChanged unlinks the student from the old class and links them
// into the new one. Where an old classmate still shares a course with the
// student, the coursemate base grant is restored after the normal grant is
// withdrawn.
func (e *Engine) studentClassChanged(ctx context.Context, stu StudentInfo, oldClassID int64) error {
	old, err := e.dir.Classmates(ctx, oldClassID, stu.StudentID)
	if err != nil {
		return err
	}
	normal := perm.Name(PermViewStudent, perm.LevelNormal)
	base := perm.Name(PermViewStudent, perm.LevelBase)
	for _, mate := range old {
		if err := e.store.Remove(ctx, normal, stu.UserID, studentRef(mate.ID)); err != nil {
			return err
		}
		if err := e.store.Remove(ctx, normal, mate.UserID, studentRef(stu.StudentID)); err != nil {
			return err
		}
		shared, err := e.dir.SharesCourseWith(ctx, stu.StudentID, mate.ID)
		if err != nil {
			return err
		}
		if shared {
			if err := e.assign(ctx, base, stu.UserID, studentRef(mate.ID)); err != nil {
				return err
			}
			if err := e.assign(ctx, base, mate.UserID, studentRef(stu.StudentID)); err != nil {
				return err
			}
		}
	}
	return e.linkClassmates(ctx, stu)
}

// studentDeleted wipes every grant held by the student's user and every
// grant targeting the student. Relationship-row events have already run by
// the time this fires.
func (e *Engine) studentDeleted(ctx context.Context, stu StudentInfo) error {
	if err := e.store.PurgeUser(ctx, stu.UserID); err != nil {
		return err
	}
	return e.store.PurgeObject(ctx, studentRef(stu.StudentID))
}

// instructorCreated mirrors studentCreated for the instructor role: global
// permissions, course and student floors, and the mutual base link with
// every other instructor.
func (e *Engine) instructorCreated(ctx context.Context, inst InstructorInfo) error {
	for _, name := range instructorGlobalPerms {
		if err := e.store.Assign(ctx, name, inst.UserID, perm.Global); err != nil {
			return err
		}
	}

	courseIDs, err := e.dir.AllCourseIDs(ctx)
	if err != nil {
		return err
	}
	for _, courseID := range courseIDs {
		if err := e.assign(ctx, perm.Name(PermViewCourse, perm.LevelAdvanced), inst.UserID, courseRef(courseID)); err != nil {
			return err
		}
	}

	students, err := e.dir.AllStudents(ctx)
	if err != nil {
		return err
	}
	for _, stu := range students {
		if err := e.assign(ctx, perm.Name(PermViewStudent, perm.LevelAdvanced), inst.UserID, studentRef(stu.ID)); err != nil {
			return err
		}
	}

	others, err := e.dir.AllInstructors(ctx)
	if err != nil {
		return err
	}
	instBase := perm.Name(PermViewInstructor, perm.LevelBase)
	for _, other := range others {
		if other.ID == inst.InstructorID {
			continue
		}
		if err := e.assign(ctx, instBase, inst.UserID, instructorRef(other.ID)); err != nil {
			return err
		}
		if err := e.assign(ctx, instBase, other.UserID, instructorRef(inst.InstructorID)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) instructorDeleted(ctx context.Context, inst InstructorInfo) error {
	if err := e.store.PurgeUser(ctx, inst.UserID); err != nil {
		return err
	}
	return e.store.PurgeObject(ctx, instructorRef(inst.InstructorID))
}

// courseCreated seeds the course floors: normal visibility for every
// student, advanced for every instructor.
func (e *Engine) courseCreated(ctx context.Context, courseID int64) error {
	students, err := e.dir.AllStudents(ctx)
	if err != nil {
		return err
	}
	for _, stu := range students {
		if err := e.assign(ctx, perm.Name(PermViewCourse, perm.LevelNormal), stu.UserID, courseRef(courseID)); err != nil {
			return err
		}
	}
	instructors, err := e.dir.AllInstructors(ctx)
	if err != nil {
		return err
	}
	for _, inst := range instructors {
		if err := e.assign(ctx, perm.Name(PermViewCourse, perm.LevelAdvanced), inst.UserID, courseRef(courseID)); err != nil {
			return err
		}
	}
	return nil
}

// courseDeleted drops every grant targeting the course. Enrollment, teaching
// and group events for the course's rows have already run.
func (e *Engine) courseDeleted(ctx context.Context, courseID int64) error {
	return e.store.PurgeObject(ctx, courseRef(courseID))
}
