package propagation

import (
	"context"

	"github.com/gradehub/gradehub-backend/internal/perm"
)

// teachesCreated wires a new teaching assignment into the permission graph:
// the instructor gains full control of the course and their own row,
// advanced group permissions, a mutual link with every enrolled student, and
// advanced row visibility with each co-instructor.
func (e *Engine) teachesCreated(ctx context.Context, w TeachesInfo) error {
	if err := e.assign(ctx, PermViewCourse, w.InstructorUserID, courseRef(w.CourseID)); err != nil {
		return err
	}
	if err := e.assign(ctx, PermChangeCourse, w.InstructorUserID, courseRef(w.CourseID)); err != nil {
		return err
	}
	if err := e.assign(ctx, PermViewTeaches, w.InstructorUserID, teachesRef(w.TeachesID)); err != nil {
		return err
	}
	if err := e.assign(ctx, PermChangeTeaches, w.InstructorUserID, teachesRef(w.TeachesID)); err != nil {
		return err
	}

	groups, err := e.dir.CourseGroups(ctx, w.CourseID)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if err := e.grantGroupAdvanced(ctx, w.InstructorUserID, g.GroupID); err != nil {
			return err
		}
	}

	students, err := e.dir.CourseStudents(ctx, w.CourseID)
	if err != nil {
		return err
	}
	self := TeachingRef{InstructorID: w.InstructorID, UserID: w.InstructorUserID, TeachesID: w.TeachesID}
	for _, s := range students {
		t := TakesInfo{
			TakesID:       s.TakesID,
			StudentID:     s.StudentID,
			StudentUserID: s.UserID,
			CourseID:      w.CourseID,
		}
		if err := e.linkStudentInstructor(ctx, t, self); err != nil {
			return err
		}
	}

	others, err := e.dir.CourseInstructors(ctx, w.CourseID)
	if err != nil {
		return err
	}
	teachesAdv := perm.Name(PermViewTeaches, perm.LevelAdvanced)
	for _, other := range others {
		if other.InstructorID == w.InstructorID {
			continue
		}
		if err := e.assign(ctx, teachesAdv, w.InstructorUserID, teachesRef(other.TeachesID)); err != nil {
			return err
		}
		if err := e.assign(ctx, teachesAdv, other.UserID, teachesRef(w.TeachesID)); err != nil {
			return err
		}
	}
	return nil
}

// teachesDeleted unwinds teachesCreated. The row's grants are purged, the
// instructor falls back to the course floor and loses the course's group and
// enrollment permissions, and cross links are withdrawn unless another
// relationship still justifies them.
func (e *Engine) teachesDeleted(ctx context.Context, w TeachesInfo) error {
	if err := e.store.PurgeObject(ctx, teachesRef(w.TeachesID)); err != nil {
		return err
	}

	if err := perm.RemoveAllLevels(ctx, e.store, PermViewCourse, w.InstructorUserID, courseRef(w.CourseID)); err != nil {
		return err
	}
	if err := perm.RemoveAllLevels(ctx, e.store, PermChangeCourse, w.InstructorUserID, courseRef(w.CourseID)); err != nil {
		return err
	}
	if err := e.assign(ctx, perm.Name(PermViewCourse, perm.LevelAdvanced), w.InstructorUserID, courseRef(w.CourseID)); err != nil {
		return err
	}

	groups, err := e.dir.CourseGroups(ctx, w.CourseID)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if err := e.removeGroupAdvanced(ctx, w.InstructorUserID, g.GroupID); err != nil {
			return err
		}
	}

	students, err := e.dir.CourseStudents(ctx, w.CourseID)
	if err != nil {
		return err
	}
	for _, s := range students {
		if err := perm.RemoveAllLevels(ctx, e.store, PermViewTakes, w.InstructorUserID, takesRef(s.TakesID)); err != nil {
			return err
		}
		if err := perm.RemoveAllLevels(ctx, e.store, PermChangeTakes, w.InstructorUserID, takesRef(s.TakesID)); err != nil {
			return err
		}
		still, err := e.dir.TakesCourseGivenBy(ctx, s.StudentID, w.InstructorID)
		if err != nil {
			return err
		}
		if still {
			continue
		}
		if err := perm.RemoveAllLevels(ctx, e.store, PermViewInstructor, s.UserID, instructorRef(w.InstructorID)); err != nil {
			return err
		}
		if err := perm.RemoveAllLevels(ctx, e.store, PermViewStudent, w.InstructorUserID, studentRef(s.StudentID)); err != nil {
			return err
		}
		if err := e.assign(ctx, perm.Name(PermViewStudent, perm.LevelAdvanced), w.InstructorUserID, studentRef(s.StudentID)); err != nil {
			return err
		}
	}

	others, err := e.dir.CourseInstructors(ctx, w.CourseID)
	if err != nil {
		return err
	}
	teachesAdv := perm.Name(PermViewTeaches, perm.LevelAdvanced)
	for _, other := range others {
		shared, err := e.dir.SharesTeachingWith(ctx, w.InstructorID, other.InstructorID)
		if err != nil {
			return err
		}
		if shared {
			continue
		}
		if err := e.store.Remove(ctx, teachesAdv, w.InstructorUserID, teachesRef(other.TeachesID)); err != nil {
			return err
		}
	}
	return nil
}

// teachesUpdated treats an instructor or course move as a delete of the old
// row followed by a create of the new one.
func (e *Engine) teachesUpdated(ctx context.Context, old, now TeachesInfo) error {
	if err := e.teachesDeleted(ctx, old); err != nil {
		return err
	}
	return e.teachesCreated(ctx, now)
}
