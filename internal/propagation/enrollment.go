package propagation

import (
	"context"

	"github.com/gradehub/gradehub-backend/internal/perm"
)

// takesCreated wires a new enrollment into the permission graph: the student
// gains full visibility of their own row and the course, base visibility of
// the course's groups, and a mutual link with each course instructor and
// coursemate.
func (e *Engine) takesCreated(ctx context.Context, t TakesInfo) error {
	if err := e.assign(ctx, PermViewTakes, t.StudentUserID, takesRef(t.TakesID)); err != nil {
		return err
	}
	if err := e.assign(ctx, PermViewCourse, t.StudentUserID, courseRef(t.CourseID)); err != nil {
		return err
	}

	groups, err := e.dir.CourseGroups(ctx, t.CourseID)
	if err != nil {
		return err
	}
	groupBase := perm.Name(PermViewGroup, perm.LevelBase)
	for _, g := range groups {
		if err := e.assign(ctx, groupBase, t.StudentUserID, groupRef(g.GroupID)); err != nil {
			return err
		}
	}

	instructors, err := e.dir.CourseInstructors(ctx, t.CourseID)
	if err != nil {
		return err
	}
	for _, inst := range instructors {
		if err := e.linkStudentInstructor(ctx, t, inst); err != nil {
			return err
		}
	}

	students, err := e.dir.CourseStudents(ctx, t.CourseID)
	if err != nil {
		return err
	}
	stuBase := perm.Name(PermViewStudent, perm.LevelBase)
	for _, other := range students {
		if other.StudentID == t.StudentID {
			continue
		}
		if err := e.assign(ctx, stuBase, t.StudentUserID, studentRef(other.StudentID)); err != nil {
			return err
		}
		if err := e.assign(ctx, stuBase, other.UserID, studentRef(t.StudentID)); err != nil {
			return err
		}
	}
	return nil
}

// linkStudentInstructor grants the mutual permissions between one enrollment
// and one teaching assignment of the same course.
func (e *Engine) linkStudentInstructor(ctx context.Context, t TakesInfo, inst TeachingRef) error {
	if err := e.assign(ctx, PermViewTakes, inst.UserID, takesRef(t.TakesID)); err != nil {
		return err
	}
	if err := e.assign(ctx, PermChangeTakes, inst.UserID, takesRef(t.TakesID)); err != nil {
		return err
	}
	if err := e.assign(ctx, perm.Name(PermViewStudent, perm.LevelAdvanced), inst.UserID, studentRef(t.StudentID)); err != nil {
		return err
	}
	if err := e.assign(ctx, perm.Name(PermViewTeaches, perm.LevelBase), t.StudentUserID, teachesRef(inst.TeachesID)); err != nil {
		return err
	}
	return e.assign(ctx, perm.Name(PermViewInstructor, perm.LevelBase), t.StudentUserID, instructorRef(inst.InstructorID))
}

// takesDeleted unwinds takesCreated. The row's own grants are purged, the
// student falls back to the course floor, and the per-instructor and
// per-coursemate links are withdrawn unless another relationship still
// justifies them. The directory no longer contains the deleted row.
func (e *Engine) takesDeleted(ctx context.Context, t TakesInfo) error {
	if err := e.store.PurgeObject(ctx, takesRef(t.TakesID)); err != nil {
		return err
	}

	if err := perm.RemoveAllLevels(ctx, e.store, PermViewCourse, t.StudentUserID, courseRef(t.CourseID)); err != nil {
		return err
	}
	if err := e.assign(ctx, perm.Name(PermViewCourse, perm.LevelNormal), t.StudentUserID, courseRef(t.CourseID)); err != nil {
		return err
	}

	groups, err := e.dir.CourseGroups(ctx, t.CourseID)
	if err != nil {
		return err
	}
	groupBase := perm.Name(PermViewGroup, perm.LevelBase)
	for _, g := range groups {
		if err := e.store.Remove(ctx, groupBase, t.StudentUserID, groupRef(g.GroupID)); err != nil {
			return err
		}
	}

	instructors, err := e.dir.CourseInstructors(ctx, t.CourseID)
	if err != nil {
		return err
	}
	for _, inst := range instructors {
		still, err := e.dir.TakesCourseGivenBy(ctx, t.StudentID, inst.InstructorID)
		if err != nil {
			return err
		}
		if still {
			continue
		}
		if err := e.unlinkStudentInstructor(ctx, t, inst); err != nil {
			return err
		}
	}

	students, err := e.dir.CourseStudents(ctx, t.CourseID)
	if err != nil {
		return err
	}
	stuBase := perm.Name(PermViewStudent, perm.LevelBase)
	for _, other := range students {
		shared, err := e.dir.SharesCourseWith(ctx, t.StudentID, other.StudentID)
		if err != nil {
			return err
		}
		if shared {
			continue
		}
		if err := e.store.Remove(ctx, stuBase, t.StudentUserID, studentRef(other.StudentID)); err != nil {
			return err
		}
		if err := e.store.Remove(ctx, stuBase, other.UserID, studentRef(t.StudentID)); err != nil {
			return err
		}
	}
	return nil
}

// unlinkStudentInstructor withdraws the mutual grants between a former
// enrollment and one teaching assignment. The instructor keeps the advanced
// student floor, so the demotion on the student side re-grants it.
func (e *Engine) unlinkStudentInstructor(ctx context.Context, t TakesInfo, inst TeachingRef) error {
	if err := perm.RemoveAllLevels(ctx, e.store, PermViewTeaches, t.StudentUserID, teachesRef(inst.TeachesID)); err != nil {
		return err
	}
	if err := perm.RemoveAllLevels(ctx, e.store, PermViewInstructor, t.StudentUserID, instructorRef(inst.InstructorID)); err != nil {
		return err
	}
	if err := perm.RemoveAllLevels(ctx, e.store, PermViewStudent, inst.UserID, studentRef(t.StudentID)); err != nil {
		return err
	}
	return e.assign(ctx, perm.Name(PermViewStudent, perm.LevelAdvanced), inst.UserID, studentRef(t.StudentID))
}

// takesUpdated treats a student or course move as a delete of the old row
// followed by a create of the new one. Grade-only edits never reach the
// engine.
func (e *Engine) takesUpdated(ctx context.Context, old, now TakesInfo) error {
	if err := e.takesDeleted(ctx, old); err != nil {
		return err
	}
	return e.takesCreated(ctx, now)
}
