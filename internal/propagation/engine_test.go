package propagation

import (
	"context"
	"testing"

	"github.com/gradehub/gradehub-backend/internal/perm"
	"github.com/rs/zerolog"
)

// world is an in-memory stand-in for the service layer: it keeps the
// relationship rows, serves them through the Directory interface, and
// dispatches events to the engine in the same order the services do
// (row mutation first, event second).
type world struct {
	t      *testing.T
	store  *perm.MemStore
	engine *Engine
	seq    int64

	students    map[int64]StudentInfo
	instructors map[int64]InstructorInfo
	courses     map[int64]struct{}
	takes       map[int64]TakesInfo
	teaches     map[int64]TeachesInfo
	groups      map[int64]GroupInfo
}

func newWorld(t *testing.T) *world {
	w := &world{
		t:           t,
		store:       perm.NewMemStore(),
		students:    make(map[int64]StudentInfo),
		instructors: make(map[int64]InstructorInfo),
		courses:     make(map[int64]struct{}),
		takes:       make(map[int64]TakesInfo),
		teaches:     make(map[int64]TeachesInfo),
		groups:      make(map[int64]GroupInfo),
	}
	w.engine = NewEngine(w.store, w, zerolog.Nop())
	return w
}

func (w *world) nextID() int64 {
	w.seq++
	return w.seq
}

func (w *world) apply(ev Event) {
	w.t.Helper()
	if err := w.engine.Apply(context.Background(), ev); err != nil {
		w.t.Fatalf("Apply(%T): %v", ev, err)
	}
}

// Directory implementation.

func (w *world) CourseStudents(_ context.Context, courseID int64) ([]EnrollmentRef, error) {
	var out []EnrollmentRef
	for _, t := range w.takes {
		if t.CourseID == courseID {
			out = append(out, EnrollmentRef{StudentID: t.StudentID, UserID: t.StudentUserID, TakesID: t.TakesID})
		}
	}
	return out, nil
}

func (w *world) CourseInstructors(_ context.Context, courseID int64) ([]TeachingRef, error) {
	var out []TeachingRef
	for _, te := range w.teaches {
		if te.CourseID == courseID {
			out = append(out, TeachingRef{InstructorID: te.InstructorID, UserID: te.InstructorUserID, TeachesID: te.TeachesID})
		}
	}
	return out, nil
}

func (w *world) CourseGroups(_ context.Context, courseID int64) ([]GroupRef, error) {
	var out []GroupRef
	for _, g := range w.groups {
		if g.CourseID == courseID {
			out = append(out, GroupRef{GroupID: g.GroupID, LeaderID: g.LeaderID, LeaderUserID: g.LeaderUserID})
		}
	}
	return out, nil
}

func (w *world) Classmates(_ context.Context, classID, excludeStudentID int64) ([]RoleRef, error) {
	var out []RoleRef
	for _, s := range w.students {
		if s.ClassID == classID && s.StudentID != excludeStudentID {
			out = append(out, RoleRef{ID: s.StudentID, UserID: s.UserID})
		}
	}
	return out, nil
}

func (w *world) AllStudents(_ context.Context) ([]RoleRef, error) {
	var out []RoleRef
	for _, s := range w.students {
		out = append(out, RoleRef{ID: s.StudentID, UserID: s.UserID})
	}
	return out, nil
}

func (w *world) AllInstructors(_ context.Context) ([]RoleRef, error) {
	var out []RoleRef
	for _, i := range w.instructors {
		out = append(out, RoleRef{ID: i.InstructorID, UserID: i.UserID})
	}
	return out, nil
}

func (w *world) AllCourseIDs(_ context.Context) ([]int64, error) {
	var out []int64
	for id := range w.courses {
		out = append(out, id)
	}
	return out, nil
}

func (w *world) TakesCourseGivenBy(_ context.Context, studentID, instructorID int64) (bool, error) {
	for _, t := range w.takes {
		if t.StudentID != studentID {
			continue
		}
		for _, te := range w.teaches {
			if te.InstructorID == instructorID && te.CourseID == t.CourseID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (w *world) SharesCourseWith(_ context.Context, studentID, otherStudentID int64) (bool, error) {
	for _, a := range w.takes {
		if a.StudentID != studentID {
			continue
		}
		for _, b := range w.takes {
			if b.StudentID == otherStudentID && b.CourseID == a.CourseID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (w *world) SharesTeachingWith(_ context.Context, instructorID, otherInstructorID int64) (bool, error) {
	for _, a := range w.teaches {
		if a.InstructorID != instructorID {
			continue
		}
		for _, b := range w.teaches {
			if b.InstructorID == otherInstructorID && b.CourseID == a.CourseID {
				return true, nil
			}
		}
	}
	return false, nil
}

// Mutators, mirroring service dispatch order.

func (w *world) addStudent(classID int64) StudentInfo {
	s := StudentInfo{StudentID: w.nextID(), UserID: w.nextID(), ClassID: classID}
	w.students[s.StudentID] = s
	w.apply(StudentCreated{Student: s})
	return s
}

func (w *world) addInstructor() InstructorInfo {
	i := InstructorInfo{InstructorID: w.nextID(), UserID: w.nextID()}
	w.instructors[i.InstructorID] = i
	w.apply(InstructorCreated{Instructor: i})
	return i
}

func (w *world) addCourse() int64 {
	id := w.nextID()
	w.courses[id] = struct{}{}
	w.apply(CourseCreated{CourseID: id})
	return id
}

func (w *world) enroll(s StudentInfo, courseID int64) TakesInfo {
	t := TakesInfo{TakesID: w.nextID(), StudentID: s.StudentID, StudentUserID: s.UserID, CourseID: courseID}
	w.takes[t.TakesID] = t
	w.apply(TakesCreated{Takes: t})
	return t
}

func (w *world) dropTakes(t TakesInfo) {
	delete(w.takes, t.TakesID)
	w.apply(TakesDeleted{Takes: t})
}

func (w *world) moveTakes(t TakesInfo, s StudentInfo, courseID int64) TakesInfo {
	now := TakesInfo{TakesID: t.TakesID, StudentID: s.StudentID, StudentUserID: s.UserID, CourseID: courseID}
	w.takes[t.TakesID] = now
	w.apply(TakesUpdated{Old: t, New: now})
	return now
}

func (w *world) teach(i InstructorInfo, courseID int64) TeachesInfo {
	te := TeachesInfo{TeachesID: w.nextID(), InstructorID: i.InstructorID, InstructorUserID: i.UserID, CourseID: courseID}
	w.teaches[te.TeachesID] = te
	w.apply(TeachesCreated{Teaches: te})
	return te
}

func (w *world) dropTeaches(te TeachesInfo) {
	delete(w.teaches, te.TeachesID)
	w.apply(TeachesDeleted{Teaches: te})
}

func (w *world) moveTeaches(te TeachesInfo, i InstructorInfo, courseID int64) TeachesInfo {
	now := TeachesInfo{TeachesID: te.TeachesID, InstructorID: i.InstructorID, InstructorUserID: i.UserID, CourseID: courseID}
	w.teaches[te.TeachesID] = now
	w.apply(TeachesUpdated{Old: te, New: now})
	return now
}

func (w *world) addGroup(courseID int64, leader StudentInfo) GroupInfo {
	g := GroupInfo{GroupID: w.nextID(), CourseID: courseID, LeaderID: leader.StudentID, LeaderUserID: leader.UserID}
	w.groups[g.GroupID] = g
	w.apply(GroupCreated{Group: g})
	return g
}

func (w *world) changeLeader(g GroupInfo, leader StudentInfo) GroupInfo {
	now := g
	now.LeaderID = leader.StudentID
	now.LeaderUserID = leader.UserID
	w.groups[g.GroupID] = now
	w.apply(GroupLeaderChanged{Group: now, OldLeaderID: g.LeaderID, OldLeaderUserID: g.LeaderUserID})
	return now
}

func (w *world) dropGroup(g GroupInfo) {
	delete(w.groups, g.GroupID)
	w.apply(GroupDeleted{Group: g})
}

func (w *world) changeClass(s StudentInfo, classID int64) StudentInfo {
	old := s.ClassID
	s.ClassID = classID
	w.students[s.StudentID] = s
	w.apply(StudentClassChanged{Student: s, OldClassID: old})
	return s
}

// deleteStudent cascades the student's rows the way the student service
// does: per-row delete events first, then the role deletion itself.
func (w *world) deleteStudent(s StudentInfo) {
	for id, t := range w.takes {
		if t.StudentID == s.StudentID {
			delete(w.takes, id)
			w.apply(TakesDeleted{Takes: t})
		}
	}
	delete(w.students, s.StudentID)
	w.apply(StudentDeleted{Student: s})
}

func (w *world) deleteInstructor(i InstructorInfo) {
	for id, te := range w.teaches {
		if te.InstructorID == i.InstructorID {
			delete(w.teaches, id)
			w.apply(TeachesDeleted{Teaches: te})
		}
	}
	delete(w.instructors, i.InstructorID)
	w.apply(InstructorDeleted{Instructor: i})
}

func (w *world) deleteCourse(courseID int64) {
	for id, g := range w.groups {
		if g.CourseID == courseID {
			delete(w.groups, id)
			w.apply(GroupDeleted{Group: g})
		}
	}
	for id, t := range w.takes {
		if t.CourseID == courseID {
			delete(w.takes, id)
			w.apply(TakesDeleted{Takes: t})
		}
	}
	for id, te := range w.teaches {
		if te.CourseID == courseID {
			delete(w.teaches, id)
			w.apply(TeachesDeleted{Teaches: te})
		}
	}
	delete(w.courses, courseID)
	w.apply(CourseDeleted{CourseID: courseID})
}

// Assertions.

func (w *world) has(name string, userID int64, obj perm.ObjectRef) bool {
	w.t.Helper()
	ok, err := perm.HasFourLevel(context.Background(), w.store, name, userID, obj, false)
	if err != nil {
		w.t.Fatalf("HasFourLevel(%q): %v", name, err)
	}
	return ok
}

func (w *world) hasExact(name string, userID int64, obj perm.ObjectRef) bool {
	w.t.Helper()
	ok, err := perm.HasFourLevel(context.Background(), w.store, name, userID, obj, true)
	if err != nil {
		w.t.Fatalf("HasFourLevel(%q, exact): %v", name, err)
	}
	return ok
}

func (w *world) want(name string, userID int64, obj perm.ObjectRef) {
	w.t.Helper()
	if !w.has(name, userID, obj) {
		w.t.Errorf("user %d should hold %q on %v", userID, name, obj)
	}
}

func (w *world) wantNot(name string, userID int64, obj perm.ObjectRef) {
	w.t.Helper()
	if w.has(name, userID, obj) {
		w.t.Errorf("user %d should not hold %q on %v", userID, name, obj)
	}
}

func TestRoleGlobalGrants(t *testing.T) {
	w := newWorld(t)
	stu := w.addStudent(1)
	inst := w.addInstructor()

	w.want("view_course", stu.UserID, perm.Global)
	w.want("view_takes", stu.UserID, perm.Global)
	w.wantNot("change_takes", stu.UserID, perm.Global)

	w.want("change_takes", inst.UserID, perm.Global)
	w.want("delete_group", inst.UserID, perm.Global)
}

func TestCourseFloors(t *testing.T) {
	w := newWorld(t)
	stu := w.addStudent(1)
	inst := w.addInstructor()
	course := w.addCourse()

	// existing roles see the new course at their floor level
	if !w.hasExact("view_course_normal", stu.UserID, courseRef(course)) {
		t.Errorf("student floor on new course should be exactly normal")
	}
	if !w.hasExact("view_course_advanced", inst.UserID, courseRef(course)) {
		t.Errorf("instructor floor on new course should be exactly advanced")
	}

	// new roles receive floors on the existing course
	stu2 := w.addStudent(1)
	inst2 := w.addInstructor()
	w.want("view_course_normal", stu2.UserID, courseRef(course))
	w.want("view_course_advanced", inst2.UserID, courseRef(course))

	// instructors see every student at advanced, and each other at base
	w.want("view_student_advanced", inst.UserID, studentRef(stu2.StudentID))
	w.want("view_student_advanced", inst2.UserID, studentRef(stu.StudentID))
	w.want("view_instructor_base", inst.UserID, instructorRef(inst2.InstructorID))
	w.want("view_instructor_base", inst2.UserID, instructorRef(inst.InstructorID))
	w.wantNot("view_instructor_normal", inst.UserID, instructorRef(inst2.InstructorID))
}

func TestEnrollmentGrants(t *testing.T) {
	w := newWorld(t)
	inst := w.addInstructor()
	course := w.addCourse()
	te := w.teach(inst, course)
	stu := w.addStudent(1)

	takes := w.enroll(stu, course)

	w.want("view_takes", stu.UserID, takesRef(takes.TakesID))
	w.want("view_course", stu.UserID, courseRef(course))
	w.want("view_teaches_base", stu.UserID, teachesRef(te.TeachesID))
	w.want("view_instructor_base", stu.UserID, instructorRef(inst.InstructorID))
	w.want("view_takes", inst.UserID, takesRef(takes.TakesID))
	w.want("change_takes", inst.UserID, takesRef(takes.TakesID))
	w.want("view_student_advanced", inst.UserID, studentRef(stu.StudentID))

	w.dropTakes(takes)

	w.wantNot("view_takes_base", stu.UserID, takesRef(takes.TakesID))
	w.wantNot("view_takes_base", inst.UserID, takesRef(takes.TakesID))
	w.wantNot("view_teaches_base", stu.UserID, teachesRef(te.TeachesID))
	w.wantNot("view_instructor_base", stu.UserID, instructorRef(inst.InstructorID))
	if !w.hasExact("view_course_normal", stu.UserID, courseRef(course)) {
		t.Errorf("dropping the course should demote the student to the normal floor")
	}
	// the instructor's student floor survives
	w.want("view_student_advanced", inst.UserID, studentRef(stu.StudentID))
}

func TestEnrollmentKeptByOtherCourse(t *testing.T) {
	w := newWorld(t)
	inst := w.addInstructor()
	course1 := w.addCourse()
	course2 := w.addCourse()
	te1 := w.teach(inst, course1)
	w.teach(inst, course2)
	stu := w.addStudent(1)
	takes1 := w.enroll(stu, course1)
	w.enroll(stu, course2)

	w.dropTakes(takes1)

	// the student still takes course2 given by the same instructor
	w.want("view_instructor_base", stu.UserID, instructorRef(inst.InstructorID))
	// but the dropped course's teaching row is no longer visible
	w.wantNot("view_teaches_base", stu.UserID, teachesRef(te1.TeachesID))
}

func TestCoursemates(t *testing.T) {
	w := newWorld(t)
	course1 := w.addCourse()
	course2 := w.addCourse()
	stu1 := w.addStudent(1)
	stu2 := w.addStudent(2)
	takes1 := w.enroll(stu1, course1)
	w.enroll(stu2, course1)

	w.want("view_student_base", stu1.UserID, studentRef(stu2.StudentID))
	w.want("view_student_base", stu2.UserID, studentRef(stu1.StudentID))

	// a second shared course keeps the link after one is dropped
	w.enroll(stu1, course2)
	takes2b := w.enroll(stu2, course2)
	w.dropTakes(takes1)
	w.want("view_student_base", stu1.UserID, studentRef(stu2.StudentID))
	w.want("view_student_base", stu2.UserID, studentRef(stu1.StudentID))

	w.dropTakes(takes2b)
	w.wantNot("view_student_base", stu1.UserID, studentRef(stu2.StudentID))
	w.wantNot("view_student_base", stu2.UserID, studentRef(stu1.StudentID))
}

func TestClassmates(t *testing.T) {
	w := newWorld(t)
	stu1 := w.addStudent(1)
	stu2 := w.addStudent(1)
	stranger := w.addStudent(2)

	w.want("view_student_normal", stu1.UserID, studentRef(stu2.StudentID))
	w.want("view_student_normal", stu2.UserID, studentRef(stu1.StudentID))
	w.wantNot("view_student_base", stranger.UserID, studentRef(stu1.StudentID))
}

func TestClassChange(t *testing.T) {
	w := newWorld(t)
	course := w.addCourse()
	stu1 := w.addStudent(1)
	stu2 := w.addStudent(1)
	stu3 := w.addStudent(2)
	w.enroll(stu1, course)
	w.enroll(stu2, course)

	stu1 = w.changeClass(stu1, 2)

	// old classmate drops to the coursemate base link
	if !w.hasExact("view_student_base", stu1.UserID, studentRef(stu2.StudentID)) {
		t.Errorf("former classmate sharing a course should keep exactly base")
	}
	if !w.hasExact("view_student_base", stu2.UserID, studentRef(stu1.StudentID)) {
		t.Errorf("former classmate sharing a course should keep exactly base")
	}
	// new classmates are linked at normal
	w.want("view_student_normal", stu1.UserID, studentRef(stu3.StudentID))
	w.want("view_student_normal", stu3.UserID, studentRef(stu1.StudentID))
}

func TestClassChangeWithoutSharedCourse(t *testing.T) {
	w := newWorld(t)
	stu1 := w.addStudent(1)
	stu2 := w.addStudent(1)

	w.changeClass(stu1, 2)

	w.wantNot("view_student_base", stu1.UserID, studentRef(stu2.StudentID))
	w.wantNot("view_student_base", stu2.UserID, studentRef(stu1.StudentID))
}

func TestTeachingGrants(t *testing.T) {
	w := newWorld(t)
	course := w.addCourse()
	stu := w.addStudent(1)
	takes := w.enroll(stu, course)
	inst := w.addInstructor()

	te := w.teach(inst, course)

	w.want("view_course", inst.UserID, courseRef(course))
	w.want("change_course", inst.UserID, courseRef(course))
	w.want("view_teaches", inst.UserID, teachesRef(te.TeachesID))
	w.want("change_teaches", inst.UserID, teachesRef(te.TeachesID))
	w.want("view_takes", inst.UserID, takesRef(takes.TakesID))
	w.want("change_takes", inst.UserID, takesRef(takes.TakesID))
	w.want("view_teaches_base", stu.UserID, teachesRef(te.TeachesID))
	w.want("view_instructor_base", stu.UserID, instructorRef(inst.InstructorID))

	w.dropTeaches(te)

	if !w.hasExact("view_course_advanced", inst.UserID, courseRef(course)) {
		t.Errorf("leaving the course should demote the instructor to the advanced floor")
	}
	w.wantNot("change_course_base", inst.UserID, courseRef(course))
	w.wantNot("view_takes_base", inst.UserID, takesRef(takes.TakesID))
	w.wantNot("change_takes_base", inst.UserID, takesRef(takes.TakesID))
	w.wantNot("view_instructor_base", stu.UserID, instructorRef(inst.InstructorID))
	w.want("view_student_advanced", inst.UserID, studentRef(stu.StudentID))
}

func TestCoInstructors(t *testing.T) {
	w := newWorld(t)
	course1 := w.addCourse()
	course2 := w.addCourse()
	inst1 := w.addInstructor()
	inst2 := w.addInstructor()
	te1 := w.teach(inst1, course1)
	te2 := w.teach(inst2, course1)

	w.want("view_teaches_advanced", inst1.UserID, teachesRef(te2.TeachesID))
	w.want("view_teaches_advanced", inst2.UserID, teachesRef(te1.TeachesID))
	w.wantNot("change_teaches_base", inst1.UserID, teachesRef(te2.TeachesID))

	// a second shared course keeps the remaining-row link
	te1b := w.teach(inst1, course2)
	te2b := w.teach(inst2, course2)
	w.dropTeaches(te1)
	w.want("view_teaches_advanced", inst1.UserID, teachesRef(te2b.TeachesID))
	w.want("view_teaches_advanced", inst2.UserID, teachesRef(te1b.TeachesID))

	w.dropTeaches(te2b)
	w.wantNot("view_teaches_advanced", inst2.UserID, teachesRef(te1b.TeachesID))
}

func TestTakesCourseMove(t *testing.T) {
	w := newWorld(t)
	inst1 := w.addInstructor()
	inst2 := w.addInstructor()
	course1 := w.addCourse()
	course2 := w.addCourse()
	te1 := w.teach(inst1, course1)
	te2 := w.teach(inst2, course2)
	stu := w.addStudent(1)
	takes := w.enroll(stu, course1)

	takes = w.moveTakes(takes, stu, course2)

	w.want("view_takes", stu.UserID, takesRef(takes.TakesID))
	if !w.hasExact("view_course_normal", stu.UserID, courseRef(course1)) {
		t.Errorf("moving out of a course should demote to the normal floor")
	}
	w.want("view_course", stu.UserID, courseRef(course2))
	w.wantNot("view_teaches_base", stu.UserID, teachesRef(te1.TeachesID))
	w.want("view_teaches_base", stu.UserID, teachesRef(te2.TeachesID))
	w.wantNot("view_instructor_base", stu.UserID, instructorRef(inst1.InstructorID))
	w.want("view_instructor_base", stu.UserID, instructorRef(inst2.InstructorID))
	w.wantNot("view_takes_base", inst1.UserID, takesRef(takes.TakesID))
	w.want("view_takes", inst2.UserID, takesRef(takes.TakesID))
}

func TestTeachesInstructorMove(t *testing.T) {
	w := newWorld(t)
	inst1 := w.addInstructor()
	inst2 := w.addInstructor()
	course := w.addCourse()
	stu := w.addStudent(1)
	takes := w.enroll(stu, course)
	te := w.teach(inst1, course)

	te = w.moveTeaches(te, inst2, course)

	w.wantNot("view_takes_base", inst1.UserID, takesRef(takes.TakesID))
	if !w.hasExact("view_course_advanced", inst1.UserID, courseRef(course)) {
		t.Errorf("replaced instructor should fall back to the advanced floor")
	}
	w.want("view_takes", inst2.UserID, takesRef(takes.TakesID))
	w.want("change_takes", inst2.UserID, takesRef(takes.TakesID))
	w.want("view_teaches", inst2.UserID, teachesRef(te.TeachesID))
	w.want("view_teaches_base", stu.UserID, teachesRef(te.TeachesID))
	w.want("view_instructor_base", stu.UserID, instructorRef(inst2.InstructorID))
	w.wantNot("view_instructor_base", stu.UserID, instructorRef(inst1.InstructorID))
}

func TestGroupGrants(t *testing.T) {
	w := newWorld(t)
	course := w.addCourse()
	inst := w.addInstructor()
	w.teach(inst, course)
	leader := w.addStudent(1)
	member := w.addStudent(1)
	w.enroll(leader, course)
	memberTakes := w.enroll(member, course)

	g := w.addGroup(course, leader)

	w.want("view_group_base", leader.UserID, groupRef(g.GroupID))
	w.want("view_group_base", member.UserID, groupRef(g.GroupID))
	w.want("change_group_advanced", leader.UserID, groupRef(g.GroupID))
	w.wantNot("change_group_base", member.UserID, groupRef(g.GroupID))
	w.want("view_group_advanced", inst.UserID, groupRef(g.GroupID))
	w.want("change_group_advanced", inst.UserID, groupRef(g.GroupID))
	w.want("delete_group_advanced", inst.UserID, groupRef(g.GroupID))

	g = w.changeLeader(g, member)
	w.wantNot("change_group_base", leader.UserID, groupRef(g.GroupID))
	w.want("change_group_advanced", member.UserID, groupRef(g.GroupID))

	// late enrollment still sees the existing group
	late := w.addStudent(1)
	w.enroll(late, course)
	w.want("view_group_base", late.UserID, groupRef(g.GroupID))

	// dropping the course removes group visibility
	w.dropTakes(memberTakes)
	w.wantNot("view_group_base", member.UserID, groupRef(g.GroupID))

	w.dropGroup(g)
	w.wantNot("view_group_base", leader.UserID, groupRef(g.GroupID))
	w.wantNot("view_group_advanced", inst.UserID, groupRef(g.GroupID))
}

func TestNoLeakedGrants(t *testing.T) {
	w := newWorld(t)
	course1 := w.addCourse()
	course2 := w.addCourse()
	inst1 := w.addInstructor()
	inst2 := w.addInstructor()
	w.teach(inst1, course1)
	w.teach(inst2, course1)
	w.teach(inst2, course2)
	stu1 := w.addStudent(1)
	stu2 := w.addStudent(1)
	stu3 := w.addStudent(2)
	w.enroll(stu1, course1)
	w.enroll(stu2, course1)
	w.enroll(stu2, course2)
	w.enroll(stu3, course2)
	w.addGroup(course1, stu1)

	w.deleteCourse(course1)
	w.deleteCourse(course2)
	w.deleteStudent(stu1)
	w.deleteStudent(stu2)
	w.deleteStudent(stu3)
	w.deleteInstructor(inst1)
	w.deleteInstructor(inst2)

	if n := w.store.Len(); n != 0 {
		t.Errorf("expected an empty grant set after teardown, %d grants remain", n)
	}
}

func TestApplyUnknownEvent(t *testing.T) {
	w := newWorld(t)
	if err := w.engine.Apply(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a nil event")
	}
}
