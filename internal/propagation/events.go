// Package propagation reacts to domain relationship mutations by granting
// and revoking object permissions through the four-level lattice. Services
// dispatch explicit events into the Engine synchronously, inside the same
// transaction as the row mutation, so a propagation failure rolls the write
// back with it.
package propagation

// Event is a domain mutation the engine reacts to.
type Event interface {
	isEvent()
}

// TakesInfo carries the identifiers of an enrollment row the engine needs.
type TakesInfo struct {
	TakesID       int64
	StudentID     int64
	StudentUserID int64
	CourseID      int64
}

// TeachesInfo carries the identifiers of a teaching-assignment row.
type TeachesInfo struct {
	TeachesID        int64
	InstructorID     int64
	InstructorUserID int64
	CourseID         int64
}

// GroupInfo carries the identifiers of a group.
type GroupInfo struct {
	GroupID      int64
	CourseID     int64
	LeaderID     int64
	LeaderUserID int64
}

// StudentInfo carries the identifiers of a student role.
type StudentInfo struct {
	StudentID int64
	UserID    int64
	ClassID   int64
}

// InstructorInfo carries the identifiers of an instructor role.
type InstructorInfo struct {
	InstructorID int64
	UserID       int64
}

type StudentCreated struct{ Student StudentInfo }

type StudentClassChanged struct {
	Student    StudentInfo // ClassID holds the new class
	OldClassID int64
}

type StudentDeleted struct{ Student StudentInfo }

type InstructorCreated struct{ Instructor InstructorInfo }

type InstructorDeleted struct{ Instructor InstructorInfo }

type CourseCreated struct{ CourseID int64 }

type CourseDeleted struct{ CourseID int64 }

type TakesCreated struct{ Takes TakesInfo }

// TakesUpdated is dispatched when an enrollment row's student or course
// changed. Pure grade edits do not alter the permission graph and are not
// dispatched.
type TakesUpdated struct {
	Old TakesInfo
	New TakesInfo
}

type TakesDeleted struct{ Takes TakesInfo }

type TeachesCreated struct{ Teaches TeachesInfo }

type TeachesUpdated struct {
	Old TeachesInfo
	New TeachesInfo
}

type TeachesDeleted struct{ Teaches TeachesInfo }

type GroupCreated struct{ Group GroupInfo }

type GroupLeaderChanged struct {
	Group           GroupInfo // LeaderID/LeaderUserID hold the new leader
	OldLeaderID     int64
	OldLeaderUserID int64
}

type GroupDeleted struct{ Group GroupInfo }

type GroupMemberAdded struct {
	Group  GroupInfo
	Member StudentInfo
}

type GroupMemberRemoved struct {
	Group  GroupInfo
	Member StudentInfo
}

func (StudentCreated) isEvent()      {}
func (StudentClassChanged) isEvent() {}
func (StudentDeleted) isEvent()      {}
func (InstructorCreated) isEvent()   {}
func (InstructorDeleted) isEvent()   {}
func (CourseCreated) isEvent()       {}
func (CourseDeleted) isEvent()       {}
func (TakesCreated) isEvent()        {}
func (TakesUpdated) isEvent()        {}
func (TakesDeleted) isEvent()        {}
func (TeachesCreated) isEvent()      {}
func (TeachesUpdated) isEvent()      {}
func (TeachesDeleted) isEvent()      {}
func (GroupCreated) isEvent()        {}
func (GroupLeaderChanged) isEvent()  {}
func (GroupDeleted) isEvent()        {}
func (GroupMemberAdded) isEvent()    {}
func (GroupMemberRemoved) isEvent()  {}
