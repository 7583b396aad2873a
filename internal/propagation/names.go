package propagation

import "github.com/gradehub/gradehub-backend/internal/perm"

// Object kinds used in permission grants.
const (
	KindStudent    = "student"
	KindInstructor = "instructor"
	KindCourse     = "course"
	KindClass      = "class"
	KindGroup      = "group"
	KindTakes      = "takes"
	KindTeaches    = "teaches"
	KindAssignment = "assignment"
)

// Base permission names. Levels are appended per the lattice encoding
// ("view_student_normal"); the bare name is the "all" level.
const (
	PermViewStudent    = "view_student"
	PermViewInstructor = "view_instructor"
	PermViewCourse     = "view_course"
	PermChangeCourse   = "change_course"
	PermViewTakes      = "view_takes"
	PermChangeTakes    = "change_takes"
	PermViewTeaches    = "view_teaches"
	PermChangeTeaches  = "change_teaches"
	PermViewGroup      = "view_group"
	PermChangeGroup    = "change_group"
	PermDeleteGroup    = "delete_group"
)

// Role-wide (objectless) permissions seeded when a role is bound and removed
// when it is deleted.
var (
	studentGlobalPerms = []string{
		PermViewStudent,
		PermViewInstructor,
		PermViewCourse,
		PermViewTakes,
		PermViewTeaches,
		PermViewGroup,
	}

	instructorGlobalPerms = []string{
		PermViewStudent,
		PermViewInstructor,
		PermViewCourse,
		PermViewTakes,
		PermViewTeaches,
		PermViewGroup,
		PermChangeTakes,
		"add_takes",
		"delete_takes",
		"add_course",
		PermChangeCourse,
		"delete_course",
		"add_group",
		PermChangeGroup,
		PermDeleteGroup,
		"add_assignment",
		"change_assignment",
		"delete_assignment",
		"view_assignment",
	}
)

func studentRef(id int64) perm.ObjectRef    { return perm.ObjectRef{Kind: KindStudent, ID: id} }
func instructorRef(id int64) perm.ObjectRef { return perm.ObjectRef{Kind: KindInstructor, ID: id} }
func courseRef(id int64) perm.ObjectRef     { return perm.ObjectRef{Kind: KindCourse, ID: id} }
func groupRef(id int64) perm.ObjectRef      { return perm.ObjectRef{Kind: KindGroup, ID: id} }
func takesRef(id int64) perm.ObjectRef      { return perm.ObjectRef{Kind: KindTakes, ID: id} }
func teachesRef(id int64) perm.ObjectRef    { return perm.ObjectRef{Kind: KindTeaches, ID: id} }
