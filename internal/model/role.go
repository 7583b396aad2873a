package model

// RoleKind discriminates the role bound to a user.
type RoleKind string

const (
	RoleNone       RoleKind = ""
	RoleStudent    RoleKind = "student"
	RoleInstructor RoleKind = "instructor"
)

// Role is the Student-or-Instructor specialization attached to a User,
// resolved by an explicit repository lookup. Exactly one of Student and
// Instructor is non-nil when Kind is set; both are nil for RoleNone.
type Role struct {
	Kind       RoleKind    `json:"kind"`
	Student    *Student    `json:"student,omitempty"`
	Instructor *Instructor `json:"instructor,omitempty"`
}

// UserID returns the user the role is bound to, or 0 for RoleNone.
func (r *Role) UserID() int64 {
	switch r.Kind {
	case RoleStudent:
		return r.Student.UserID
	case RoleInstructor:
		return r.Instructor.UserID
	}
	return 0
}
