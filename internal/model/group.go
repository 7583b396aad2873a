package model

import "time"

// Group is a student work group inside a course. Number is drawn from
// GroupNumbers, unique within the course, auto-assigned to the lowest unused
// letter when omitted. The leader must take the course.
type Group struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"course_id"`
	Number    string    `json:"number"`
	Name      string    `json:"name,omitempty"`
	LeaderID  int64     `json:"leader_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupMembership links a member student to a group. (group, student) is
// unique; the student must take the group's course and must not already
// belong to another group of that course.
type GroupMembership struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	StudentID int64     `json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateGroupRequest creates a group under a course.
type CreateGroupRequest struct {
	CourseID int64   `json:"course_id" binding:"required"`
	Number   string  `json:"number" binding:"omitempty,len=1"`
	Name     string  `json:"name" binding:"max=255"`
	LeaderID int64   `json:"leader_id" binding:"required"`
	Members  []int64 `json:"members" binding:"omitempty"`
}

// UpdateGroupRequest renames a group or hands leadership over.
type UpdateGroupRequest struct {
	Number   string `json:"number" binding:"omitempty,len=1"`
	Name     string `json:"name" binding:"max=255"`
	LeaderID int64  `json:"leader_id" binding:"required"`
}

// AddGroupMemberRequest adds a member to a group.
type AddGroupMemberRequest struct {
	StudentID int64 `json:"student_id" binding:"required"`
}
