package model

import "time"

// Semester identifies the half-year a course runs in.
type Semester string

const (
	SemesterSpring Semester = "SPG"
	SemesterAutumn Semester = "AUT"
)

// GroupNumbers is the alphabet group numbers are drawn from, in assignment
// order. A course can hold at most 26 groups.
const GroupNumbers = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Course is a taught course. (title, year, semester) is unique.
type Course struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Year         int       `json:"year"`
	Semester     Semester  `json:"semester"`
	Description  string    `json:"description,omitempty"`
	MinGroupSize int       `json:"min_group_size"`
	MaxGroupSize int       `json:"max_group_size"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidateGroupSize checks the 0 <= min <= max invariant, returning a
// field-keyed error map (empty on success).
func (c *Course) ValidateGroupSize() map[string]string {
	fields := make(map[string]string)
	if c.MinGroupSize < 0 {
		fields["min_group_size"] = "must not be negative"
	}
	if c.MaxGroupSize < 0 {
		fields["max_group_size"] = "must not be negative"
	}
	if len(fields) == 0 && c.MinGroupSize > c.MaxGroupSize {
		fields["min_group_size"] = "must not be greater than max group size"
		fields["max_group_size"] = "must not be less than min group size"
	}
	return fields
}

// CreateCourseRequest is the payload for creating or updating a course.
type CreateCourseRequest struct {
	Title        string   `json:"title" binding:"required,min=1,max=255"`
	Year         int      `json:"year" binding:"required,min=1900,max=9999"`
	Semester     Semester `json:"semester" binding:"required,oneof=SPG AUT"`
	Description  string   `json:"description" binding:"max=4000"`
	MinGroupSize int      `json:"min_group_size" binding:"min=0"`
	MaxGroupSize int      `json:"max_group_size" binding:"min=0"`
}
