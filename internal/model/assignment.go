package model

import "time"

// CourseAssignment is homework assigned under a course. Its ordinal within
// the course is derived from AssignedAt order on every read, never stored.
type CourseAssignment struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	GradeRatio  float64   `json:"grade_ratio"`
	DeadlineAt  time.Time `json:"deadline_at"`
	AssignedAt  time.Time `json:"assigned_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// NoInCourse is the 1-based rank among the course's assignments sorted
	// by assigned time. Populated by the repository on reads.
	NoInCourse int `json:"no_in_course,omitempty"`
}

// ValidateGradeRatio checks the (0,1] constraint, returning a field-keyed
// error map (empty on success).
func (a *CourseAssignment) ValidateGradeRatio() map[string]string {
	if a.GradeRatio <= 0 || a.GradeRatio > 1 {
		return map[string]string{"grade_ratio": "must be in (0, 1]"}
	}
	return map[string]string{}
}

// CreateAssignmentRequest creates an assignment under a course.
type CreateAssignmentRequest struct {
	CourseID    int64     `json:"course_id" binding:"required"`
	Title       string    `json:"title" binding:"required,min=1,max=255"`
	Description string    `json:"description" binding:"max=4000"`
	GradeRatio  float64   `json:"grade_ratio" binding:"required,gt=0,lte=1"`
	DeadlineAt  time.Time `json:"deadline_at" binding:"required"`
}

// UpdateAssignmentRequest updates an assignment.
type UpdateAssignmentRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=255"`
	Description string    `json:"description" binding:"max=4000"`
	GradeRatio  float64   `json:"grade_ratio" binding:"required,gt=0,lte=1"`
	DeadlineAt  time.Time `json:"deadline_at" binding:"required"`
}
