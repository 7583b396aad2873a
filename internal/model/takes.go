package model

import "time"

// Takes is the enrollment relationship row between a student and a course.
// (student, course) is unique. Grade is optional and ranges [0,100].
type Takes struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	CourseID  int64     `json:"course_id"`
	Grade     *int      `json:"grade,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateGrade checks the optional grade range, returning a field-keyed
// error map (empty on success).
func (t *Takes) ValidateGrade() map[string]string {
	if t.Grade != nil && (*t.Grade < 0 || *t.Grade > 100) {
		return map[string]string{"grade": "must be between 0 and 100"}
	}
	return map[string]string{}
}

// CreateTakesRequest enrolls a student in a course.
type CreateTakesRequest struct {
	StudentID int64 `json:"student_id" binding:"required"`
	CourseID  int64 `json:"course_id" binding:"required"`
	Grade     *int  `json:"grade" binding:"omitempty,min=0,max=100"`
}

// UpdateTakesRequest moves an enrollment or sets its grade.
type UpdateTakesRequest struct {
	StudentID int64 `json:"student_id" binding:"required"`
	CourseID  int64 `json:"course_id" binding:"required"`
	Grade     *int  `json:"grade" binding:"omitempty,min=0,max=100"`
}
