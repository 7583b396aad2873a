package model

import "time"

// Teaches is the teaching-assignment relationship row between an instructor
// and a course. (instructor, course) is unique.
type Teaches struct {
	ID           int64     `json:"id"`
	InstructorID int64     `json:"instructor_id"`
	CourseID     int64     `json:"course_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateTeachesRequest assigns an instructor to a course.
type CreateTeachesRequest struct {
	InstructorID int64 `json:"instructor_id" binding:"required"`
	CourseID     int64 `json:"course_id" binding:"required"`
}

// UpdateTeachesRequest moves a teaching assignment.
type UpdateTeachesRequest struct {
	InstructorID int64 `json:"instructor_id" binding:"required"`
	CourseID     int64 `json:"course_id" binding:"required"`
}
