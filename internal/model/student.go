package model

import "time"

// Sex is an optional M/F attribute on a role profile.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Student is the student role profile. Belongs to exactly one class.
type Student struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	SID       string    `json:"s_id"`
	Name      string    `json:"name"`
	Sex       Sex       `json:"sex,omitempty"`
	ClassID   int64     `json:"class_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateStudentRequest is the payload for creating a new student account.
type CreateStudentRequest struct {
	SID      string `json:"s_id" binding:"required,numeric,min=1,max=32"`
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Sex      Sex    `json:"sex" binding:"omitempty,oneof=M F"`
	ClassID  int64  `json:"class_id" binding:"required"`
	Username string `json:"username" binding:"required,min=1,max=64"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// UpdateStudentRequest is the payload for updating an existing student.
type UpdateStudentRequest struct {
	SID     string `json:"s_id" binding:"required,numeric,min=1,max=32"`
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Sex     Sex    `json:"sex" binding:"omitempty,oneof=M F"`
	ClassID int64  `json:"class_id" binding:"required"`
}
