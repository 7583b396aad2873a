package model

import "time"

// Instructor is the instructor role profile.
type Instructor struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	InstID    string    `json:"inst_id"`
	Name      string    `json:"name"`
	Sex       Sex       `json:"sex,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInstructorRequest is the payload for creating a new instructor account.
type CreateInstructorRequest struct {
	InstID   string `json:"inst_id" binding:"required,numeric,min=1,max=32"`
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Sex      Sex    `json:"sex" binding:"omitempty,oneof=M F"`
	Username string `json:"username" binding:"required,min=1,max=64"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// UpdateInstructorRequest is the payload for updating an existing instructor.
type UpdateInstructorRequest struct {
	InstID string `json:"inst_id" binding:"required,numeric,min=1,max=32"`
	Name   string `json:"name" binding:"required,min=1,max=255"`
	Sex    Sex    `json:"sex" binding:"omitempty,oneof=M F"`
}
