package model

import "time"

// Class is a cohort of students.
type Class struct {
	ID        int64     `json:"id"`
	ClassID   string    `json:"class_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateClassRequest is the payload for creating or updating a class.
type CreateClassRequest struct {
	ClassID string `json:"class_id" binding:"required,numeric,min=1,max=32"`
}
