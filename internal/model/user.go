package model

import "time"

// User is a login identity. At most one role row (student or instructor)
// may be bound to a user at a time.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=64"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	Token string `json:"token"`
	Role  *Role  `json:"role"`
}
