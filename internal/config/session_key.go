package config

import (
	"fmt"
)

type SessionKeyStruct struct{}

func NewSessionKeyStruct() *SessionKeyStruct {
	return &SessionKeyStruct{}
}

// UserSessionKey returns the cache key holding a user's active session JTI.
func (r *SessionKeyStruct) UserSessionKey(userID int64) string {
	return fmt.Sprintf("login:%d", userID)
}

// ImportLockKey returns the cache key guarding a concurrent bulk import
// for a course (zero courseID means the account-level student import).
func (r *SessionKeyStruct) ImportLockKey(courseID int64) string {
	return fmt.Sprintf("import:%d:lock", courseID)
}

var SessionKey = NewSessionKeyStruct()
