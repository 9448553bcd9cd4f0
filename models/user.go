package models

import (
	"strings"
	"time"
)

// User represents an account entity used for authentication and ownership
// of categories and tasks.
type User struct {
	// ID is the internal unique identifier of the user.
	ID int64 `json:"id"`

	// Email is the unique login identifier. It is stored and compared as-is.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// It is never exposed via JSON.
	PasswordHash string `json:"-"`

	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`

	// IsActive gates login, refresh and current-user resolution.
	IsActive bool `json:"is_active"`

	// LastLogin is updated on every successful login.
	LastLogin *time.Time `json:"last_login"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// FullName returns "first last" when both names are set, the first name when
// only it is set, and the local part of the email otherwise.
func (u User) FullName() string {
	first := deref(u.FirstName)
	last := deref(u.LastName)

	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	}

	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
