package models

import "time"

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token being rotated.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest optionally carries a refresh token to revoke together with
// the access token from the Authorization header.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// UpdateProfileRequest is the payload of PUT /auth/me. Explicit null clears
// a name.
type UpdateProfileRequest struct {
	FirstName Optional[string] `json:"first_name"`
	LastName  Optional[string] `json:"last_name"`
}

// PasswordResetRequest starts the reset flow for an email.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm redeems a reset token.
type PasswordResetConfirm struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// CategoryCreateRequest is the payload of POST /categories.
type CategoryCreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// CategoryUpdateRequest is the payload of PUT /categories/{id}.
type CategoryUpdateRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description Optional[string] `json:"description"`
	Color       *string          `json:"color,omitempty"`
}

// TaskCreateRequest is the payload of POST /tasks. Status and priority are
// raw strings and are normalized during validation.
type TaskCreateRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CategoryID  *int64     `json:"category_id,omitempty"`
}

// TaskUpdateRequest is the payload of PUT /tasks/{id}. A null category_id
// moves the task to "Uncategorized"; a null due_date or description clears
// the field.
type TaskUpdateRequest struct {
	Title       *string             `json:"title,omitempty"`
	Description Optional[string]    `json:"description"`
	Status      *string             `json:"status,omitempty"`
	Priority    *string             `json:"priority,omitempty"`
	DueDate     Optional[time.Time] `json:"due_date"`
	CategoryID  Optional[int64]     `json:"category_id"`
}

// TaskListParams is the raw, unvalidated form of a task listing request as
// read from the query string.
type TaskListParams struct {
	Skip           string
	Limit          string
	Statuses       []string
	Priorities     []string
	CategoryID     string
	DueFrom        string
	DueTo          string
	Search         string
	Overdue        string
	IncludeDeleted string
	SortBy         string
	SortOrder      string
}

// TaskChanges is a validated set of task field changes.
type TaskChanges struct {
	Title       *string
	Description Optional[string]
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     Optional[time.Time]

	// CategoryID, when Set and not Valid, means "move to Uncategorized".
	CategoryID Optional[int64]
}

// CategoryChanges is a validated set of category field changes.
type CategoryChanges struct {
	Name        *string
	Description Optional[string]
	Color       *string
}
