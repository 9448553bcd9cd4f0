package models

import "time"

// ErrorDetail describes one violation inside an error response.
type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   bool          `json:"error"`
	Kind    string        `json:"kind"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// SuccessResponse is the body of operations without a resource to return.
type SuccessResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	FullName  string     `json:"full_name"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewUserResponse builds the public view of u.
func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// TaskResponse adds derived flags to a task.
type TaskResponse struct {
	Task
	IsOverdue bool `json:"is_overdue"`
	IsDeleted bool `json:"is_deleted"`
}

// NewTaskResponse builds the public view of t as of now.
func NewTaskResponse(t Task, now time.Time) TaskResponse {
	return TaskResponse{
		Task:      t,
		IsOverdue: t.IsOverdue(now),
		IsDeleted: t.IsDeleted(),
	}
}

// TaskListResponse is one page of tasks.
type TaskListResponse struct {
	Tasks   []TaskResponse `json:"tasks"`
	Total   int64          `json:"total"`
	Skip    int            `json:"skip"`
	Limit   int            `json:"limit"`
	HasMore bool           `json:"has_more"`
}

// NewTaskListResponse builds the public view of page as of now.
func NewTaskListResponse(page TaskPage, now time.Time) TaskListResponse {
	tasks := make([]TaskResponse, 0, len(page.Tasks))
	for _, t := range page.Tasks {
		tasks = append(tasks, NewTaskResponse(t, now))
	}
	return TaskListResponse{
		Tasks:   tasks,
		Total:   page.Total,
		Skip:    page.Skip,
		Limit:   page.Limit,
		HasMore: page.HasMore,
	}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	App     string `json:"app"`
}
