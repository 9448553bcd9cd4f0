package models

import (
	"errors"
	"strings"
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
	StatusArchived   TaskStatus = "archived"
)

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone, StatusArchived}

// TaskPriority is the urgency of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// TaskPriorities lists every priority in ascending order.
var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

var (
	ErrUnknownStatus   = errors.New("unknown task status")
	ErrUnknownPriority = errors.New("unknown task priority")
)

var statusAliases = map[string]TaskStatus{
	"todo":        StatusTodo,
	"in_progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"done":        StatusDone,
	"archived":    StatusArchived,
}

var priorityAliases = map[string]TaskPriority{
	"low":    PriorityLow,
	"medium": PriorityMedium,
	"high":   PriorityHigh,
	"urgent": PriorityUrgent,
}

// normalizeEnum lowercases s, trims it and maps hyphens and spaces to
// underscores.
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// ParseTaskStatus accepts "In Progress", "in-progress", "INPROGRESS" and the
// like. Anything outside the alias table is ErrUnknownStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status, ok := statusAliases[normalizeEnum(s)]
	if !ok {
		return "", ErrUnknownStatus
	}
	return status, nil
}

// ParseTaskPriority normalizes s the same way as ParseTaskStatus.
func ParseTaskPriority(s string) (TaskPriority, error) {
	priority, ok := priorityAliases[normalizeEnum(s)]
	if !ok {
		return "", ErrUnknownPriority
	}
	return priority, nil
}

// IsClosed reports whether the status no longer counts towards overdue work.
func (s TaskStatus) IsClosed() bool {
	return s == StatusDone || s == StatusArchived
}

// Task is a unit of work owned by a user.
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date"`

	// DeletedAt is set by soft delete and cleared by restore.
	DeletedAt *time.Time `json:"deleted_at"`

	UserID     int64     `json:"user_id"`
	CategoryID *int64    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Task model.
func (t Task) TableName() string {
	return "tasks"
}

// IsDeleted reports whether the task is soft-deleted.
func (t Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

// IsOverdue reports whether the task has a due date before now and is still
// open.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Status.IsClosed()
}
