package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// CreateUser inserts the user and its "Uncategorized" category in one
	// transaction.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
	UpdateProfile(ctx context.Context, user models.User) (models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// CategoryRepository persists categories. Every method is scoped to the
// owning user.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category models.Category) (models.Category, error)
	GetCategory(ctx context.Context, userID, categoryID int64) (models.Category, error)
	ListCategories(ctx context.Context, userID int64, page models.Page) ([]models.Category, error)
	// CategoryNameExists compares names case-insensitively, ignoring the
	// category with id excludeID.
	CategoryNameExists(ctx context.Context, userID int64, name string, excludeID int64) (bool, error)
	UpdateCategory(ctx context.Context, category models.Category) (models.Category, error)
	// DefaultCategory returns the user's "Uncategorized" category, creating
	// it when missing.
	DefaultCategory(ctx context.Context, userID int64) (models.Category, error)
	// DeleteCategory moves the non-deleted tasks of the category into
	// "Uncategorized" and deletes it, in one transaction. It returns the
	// number of reassigned tasks.
	DeleteCategory(ctx context.Context, userID, categoryID int64) (int64, error)
}

// TaskRepository persists tasks and answers task queries.
type TaskRepository interface {
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	GetTask(ctx context.Context, userID, taskID int64, includeDeleted bool) (models.Task, error)
	ListTasks(ctx context.Context, query models.TaskQuery, now time.Time) (models.TaskPage, error)
	// UpdateTask writes every mutable column of a non-deleted task.
	UpdateTask(ctx context.Context, task models.Task) (models.Task, error)
	SoftDeleteTask(ctx context.Context, userID, taskID int64) error
	// RestoreTask clears deleted_at and puts tasks that lost their category
	// into defaultCategoryID.
	RestoreTask(ctx context.Context, userID, taskID, defaultCategoryID int64) (models.Task, error)
	// ArchiveTask moves a non-deleted task from done to archived.
	ArchiveTask(ctx context.Context, userID, taskID int64) (models.Task, error)
	TaskStats(ctx context.Context, userID int64, now time.Time) (models.TaskStats, error)
}

// RevocationStore is a key-value store with per-key expiry. Backend failures
// are logged and reported as absent keys or failed writes, never as errors.
type RevocationStore interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) bool
	Get(ctx context.Context, key string) (string, bool)
	Delete(ctx context.Context, key string) bool
	Exists(ctx context.Context, key string) bool
	// Increment atomically increments the counter at key; ttl is applied
	// when the counter is created.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, bool)
	// GetAndDelete atomically reads and removes key. At most one of any
	// number of concurrent callers observes the value.
	GetAndDelete(ctx context.Context, key string) (string, bool)
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
