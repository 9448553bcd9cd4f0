package models

import "time"

// DefaultCategoryName is the protected per-user category that receives tasks
// without an explicit category.
const DefaultCategoryName = "Uncategorized"

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#6B7280"

// Category groups the tasks of one user.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       string    `json:"color"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// TaskCount is the number of non-deleted tasks in the category.
	// It is computed by list and get queries and is not a stored column.
	TaskCount int64 `json:"task_count"`
}

// TableName returns the name of the database table
// associated with the Category model.
func (c Category) TableName() string {
	return "categories"
}

// IsDefault reports whether c is the protected "Uncategorized" category.
func (c Category) IsDefault() bool {
	return c.Name == DefaultCategoryName
}
