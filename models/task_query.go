package models

import "time"

// SortField is a column tasks may be ordered by.
type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
	SortByDueDate   SortField = "due_date"
	SortByPriority  SortField = "priority"
	SortByStatus    SortField = "status"
	SortByTitle     SortField = "title"
)

// SortFields is the allow-list of sortable columns.
var SortFields = map[SortField]struct{}{
	SortByCreatedAt: {},
	SortByUpdatedAt: {},
	SortByDueDate:   {},
	SortByPriority:  {},
	SortByStatus:    {},
	SortByTitle:     {},
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultTaskLimit     = 20
	DefaultCategoryLimit = 100
	MaxPageLimit         = 100
)

// TaskFilter holds the conjunctive predicates of a task listing. Zero values
// mean "no constraint".
type TaskFilter struct {
	Statuses   []TaskStatus
	Priorities []TaskPriority
	CategoryID *int64
	DueFrom    *time.Time
	DueTo      *time.Time

	// Search is matched case-insensitively as a substring of title or
	// description.
	Search string

	// Overdue: true selects open tasks past their due date; false selects
	// tasks without a due date or with a due date not yet passed, regardless
	// of status.
	Overdue *bool

	IncludeDeleted bool
}

// TaskSort orders a task listing. Ties are always broken by id.
type TaskSort struct {
	Field SortField
	Order SortOrder
}

// Page is an offset window over a result set.
type Page struct {
	Skip  int
	Limit int
}

// TaskQuery is a fully validated task listing request.
type TaskQuery struct {
	UserID int64
	Filter TaskFilter
	Sort   TaskSort
	Page   Page
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Tasks   []Task
	Total   int64
	Skip    int
	Limit   int
	HasMore bool
}

// TaskStats aggregates the non-deleted tasks of one user.
type TaskStats struct {
	TotalTasks     int64                  `json:"total_tasks"`
	StatusCounts   map[TaskStatus]int64   `json:"status_counts"`
	PriorityCounts map[TaskPriority]int64 `json:"priority_counts"`
	OverdueCount   int64                  `json:"overdue_count"`
	DueTodayCount  int64                  `json:"due_today_count"`
}

// NewTaskStats returns stats with every status and priority key present.
func NewTaskStats() TaskStats {
	stats := TaskStats{
		StatusCounts:   make(map[TaskStatus]int64, len(TaskStatuses)),
		PriorityCounts: make(map[TaskPriority]int64, len(TaskPriorities)),
	}
	for _, s := range TaskStatuses {
		stats.StatusCounts[s] = 0
	}
	for _, p := range TaskPriorities {
		stats.PriorityCounts[p] = 0
	}
	return stats
}
