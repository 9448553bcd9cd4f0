package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-task-keeper/models"
)

const (
	userColumns = `id, email, hashed_password, first_name, last_name, is_active, last_login, created_at, updated_at`

	createUser = `INSERT INTO users (email, hashed_password, first_name, last_name, is_active)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING ` + userColumns + `;`

	findUserByEmail = `SELECT ` + userColumns + `
    FROM users
    WHERE email = $1;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE id = $1;`

	updateLastLogin = `UPDATE users SET last_login = $2, updated_at = NOW() WHERE id = $1;`

	updateProfile = `UPDATE users
    SET first_name = $2, last_name = $3, updated_at = NOW()
    WHERE id = $1
    RETURNING ` + userColumns + `;`

	updatePassword = `UPDATE users SET hashed_password = $2, updated_at = NOW() WHERE id = $1;`
)

const (
	categoryColumns = `id, name, description, color, user_id, created_at, updated_at`

	createCategory = `INSERT INTO categories (name, description, color, user_id)
    VALUES ($1, $2, $3, $4)
    RETURNING ` + categoryColumns + `;`

	// ensureDefaultCategory relies on the (user_id, LOWER(name)) unique index.
	ensureDefaultCategory = `INSERT INTO categories (name, color, user_id)
    VALUES ($1, $2, $3)
    ON CONFLICT (user_id, LOWER(name)) DO NOTHING;`

	findCategoryByName = `SELECT ` + categoryColumns + `
    FROM categories
    WHERE user_id = $1 AND LOWER(name) = LOWER($2);`

	getCategory = `SELECT c.id, c.name, c.description, c.color, c.user_id, c.created_at, c.updated_at,
        (SELECT COUNT(*) FROM tasks t WHERE t.category_id = c.id AND t.deleted_at IS NULL) AS task_count
    FROM categories c
    WHERE c.id = $1 AND c.user_id = $2;`

	categoryNameExists = `SELECT EXISTS (
        SELECT 1 FROM categories
        WHERE user_id = $1 AND LOWER(name) = LOWER($2) AND id <> $3
    );`

	updateCategory = `UPDATE categories
    SET name = $3, description = $4, color = $5, updated_at = NOW()
    WHERE id = $1 AND user_id = $2
    RETURNING ` + categoryColumns + `;`

	reassignCategoryTasks = `UPDATE tasks
    SET category_id = $3, updated_at = NOW()
    WHERE category_id = $1 AND user_id = $2 AND deleted_at IS NULL;`

	deleteCategory = `DELETE FROM categories
    WHERE id = $1 AND user_id = $2 AND name <> $3;`
)

const (
	taskColumns = `id, title, description, status, priority, due_date, deleted_at, user_id, category_id, created_at, updated_at`

	createTask = `INSERT INTO tasks (title, description, status, priority, due_date, user_id, category_id)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING ` + taskColumns + `;`

	getTask = `SELECT ` + taskColumns + `
    FROM tasks
    WHERE id = $1 AND user_id = $2;`

	getActiveTask = `SELECT ` + taskColumns + `
    FROM tasks
    WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL;`

	updateTask = `UPDATE tasks
    SET title = $3, description = $4, status = $5, priority = $6, due_date = $7, category_id = $8, updated_at = NOW()
    WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
    RETURNING ` + taskColumns + `;`

	softDeleteTask = `UPDATE tasks
    SET deleted_at = NOW(), updated_at = NOW()
    WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL;`

	restoreTask = `UPDATE tasks
    SET deleted_at = NULL, category_id = COALESCE(category_id, $3), updated_at = NOW()
    WHERE id = $1 AND user_id = $2 AND deleted_at IS NOT NULL
    RETURNING ` + taskColumns + `;`

	archiveTask = `UPDATE tasks
    SET status = 'archived', updated_at = NOW()
    WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL AND status = 'done'
    RETURNING ` + taskColumns + `;`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern escapes LIKE wildcards in term and wraps it for a substring
// match.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// taskFilterConditions translates a task filter into the WHERE predicates
// shared by the page and count queries.
func taskFilterConditions(query models.TaskQuery, now time.Time) sq.And {
	filter := query.Filter
	conds := sq.And{sq.Eq{"user_id": query.UserID}}

	if !filter.IncludeDeleted {
		conds = append(conds, sq.Eq{"deleted_at": nil})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		conds = append(conds, sq.Eq{"status": statuses})
	}

	if len(filter.Priorities) > 0 {
		priorities := make([]string, 0, len(filter.Priorities))
		for _, p := range filter.Priorities {
			priorities = append(priorities, string(p))
		}
		conds = append(conds, sq.Eq{"priority": priorities})
	}

	if filter.CategoryID != nil {
		conds = append(conds, sq.Eq{"category_id": *filter.CategoryID})
	}

	if filter.DueFrom != nil {
		conds = append(conds, sq.GtOrEq{"due_date": *filter.DueFrom})
	}

	if filter.DueTo != nil {
		conds = append(conds, sq.LtOrEq{"due_date": *filter.DueTo})
	}

	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		conds = append(conds, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"description": pattern},
		})
	}

	if filter.Overdue != nil {
		if *filter.Overdue {
			conds = append(conds,
				sq.NotEq{"due_date": nil},
				sq.Lt{"due_date": now},
				sq.NotEq{"status": closedStatuses()},
			)
		} else {
			// matches on due date only, regardless of status
			conds = append(conds, sq.Or{
				sq.Eq{"due_date": nil},
				sq.GtOrEq{"due_date": now},
			})
		}
	}

	return conds
}

func closedStatuses() []string {
	return []string{string(models.StatusDone), string(models.StatusArchived)}
}

// buildListTasksQuery builds the page query of a task listing. The sort field
// must already be validated against [models.SortFields].
func buildListTasksQuery(ctx context.Context, query models.TaskQuery, now time.Time) (string, []any, error) {
	if _, ok := models.SortFields[query.Sort.Field]; !ok {
		return "", nil, fmt.Errorf("%w: unsupported sort field %q", ErrBuildingSQLQuery, query.Sort.Field)
	}

	order := "DESC"
	if query.Sort.Order == models.SortAsc {
		order = "ASC"
	}

	return psql.
		Select(taskColumns).
		From("tasks").
		Where(taskFilterConditions(query, now)).
		OrderBy(
			fmt.Sprintf("%s %s", query.Sort.Field, order),
			fmt.Sprintf("id %s", order),
		).
		Offset(uint64(query.Page.Skip)).
		Limit(uint64(query.Page.Limit)).
		ToSql()
}

// buildCountTasksQuery counts every row matching the filter, ignoring
// pagination.
func buildCountTasksQuery(ctx context.Context, query models.TaskQuery, now time.Time) (string, []any, error) {
	return psql.
		Select("COUNT(*)").
		From("tasks").
		Where(taskFilterConditions(query, now)).
		ToSql()
}

// buildTaskStatsQuery aggregates the non-deleted tasks of a user in a single
// pass. Column order: total, one count per status, one count per priority,
// overdue, due today.
func buildTaskStatsQuery(ctx context.Context, userID int64, now time.Time) (string, []any, error) {
	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Microsecond)

	builder := psql.Select("COUNT(*)")
	for _, s := range models.TaskStatuses {
		builder = builder.Column("COUNT(*) FILTER (WHERE status = ?)", string(s))
	}
	for _, p := range models.TaskPriorities {
		builder = builder.Column("COUNT(*) FILTER (WHERE priority = ?)", string(p))
	}

	closed := closedStatuses()
	return builder.
		Column("COUNT(*) FILTER (WHERE due_date IS NOT NULL AND due_date < ? AND status NOT IN (?, ?))", now, closed[0], closed[1]).
		Column("COUNT(*) FILTER (WHERE due_date BETWEEN ? AND ? AND status NOT IN (?, ?))", dayStart, dayEnd, closed[0], closed[1]).
		From("tasks").
		Where(sq.Eq{"user_id": userID, "deleted_at": nil}).
		ToSql()
}

// buildListCategoriesQuery lists the categories of a user with the number of
// non-deleted tasks in each.
func buildListCategoriesQuery(ctx context.Context, userID int64, page models.Page) (string, []any, error) {
	return psql.
		Select(
			"c.id", "c.name", "c.description", "c.color", "c.user_id", "c.created_at", "c.updated_at",
			"(SELECT COUNT(*) FROM tasks t WHERE t.category_id = c.id AND t.deleted_at IS NULL) AS task_count",
		).
		From("categories c").
		Where(sq.Eq{"c.user_id": userID}).
		OrderBy("c.id ASC").
		Offset(uint64(page.Skip)).
		Limit(uint64(page.Limit)).
		ToSql()
}
