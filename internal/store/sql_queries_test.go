// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var queryNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func baseTaskQuery() models.TaskQuery {
	return models.TaskQuery{
		UserID: 42,
		Sort:   models.TaskSort{Field: models.SortByCreatedAt, Order: models.SortDesc},
		Page:   models.Page{Skip: 0, Limit: models.DefaultTaskLimit},
	}
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"report", "%report%"},
		{"50%", `%50\%%`},
		{"a_b", `%a\_b%`},
		{`back\slash`, `%back\\slash%`},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, containsPattern(tt.term))
		})
	}
}

func Test_buildListTasksQuery_Defaults(t *testing.T) {
	query, args, err := buildListTasksQuery(context.Background(), baseTaskQuery(), queryNow)
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "from tasks")
	assert.Contains(t, q, "user_id = $1")
	assert.Contains(t, q, "deleted_at is null")
	assert.Contains(t, q, "order by created_at desc, id desc")
	assert.Contains(t, q, "limit 20")
	assert.Contains(t, q, "offset 0")

	require.Len(t, args, 1)
	assert.Equal(t, int64(42), args[0])
}

func Test_buildListTasksQuery_AscendingTieBreak(t *testing.T) {
	tq := baseTaskQuery()
	tq.Sort = models.TaskSort{Field: models.SortByDueDate, Order: models.SortAsc}
	tq.Page = models.Page{Skip: 40, Limit: 10}

	query, _, err := buildListTasksQuery(context.Background(), tq, queryNow)
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "order by due_date asc, id asc")
	assert.Contains(t, q, "limit 10")
	assert.Contains(t, q, "offset 40")
}

func Test_buildListTasksQuery_RejectsUnknownSortField(t *testing.T) {
	tq := baseTaskQuery()
	tq.Sort.Field = "id; DROP TABLE tasks"

	_, _, err := buildListTasksQuery(context.Background(), tq, queryNow)
	assert.ErrorIs(t, err, ErrBuildingSQLQuery)
}

func Test_buildListTasksQuery_AllFilters(t *testing.T) {
	categoryID := int64(9)
	from := queryNow.Add(-24 * time.Hour)
	to := queryNow.Add(24 * time.Hour)

	tq := baseTaskQuery()
	tq.Filter = models.TaskFilter{
		Statuses:   []models.TaskStatus{models.StatusTodo, models.StatusInProgress},
		Priorities: []models.TaskPriority{models.PriorityHigh},
		CategoryID: &categoryID,
		DueFrom:    &from,
		DueTo:      &to,
		Search:     "report",
	}

	query, args, err := buildListTasksQuery(context.Background(), tq, queryNow)
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "status in (")
	assert.Contains(t, q, "priority in (")
	assert.Contains(t, q, "category_id = ")
	assert.Contains(t, q, "due_date >= ")
	assert.Contains(t, q, "due_date <= ")
	assert.Contains(t, q, "title ilike ")
	assert.Contains(t, q, "description ilike ")

	assert.Contains(t, args, "todo")
	assert.Contains(t, args, "in_progress")
	assert.Contains(t, args, "high")
	assert.Contains(t, args, categoryID)
	assert.Contains(t, args, from)
	assert.Contains(t, args, to)
	assert.Contains(t, args, "%report%")
}

func Test_buildListTasksQuery_IncludeDeleted(t *testing.T) {
	tq := baseTaskQuery()
	tq.Filter.IncludeDeleted = true

	query, _, err := buildListTasksQuery(context.Background(), tq, queryNow)
	require.NoError(t, err)

	assert.NotContains(t, strings.ToLower(query), "deleted_at is null")
}

func Test_taskFilterConditions_Overdue(t *testing.T) {
	t.Run("overdue only", func(t *testing.T) {
		overdue := true
		tq := baseTaskQuery()
		tq.Filter.Overdue = &overdue

		query, args, err := psql.Select("id").From("tasks").Where(taskFilterConditions(tq, queryNow)).ToSql()
		require.NoError(t, err)

		q := strings.ToLower(query)
		assert.Contains(t, q, "due_date is not null")
		assert.Contains(t, q, "due_date < ")
		assert.Contains(t, q, "status not in (")
		assert.Contains(t, args, queryNow)
		assert.Contains(t, args, "done")
		assert.Contains(t, args, "archived")
	})

	t.Run("not overdue", func(t *testing.T) {
		overdue := false
		tq := baseTaskQuery()
		tq.Filter.Overdue = &overdue

		query, args, err := psql.Select("id").From("tasks").Where(taskFilterConditions(tq, queryNow)).ToSql()
		require.NoError(t, err)

		q := strings.ToLower(query)
		assert.Contains(t, q, "due_date is null or due_date >= ")
		assert.NotContains(t, q, "status")
		assert.Contains(t, args, queryNow)
	})
}

func Test_buildCountTasksQuery_IgnoresPagination(t *testing.T) {
	tq := baseTaskQuery()
	tq.Page = models.Page{Skip: 100, Limit: 5}

	query, args, err := buildCountTasksQuery(context.Background(), tq, queryNow)
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "select count(*) from tasks")
	assert.NotContains(t, q, "limit")
	assert.NotContains(t, q, "offset")
	assert.NotContains(t, q, "order by")
	assert.Equal(t, []any{int64(42)}, args)
}

func Test_buildTaskStatsQuery(t *testing.T) {
	local := time.Date(2026, 3, 15, 23, 0, 0, 0, time.FixedZone("X", -5*3600))

	query, args, err := buildTaskStatsQuery(context.Background(), 7, local)
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "from tasks")
	assert.Contains(t, q, "deleted_at is null")
	assert.Equal(t, 1+len(models.TaskStatuses)+len(models.TaskPriorities)+2, strings.Count(q, "count(*)"))

	// the day window is computed in UTC
	dayStart := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	dayEnd := time.Date(2026, 3, 16, 23, 59, 59, 999999000, time.UTC)
	assert.Contains(t, args, dayStart)
	assert.Contains(t, args, dayEnd)
	assert.Equal(t, int64(7), args[len(args)-1])
}

func Test_buildListCategoriesQuery(t *testing.T) {
	query, args, err := buildListCategoriesQuery(context.Background(), 3, models.Page{Skip: 5, Limit: 50})
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "from categories c")
	assert.Contains(t, q, "as task_count")
	assert.Contains(t, q, "order by c.id asc")
	assert.Contains(t, q, "limit 50")
	assert.Contains(t, q, "offset 5")
	assert.Equal(t, []any{int64(3)}, args)
}
