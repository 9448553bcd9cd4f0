package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

// taskRepository is the PostgreSQL-backed implementation of [TaskRepository].
// Every statement is scoped by user_id so that tasks of other users are
// indistinguishable from missing ones.
type taskRepository struct {
	*DB
	logger *logger.Logger
}

func NewTaskRepository(db *DB, logger *logger.Logger) TaskRepository {
	logger.Debug().Msg("creating task repository")
	return &taskRepository{
		DB:     db,
		logger: logger,
	}
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.DeletedAt,
		&t.UserID,
		&t.CategoryID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (r *taskRepository) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	log := logger.FromContext(ctx)

	created, err := scanTask(r.DB.QueryRowContext(ctx, createTask,
		task.Title, task.Description, string(task.Status), string(task.Priority),
		task.DueDate, task.UserID, task.CategoryID))
	if err != nil {
		log.Err(err).
			Str("func", "*taskRepository.CreateTask").
			Int64("user_id", task.UserID).
			Msg("failed to insert task")
		return models.Task{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return created, nil
}

func (r *taskRepository) GetTask(ctx context.Context, userID, taskID int64, includeDeleted bool) (models.Task, error) {
	log := logger.FromContext(ctx)

	query := getActiveTask
	if includeDeleted {
		query = getTask
	}

	task, err := scanTask(r.DB.QueryRowContext(ctx, query, taskID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrTaskNotFound
		}
		log.Err(err).
			Str("func", "*taskRepository.GetTask").
			Int64("user_id", userID).
			Int64("task_id", taskID).
			Msg("failed to get task")
		return models.Task{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return task, nil
}

// ListTasks returns one page of tasks matching query and the total number
// of matches regardless of pagination.
func (r *taskRepository) ListTasks(ctx context.Context, query models.TaskQuery, now time.Time) (models.TaskPage, error) {
	log := logger.FromContext(ctx)

	countQuery, countArgs, err := buildCountTasksQuery(ctx, query, now)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.ListTasks").Msg("failed to create count query")
		return models.TaskPage{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	pageQuery, pageArgs, err := buildListTasksQuery(ctx, query, now)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.ListTasks").Msg("failed to create page query")
		return models.TaskPage{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int64
	if err = r.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Err(err).
			Str("func", "*taskRepository.ListTasks").
			Int64("user_id", query.UserID).
			Msg("failed to count tasks")
		return models.TaskPage{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		log.Err(err).
			Str("func", "*taskRepository.ListTasks").
			Int64("user_id", query.UserID).
			Msg("failed to execute query for listing tasks")
		return models.TaskPage{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0, query.Page.Limit)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*taskRepository.ListTasks").Msg("failed to scan task row")
			return models.TaskPage{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*taskRepository.ListTasks").Msg("error occurred during rows iteration")
		return models.TaskPage{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return models.TaskPage{
		Tasks:   tasks,
		Total:   total,
		Skip:    query.Page.Skip,
		Limit:   query.Page.Limit,
		HasMore: int64(query.Page.Skip+len(tasks)) < total,
	}, nil
}

func (r *taskRepository) UpdateTask(ctx context.Context, task models.Task) (models.Task, error) {
	log := logger.FromContext(ctx)

	updated, err := scanTask(r.DB.QueryRowContext(ctx, updateTask,
		task.ID, task.UserID, task.Title, task.Description, string(task.Status), string(task.Priority),
		task.DueDate, task.CategoryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrTaskNotFound
		}
		log.Err(err).
			Str("func", "*taskRepository.UpdateTask").
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return models.Task{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return updated, nil
}

func (r *taskRepository) SoftDeleteTask(ctx context.Context, userID, taskID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, softDeleteTask, taskID, userID)
	if err != nil {
		log.Err(err).
			Str("func", "*taskRepository.SoftDeleteTask").
			Int64("task_id", taskID).
			Msg("failed to soft-delete task")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (r *taskRepository) RestoreTask(ctx context.Context, userID, taskID, defaultCategoryID int64) (models.Task, error) {
	return r.conditionalUpdate(ctx, "*taskRepository.RestoreTask", restoreTask, taskID, userID, defaultCategoryID)
}

func (r *taskRepository) ArchiveTask(ctx context.Context, userID, taskID int64) (models.Task, error) {
	return r.conditionalUpdate(ctx, "*taskRepository.ArchiveTask", archiveTask, taskID, userID)
}

// conditionalUpdate runs an UPDATE ... RETURNING whose WHERE clause encodes a
// precondition. No returned row means the precondition no longer holds.
func (r *taskRepository) conditionalUpdate(ctx context.Context, funcName, query string, args ...any) (models.Task, error) {
	log := logger.FromContext(ctx)

	task, err := scanTask(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrTaskStateChanged
		}
		log.Err(err).Str("func", funcName).Msg("failed to update task")
		return models.Task{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return task, nil
}

func (r *taskRepository) TaskStats(ctx context.Context, userID int64, now time.Time) (models.TaskStats, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildTaskStatsQuery(ctx, userID, now)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.TaskStats").Msg("failed to create query")
		return models.TaskStats{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	stats := models.NewTaskStats()
	statusCounts := make([]int64, len(models.TaskStatuses))
	priorityCounts := make([]int64, len(models.TaskPriorities))

	dest := []any{&stats.TotalTasks}
	for i := range statusCounts {
		dest = append(dest, &statusCounts[i])
	}
	for i := range priorityCounts {
		dest = append(dest, &priorityCounts[i])
	}
	dest = append(dest, &stats.OverdueCount, &stats.DueTodayCount)

	if err = r.DB.QueryRowContext(ctx, query, args...).Scan(dest...); err != nil {
		log.Err(err).
			Str("func", "*taskRepository.TaskStats").
			Int64("user_id", userID).
			Msg("failed to compute task stats")
		return models.TaskStats{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	for i, s := range models.TaskStatuses {
		stats.StatusCounts[s] = statusCounts[i]
	}
	for i, p := range models.TaskPriorities {
		stats.PriorityCounts[p] = priorityCounts[i]
	}

	return stats, nil
}
