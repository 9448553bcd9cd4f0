package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/mock"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const defaultCategoryID = int64(5)

func newTaskFixture(t *testing.T) (*taskService, *mock.MockTaskRepository, *mock.MockCategoryRepository) {
	ctrl := gomock.NewController(t)
	tasks := mock.NewMockTaskRepository(ctrl)
	categories := mock.NewMockCategoryRepository(ctrl)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = time.Now })

	return NewTaskService(tasks, categories, nopLogger()).(*taskService), tasks, categories
}

func int64Ptr(v int64) *int64 { return &v }

func echoTask(_ context.Context, task models.Task) (models.Task, error) {
	return task, nil
}

// ─────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────

func TestTaskService_Create_DefaultsToUncategorized(t *testing.T) {
	svc, tasks, categories := newTaskFixture(t)

	categories.EXPECT().DefaultCategory(gomock.Any(), int64(1)).
		Return(models.Category{ID: defaultCategoryID, Name: models.DefaultCategoryName}, nil)
	tasks.EXPECT().CreateTask(gomock.Any(), gomock.Any()).DoAndReturn(echoTask)

	task, err := svc.Create(testContext(), 1, models.TaskCreateRequest{Title: "Write report"})

	require.NoError(t, err)
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, int64(1), task.UserID)
	require.NotNil(t, task.CategoryID)
	assert.Equal(t, defaultCategoryID, *task.CategoryID)
}

func TestTaskService_Create_OwnedCategory(t *testing.T) {
	svc, tasks, categories := newTaskFixture(t)

	categories.EXPECT().GetCategory(gomock.Any(), int64(1), int64(10)).Return(models.Category{ID: 10}, nil)
	tasks.EXPECT().CreateTask(gomock.Any(), gomock.Any()).DoAndReturn(echoTask)

	task, err := svc.Create(testContext(), 1, models.TaskCreateRequest{
		Title: "Write report", CategoryID: int64Ptr(10), Status: strPtr("In Progress"),
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, task.Status)
	assert.Equal(t, int64(10), *task.CategoryID)
}

func TestTaskService_Create_ForeignCategory(t *testing.T) {
	svc, _, categories := newTaskFixture(t)

	categories.EXPECT().GetCategory(gomock.Any(), int64(1), int64(10)).Return(models.Category{}, store.ErrCategoryNotFound)

	_, err := svc.Create(testContext(), 1, models.TaskCreateRequest{Title: "x", CategoryID: int64Ptr(10)})

	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.ErrorIs(t, err, app.ErrNotFound)
}

func TestTaskService_Create_ArchivedStatusLocked(t *testing.T) {
	svc, _, _ := newTaskFixture(t)

	_, err := svc.Create(testContext(), 1, models.TaskCreateRequest{Title: "x", Status: strPtr("archived")})

	assert.ErrorIs(t, err, ErrArchivedStatusLocked)
	assert.ErrorIs(t, err, app.ErrConflict)
}

func TestTaskService_Create_Invalid(t *testing.T) {
	svc, _, _ := newTaskFixture(t)

	_, err := svc.Create(testContext(), 1, models.TaskCreateRequest{Title: "  ", Priority: strPtr("critical")})

	assert.ErrorIs(t, err, app.ErrValidation)
}

// ─────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────

func TestTaskService_Update_Partial(t *testing.T) {
	svc, tasks, categories := newTaskFixture(t)
	due := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	existing := models.Task{
		ID: 3, Title: "Old", Description: strPtr("desc"), Status: models.StatusTodo,
		Priority: models.PriorityLow, DueDate: &due, UserID: 1, CategoryID: int64Ptr(10),
	}

	tasks.EXPECT().GetTask(gomock.Any(), int64(1), int64(3), false).Return(existing, nil)
	categories.EXPECT().DefaultCategory(gomock.Any(), int64(1)).Return(models.Category{ID: defaultCategoryID}, nil)
	tasks.EXPECT().UpdateTask(gomock.Any(), gomock.Any()).DoAndReturn(echoTask)

	updated, err := svc.Update(testContext(), 1, 3, models.TaskUpdateRequest{
		Status:     strPtr("done"),
		DueDate:    models.Null[time.Time](),
		CategoryID: models.Null[int64](),
	})

	require.NoError(t, err)
	assert.Equal(t, "Old", updated.Title)
	assert.Equal(t, "desc", *updated.Description)
	assert.Equal(t, models.StatusDone, updated.Status)
	assert.Equal(t, models.PriorityLow, updated.Priority)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, defaultCategoryID, *updated.CategoryID)
}

func TestTaskService_Update_ArchivedStatusLocked(t *testing.T) {
	svc, _, _ := newTaskFixture(t)

	_, err := svc.Update(testContext(), 1, 3, models.TaskUpdateRequest{Status: strPtr("archived")})

	assert.ErrorIs(t, err, ErrArchivedStatusLocked)
}

func TestTaskService_Update_DeletedTaskNotFound(t *testing.T) {
	svc, tasks, _ := newTaskFixture(t)

	tasks.EXPECT().GetTask(gomock.Any(), int64(1), int64(3), false).Return(models.Task{}, store.ErrTaskNotFound)

	_, err := svc.Update(testContext(), 1, 3, models.TaskUpdateRequest{Title: strPtr("new")})

	assert.ErrorIs(t, err, ErrTaskNotFound)
}

// ─────────────────────────────────────────────
// Delete / Restore / Archive
// ─────────────────────────────────────────────

func TestTaskService_Delete(t *testing.T) {
	svc, tasks, _ := newTaskFixture(t)

	tasks.EXPECT().SoftDeleteTask(gomock.Any(), int64(1), int64(3)).Return(nil)
	require.NoError(t, svc.Delete(testContext(), 1, 3))

	tasks.EXPECT().SoftDeleteTask(gomock.Any(), int64(1), int64(3)).Return(store.ErrTaskNotFound)
	assert.ErrorIs(t, svc.Delete(testContext(), 1, 3), ErrTaskNotFound)
}

func TestTaskService_Restore(t *testing.T) {
	svc, tasks, categories := newTaskFixture(t)
	deletedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tasks.EXPECT().GetTask(gomock.Any(), int64(1), int64(3), true).Return(models.Task{ID: 3, DeletedAt: &deletedAt}, nil)
	categories.EXPECT().DefaultCategory(gomock.Any(), int64(1)).Return(models.Category{ID: defaultCategoryID}, nil)
	tasks.EXPECT().RestoreTask(gomock.Any(), int64(1), int64(3), defaultCategoryID).
		Return(models.Task{ID: 3, CategoryID: int64Ptr(defaultCategoryID)}, nil)

	restored, err := svc.Restore(testContext(), 1, 3)

	require.NoError(t, err)
	assert.False(t, restored.IsDeleted())
	assert.Equal(t, defaultCategoryID, *restored.CategoryID)
}

func TestTaskService_Restore_NotDeleted(t *testing.T) {
	svc, tasks, _ := newTaskFixture(t)

	tasks.EXPECT().GetTask(gomock.Any(), int64(1), int64(3), true).Return(models.Task{ID: 3}, nil)

	_, err := svc.Restore(testContext(), 1, 3)

	assert.ErrorIs(t, err, ErrTaskNotDeleted)
	assert.ErrorIs(t, err, app.ErrConflict)
}

func TestTaskService_Restore_Race(t *testing.T) {
	svc, tasks, categories := newTaskFixture(t)
	deletedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tasks.EXPECT().GetTask(gomock.Any(), int64(1), int64(3), true).Return(models.Task{ID: 3, DeletedAt: &deletedAt}, nil)
	categories.EXPECT().DefaultCategory(gomock.Any(), int64(1)).Return(models.Category{ID: defaultCategoryID}, nil)
	tasks.EXPECT().RestoreTask(gomock.Any(), int64(1), int64(3), defaultCategoryID).Return(models.Task{}, store.ErrTaskStateChanged)

	_, err := svc.Restore(testContext(), 1, 3)

	assert.ErrorIs(t, err, ErrTaskNotDeleted)
}

func TestTaskService_Restore_Missing(t *testing.T) {
	svc, tasks, _ := newTaskFixture(t)

	tasks.EXPECT().GetTask(gomock.Any(), int64(1), int64(3), true).Return(models.Task{}, store.ErrTaskNotFound)

	_, err := svc.Restore(testContext(), 1, 3)

	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_Archive_RequiresDone(t *testing.T) {
	for _, status := range []models.TaskStatus{models.StatusTodo, models.StatusInProgress, models.StatusArchived} {
		t.Run(string(status), func(t *testing.T) {
			svc, tasks, _ := newTaskFixture(t)

			tasks.EXPECT().GetTask(gomock.Any(), int64(1), int64(3), false).Return(models.Task{ID: 3, Status: status}, nil)

			_, err := svc.Archive(testContext(), 1, 3)

			assert.ErrorIs(t, err, ErrTaskNotDone)
			assert.ErrorIs(t, err, app.ErrConflict)
		})
	}
}

func TestTaskService_Archive(t *testing.T) {
	svc, tasks, _ := newTaskFixture(t)

	tasks.EXPECT().GetTask(gomock.Any(), int64(1), int64(3), false).Return(models.Task{ID: 3, Status: models.StatusDone}, nil)
	tasks.EXPECT().ArchiveTask(gomock.Any(), int64(1), int64(3)).Return(models.Task{ID: 3, Status: models.StatusArchived}, nil)

	archived, err := svc.Archive(testContext(), 1, 3)

	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, archived.Status)
}

func TestTaskService_Archive_Race(t *testing.T) {
	svc, tasks, _ := newTaskFixture(t)

	tasks.EXPECT().GetTask(gomock.Any(), int64(1), int64(3), false).Return(models.Task{ID: 3, Status: models.StatusDone}, nil)
	tasks.EXPECT().ArchiveTask(gomock.Any(), int64(1), int64(3)).Return(models.Task{}, store.ErrTaskStateChanged)

	_, err := svc.Archive(testContext(), 1, 3)

	assert.ErrorIs(t, err, ErrTaskNotDone)
}

// ─────────────────────────────────────────────
// List / Get / Stats
// ─────────────────────────────────────────────

func TestTaskService_List(t *testing.T) {
	svc, tasks, _ := newTaskFixture(t)

	tasks.EXPECT().ListTasks(gomock.Any(), gomock.Any(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)).
		DoAndReturn(func(_ context.Context, q models.TaskQuery, _ time.Time) (models.TaskPage, error) {
			assert.Equal(t, int64(1), q.UserID)
			assert.Equal(t, []models.TaskStatus{models.StatusTodo, models.StatusDone}, q.Filter.Statuses)
			assert.Equal(t, models.SortByTitle, q.Sort.Field)
			assert.Equal(t, models.SortAsc, q.Sort.Order)
			return models.TaskPage{Total: 0, Limit: q.Page.Limit}, nil
		})

	_, err := svc.List(testContext(), 1, models.TaskListParams{
		Statuses: []string{"todo,done"}, SortBy: "title", SortOrder: "ASC",
	})

	require.NoError(t, err)
}

func TestTaskService_List_InvalidSort(t *testing.T) {
	svc, _, _ := newTaskFixture(t)

	_, err := svc.List(testContext(), 1, models.TaskListParams{SortBy: "password"})

	assert.ErrorIs(t, err, app.ErrValidation)
}

func TestTaskService_Get(t *testing.T) {
	svc, tasks, _ := newTaskFixture(t)

	tasks.EXPECT().GetTask(gomock.Any(), int64(1), int64(3), true).Return(models.Task{ID: 3}, nil)
	task, err := svc.Get(testContext(), 1, 3, true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), task.ID)

	tasks.EXPECT().GetTask(gomock.Any(), int64(1), int64(3), false).Return(models.Task{}, errStorage)
	_, err = svc.Get(testContext(), 1, 3, false)
	assert.ErrorIs(t, err, errStorage)
	assert.Nil(t, app.KindOf(err))
}

func TestTaskService_Stats(t *testing.T) {
	svc, tasks, _ := newTaskFixture(t)
	stats := models.NewTaskStats()
	stats.TotalTasks = 2
	stats.StatusCounts[models.StatusTodo] = 2

	tasks.EXPECT().TaskStats(gomock.Any(), int64(1), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)).Return(stats, nil)

	got, err := svc.Stats(testContext(), 1)

	require.NoError(t, err)
	assert.Equal(t, stats, got)
}
