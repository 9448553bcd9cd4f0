// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
)

// timeNow is the clock of the task and category services.
var timeNow = time.Now

// taskService owns the task lifecycle:
//
//	todo/in_progress/done --Archive (from done only)--> archived
//	any --Delete--> deleted --Restore--> previous status
//
// archived is never reachable through Create or Update.
type taskService struct {
	taskRepository     store.TaskRepository
	categoryRepository store.CategoryRepository

	logger *logger.Logger
}

func NewTaskService(taskRepository store.TaskRepository, categoryRepository store.CategoryRepository, logger *logger.Logger) TaskService {
	return &taskService{
		taskRepository:     taskRepository,
		categoryRepository: categoryRepository,
		logger:             logger,
	}
}

func (s *taskService) List(ctx context.Context, userID int64, params models.TaskListParams) (models.TaskPage, error) {
	query, err := validators.ParseTaskQuery(userID, params)
	if err != nil {
		return models.TaskPage{}, err
	}

	page, err := s.taskRepository.ListTasks(ctx, query, timeNow().UTC())
	if err != nil {
		return models.TaskPage{}, s.mapError(ctx, err, "*taskService.List", userID)
	}
	return page, nil
}

func (s *taskService) Create(ctx context.Context, userID int64, req models.TaskCreateRequest) (models.Task, error) {
	task, err := validators.NormalizeTaskCreate(req)
	if err != nil {
		return models.Task{}, err
	}
	if task.Status == models.StatusArchived {
		return models.Task{}, ErrArchivedStatusLocked
	}

	categoryID, err := s.resolveCategory(ctx, userID, task.CategoryID)
	if err != nil {
		return models.Task{}, err
	}
	task.CategoryID = &categoryID
	task.UserID = userID

	created, err := s.taskRepository.CreateTask(ctx, task)
	if err != nil {
		return models.Task{}, s.mapError(ctx, err, "*taskService.Create", userID)
	}
	return created, nil
}

func (s *taskService) Get(ctx context.Context, userID, taskID int64, includeDeleted bool) (models.Task, error) {
	task, err := s.taskRepository.GetTask(ctx, userID, taskID, includeDeleted)
	if err != nil {
		return models.Task{}, s.mapError(ctx, err, "*taskService.Get", userID)
	}
	return task, nil
}

// Update applies a partial update to a non-deleted task. A category_id of
// null moves the task to "Uncategorized".
func (s *taskService) Update(ctx context.Context, userID, taskID int64, req models.TaskUpdateRequest) (models.Task, error) {
	changes, err := validators.NormalizeTaskUpdate(req)
	if err != nil {
		return models.Task{}, err
	}
	if changes.Status != nil && *changes.Status == models.StatusArchived {
		return models.Task{}, ErrArchivedStatusLocked
	}

	task, err := s.Get(ctx, userID, taskID, false)
	if err != nil {
		return models.Task{}, err
	}

	if changes.Title != nil {
		task.Title = *changes.Title
	}
	if changes.Description.Set {
		task.Description = changes.Description.Ptr()
	}
	if changes.Status != nil {
		task.Status = *changes.Status
	}
	if changes.Priority != nil {
		task.Priority = *changes.Priority
	}
	if changes.DueDate.Set {
		task.DueDate = changes.DueDate.Ptr()
	}
	if changes.CategoryID.Set {
		categoryID, resolveErr := s.resolveCategory(ctx, userID, changes.CategoryID.Ptr())
		if resolveErr != nil {
			return models.Task{}, resolveErr
		}
		task.CategoryID = &categoryID
	}

	updated, err := s.taskRepository.UpdateTask(ctx, task)
	if err != nil {
		return models.Task{}, s.mapError(ctx, err, "*taskService.Update", userID)
	}
	return updated, nil
}

func (s *taskService) Delete(ctx context.Context, userID, taskID int64) error {
	if err := s.taskRepository.SoftDeleteTask(ctx, userID, taskID); err != nil {
		return s.mapError(ctx, err, "*taskService.Delete", userID)
	}
	return nil
}

// Restore undeletes a task. A task whose category was removed while it was
// deleted lands in "Uncategorized".
func (s *taskService) Restore(ctx context.Context, userID, taskID int64) (models.Task, error) {
	task, err := s.Get(ctx, userID, taskID, true)
	if err != nil {
		return models.Task{}, err
	}
	if !task.IsDeleted() {
		return models.Task{}, ErrTaskNotDeleted
	}

	defaultCategory, err := s.categoryRepository.DefaultCategory(ctx, userID)
	if err != nil {
		return models.Task{}, s.mapError(ctx, err, "*taskService.Restore", userID)
	}

	restored, err := s.taskRepository.RestoreTask(ctx, userID, taskID, defaultCategory.ID)
	if err != nil {
		if errors.Is(err, store.ErrTaskStateChanged) {
			return models.Task{}, ErrTaskNotDeleted
		}
		return models.Task{}, s.mapError(ctx, err, "*taskService.Restore", userID)
	}
	return restored, nil
}

func (s *taskService) Archive(ctx context.Context, userID, taskID int64) (models.Task, error) {
	task, err := s.Get(ctx, userID, taskID, false)
	if err != nil {
		return models.Task{}, err
	}
	if task.Status != models.StatusDone {
		return models.Task{}, ErrTaskNotDone
	}

	archived, err := s.taskRepository.ArchiveTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskStateChanged) {
			return models.Task{}, ErrTaskNotDone
		}
		return models.Task{}, s.mapError(ctx, err, "*taskService.Archive", userID)
	}
	return archived, nil
}

func (s *taskService) Stats(ctx context.Context, userID int64) (models.TaskStats, error) {
	stats, err := s.taskRepository.TaskStats(ctx, userID, timeNow().UTC())
	if err != nil {
		return models.TaskStats{}, s.mapError(ctx, err, "*taskService.Stats", userID)
	}
	return stats, nil
}

// resolveCategory returns the id of the owned category, or of
// "Uncategorized" when categoryID is nil.
func (s *taskService) resolveCategory(ctx context.Context, userID int64, categoryID *int64) (int64, error) {
	if categoryID == nil {
		category, err := s.categoryRepository.DefaultCategory(ctx, userID)
		if err != nil {
			return 0, s.mapError(ctx, err, "*taskService.resolveCategory", userID)
		}
		return category.ID, nil
	}

	category, err := s.categoryRepository.GetCategory(ctx, userID, *categoryID)
	if err != nil {
		return 0, s.mapError(ctx, err, "*taskService.resolveCategory", userID)
	}
	return category.ID, nil
}

func (s *taskService) mapError(ctx context.Context, err error, funcName string, userID int64) error {
	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, store.ErrCategoryNotFound):
		return ErrCategoryNotFound
	}

	logger.FromContext(ctx).Err(err).Str("func", funcName).Int64("user_id", userID).
		Msg("task storage failure")
	return fmt.Errorf("task storage failure: %w", err)
}
