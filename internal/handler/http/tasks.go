// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
)

// Query parameters of GET /tasks that are not shared with other listings.
const (
	queryStatus     = "status"
	queryPriority   = "priority"
	queryCategoryID = "category_id"
	querySearch     = "search"
)

// taskListParams copies the raw listing parameters; validation happens in
// the service.
func taskListParams(query url.Values) models.TaskListParams {
	return models.TaskListParams{
		Skip:           query.Get(validators.FieldSkip),
		Limit:          query.Get(validators.FieldLimit),
		Statuses:       query[queryStatus],
		Priorities:     query[queryPriority],
		CategoryID:     query.Get(queryCategoryID),
		DueFrom:        query.Get(validators.FieldDueFrom),
		DueTo:          query.Get(validators.FieldDueTo),
		Search:         query.Get(querySearch),
		Overdue:        query.Get(validators.FieldIsOverdue),
		IncludeDeleted: query.Get(validators.FieldIncludeDeleted),
		SortBy:         query.Get(validators.FieldSortBy),
		SortOrder:      query.Get(validators.FieldSortOrder),
	}
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	page, err := h.services.TaskService.List(r.Context(), user.ID, taskListParams(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, models.NewTaskListResponse(page, h.now()), http.StatusOK)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.TaskCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.services.TaskService.Create(r.Context(), user.ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, models.NewTaskResponse(task, h.now()), http.StatusCreated)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	includeDeleted, err := validators.ParseBool(validators.FieldIncludeDeleted, r.URL.Query().Get(validators.FieldIncludeDeleted))
	if err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.services.TaskService.Get(r.Context(), user.ID, taskID, includeDeleted)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, models.NewTaskResponse(task, h.now()), http.StatusOK)
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req models.TaskUpdateRequest
	if err = decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.services.TaskService.Update(r.Context(), user.ID, taskID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, models.NewTaskResponse(task, h.now()), http.StatusOK)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err = h.services.TaskService.Delete(r.Context(), user.ID, taskID); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, app.MsgTaskDeleted, map[string]int64{"task_id": taskID})
}

func (h *Handler) restoreTask(w http.ResponseWriter, r *http.Request) {
	h.transitionTask(w, r, h.services.TaskService.Restore)
}

func (h *Handler) archiveTask(w http.ResponseWriter, r *http.Request) {
	h.transitionTask(w, r, h.services.TaskService.Archive)
}

type taskTransition func(ctx context.Context, userID, taskID int64) (models.Task, error)

func (h *Handler) transitionTask(w http.ResponseWriter, r *http.Request, transition taskTransition) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	task, err := transition(r.Context(), user.ID, taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, models.NewTaskResponse(task, h.now()), http.StatusOK)
}

func (h *Handler) taskStats(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.services.TaskService.Stats(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, stats, http.StatusOK)
}
