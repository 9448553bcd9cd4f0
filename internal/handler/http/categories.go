package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page, err := validators.ParsePage(query.Get(validators.FieldSkip), query.Get(validators.FieldLimit), models.DefaultCategoryLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	categories, err := h.services.CategoryService.List(r.Context(), user.ID, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}

	writeJSON(w, r, categories, http.StatusOK)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CategoryCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	category, err := h.services.CategoryService.Create(r.Context(), user.ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, category, http.StatusCreated)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	categoryID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	category, err := h.services.CategoryService.Get(r.Context(), user.ID, categoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, category, http.StatusOK)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	categoryID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req models.CategoryUpdateRequest
	if err = decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	category, err := h.services.CategoryService.Update(r.Context(), user.ID, categoryID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, category, http.StatusOK)
}

// deleteCategory moves the tasks of the category to "Uncategorized" before
// removing it.
func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	categoryID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	moved, err := h.services.CategoryService.Delete(r.Context(), user.ID, categoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, app.MsgCategoryDeleted, map[string]int64{
		"category_id": categoryID,
		"tasks_moved": moved,
	})
}

func (h *Handler) listCategoryTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	categoryID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	query := r.URL.Query()
	page, err := validators.ParsePage(query.Get(validators.FieldSkip), query.Get(validators.FieldLimit), models.DefaultCategoryLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	includeDeleted, err := validators.ParseBool(validators.FieldIncludeDeleted, query.Get(validators.FieldIncludeDeleted))
	if err != nil {
		writeError(w, r, err)
		return
	}

	tasks, err := h.services.CategoryService.ListTasks(r.Context(), user.ID, categoryID, page, includeDeleted)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, models.NewTaskListResponse(tasks, h.now()), http.StatusOK)
}
