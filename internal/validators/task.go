package validators

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-task-keeper/models"
)

const (
	FieldTitle      = "title"
	FieldStatus     = "status"
	FieldPriority   = "priority"
	FieldDueDate    = "due_date"
	FieldCategoryID = "category_id"

	MaxTaskTitleLength = 200
)

// NormalizeTaskCreate checks a new task and applies the status and priority
// defaults. The owner and category are left for the caller.
func NormalizeTaskCreate(req models.TaskCreateRequest) (models.Task, error) {
	var errs violations

	task := models.Task{
		Title:       checkTaskTitle(&errs, req.Title),
		Description: trimmed(req.Description),
		Status:      models.StatusTodo,
		Priority:    models.PriorityMedium,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	}
	if req.Status != nil {
		task.Status = checkStatus(&errs, *req.Status)
	}
	if req.Priority != nil {
		task.Priority = checkPriority(&errs, *req.Priority)
	}
	if task.DueDate != nil {
		due := task.DueDate.UTC()
		task.DueDate = &due
	}

	if err := errs.err(); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// NormalizeTaskUpdate checks the fields present in a task update.
func NormalizeTaskUpdate(req models.TaskUpdateRequest) (models.TaskChanges, error) {
	var (
		errs    violations
		changes models.TaskChanges
	)

	if req.Title != nil {
		title := checkTaskTitle(&errs, *req.Title)
		changes.Title = &title
	}
	if req.Description.Set {
		changes.Description = req.Description
		if req.Description.Valid {
			changes.Description.Value = strings.TrimSpace(req.Description.Value)
		}
	}
	if req.Status != nil {
		status := checkStatus(&errs, *req.Status)
		changes.Status = &status
	}
	if req.Priority != nil {
		priority := checkPriority(&errs, *req.Priority)
		changes.Priority = &priority
	}
	if req.DueDate.Set {
		changes.DueDate = req.DueDate
		if req.DueDate.Valid {
			changes.DueDate.Value = req.DueDate.Value.UTC()
		}
	}
	changes.CategoryID = req.CategoryID

	if err := errs.err(); err != nil {
		return models.TaskChanges{}, err
	}
	return changes, nil
}

func checkTaskTitle(errs *violations, title string) string {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		errs.add(FieldTitle, "Title cannot be empty")
	case utf8.RuneCountInString(title) > MaxTaskTitleLength:
		errs.add(FieldTitle, fmt.Sprintf("Title cannot exceed %d characters", MaxTaskTitleLength))
	}
	return title
}

func checkStatus(errs *violations, raw string) models.TaskStatus {
	status, err := models.ParseTaskStatus(raw)
	if err != nil {
		errs.add(FieldStatus, enumMessage(err, raw))
	}
	return status
}

func checkPriority(errs *violations, raw string) models.TaskPriority {
	priority, err := models.ParseTaskPriority(raw)
	if err != nil {
		errs.add(FieldPriority, enumMessage(err, raw))
	}
	return priority
}

func enumMessage(err error, raw string) string {
	switch {
	case errors.Is(err, models.ErrUnknownStatus):
		return fmt.Sprintf("Invalid status %q, expected one of: todo, in_progress, done, archived", raw)
	case errors.Is(err, models.ErrUnknownPriority):
		return fmt.Sprintf("Invalid priority %q, expected one of: low, medium, high, urgent", raw)
	}
	return err.Error()
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
