package validators

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

const (
	FieldSkip           = "skip"
	FieldLimit          = "limit"
	FieldDueFrom        = "due_date_from"
	FieldDueTo          = "due_date_to"
	FieldIsOverdue      = "is_overdue"
	FieldIncludeDeleted = "include_deleted"
	FieldSortBy         = "sort_by"
	FieldSortOrder      = "sort_order"
)

// ParsePage reads skip and limit. Empty values fall back to 0 and
// defaultLimit.
func ParsePage(skip, limit string, defaultLimit int) (models.Page, error) {
	var errs violations
	page := parsePage(&errs, skip, limit, defaultLimit)
	if err := errs.err(); err != nil {
		return models.Page{}, err
	}
	return page, nil
}

func parsePage(errs *violations, skip, limit string, defaultLimit int) models.Page {
	page := models.Page{Skip: 0, Limit: defaultLimit}

	if skip != "" {
		n, err := strconv.Atoi(skip)
		if err != nil || n < 0 {
			errs.add(FieldSkip, "Skip must be a non-negative integer")
		} else {
			page.Skip = n
		}
	}

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > models.MaxPageLimit {
			errs.add(FieldLimit, fmt.Sprintf("Limit must be an integer between 1 and %d", models.MaxPageLimit))
		} else {
			page.Limit = n
		}
	}

	return page
}

// ParseBool reads an optional boolean query parameter.
func ParseBool(field, raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, Single(field, "Value must be a boolean")
	}
	return v, nil
}

// ParseTaskQuery turns raw listing parameters into a task query. Status and
// priority accept repeated parameters and comma separated lists.
func ParseTaskQuery(userID int64, params models.TaskListParams) (models.TaskQuery, error) {
	var errs violations

	query := models.TaskQuery{
		UserID: userID,
		Page:   parsePage(&errs, params.Skip, params.Limit, models.DefaultTaskLimit),
		Sort: models.TaskSort{
			Field: models.SortByCreatedAt,
			Order: models.SortDesc,
		},
	}

	for _, raw := range splitList(params.Statuses) {
		query.Filter.Statuses = append(query.Filter.Statuses, checkStatus(&errs, raw))
	}
	for _, raw := range splitList(params.Priorities) {
		query.Filter.Priorities = append(query.Filter.Priorities, checkPriority(&errs, raw))
	}

	if params.CategoryID != "" {
		id, err := strconv.ParseInt(params.CategoryID, 10, 64)
		if err != nil || id <= 0 {
			errs.add(FieldCategoryID, "Category id must be a positive integer")
		} else {
			query.Filter.CategoryID = &id
		}
	}

	query.Filter.DueFrom = parseTime(&errs, FieldDueFrom, params.DueFrom)
	query.Filter.DueTo = parseTime(&errs, FieldDueTo, params.DueTo)
	if query.Filter.DueFrom != nil && query.Filter.DueTo != nil && query.Filter.DueFrom.After(*query.Filter.DueTo) {
		errs.add(FieldDueFrom, "due_date_from must not be after due_date_to")
	}

	query.Filter.Search = strings.TrimSpace(params.Search)

	if params.Overdue != "" {
		overdue, err := strconv.ParseBool(params.Overdue)
		if err != nil {
			errs.add(FieldIsOverdue, "Value must be a boolean")
		} else {
			query.Filter.Overdue = &overdue
		}
	}

	if params.IncludeDeleted != "" {
		includeDeleted, err := strconv.ParseBool(params.IncludeDeleted)
		if err != nil {
			errs.add(FieldIncludeDeleted, "Value must be a boolean")
		}
		query.Filter.IncludeDeleted = includeDeleted
	}

	if params.SortBy != "" {
		field := models.SortField(strings.ToLower(strings.TrimSpace(params.SortBy)))
		if _, ok := models.SortFields[field]; !ok {
			errs.add(FieldSortBy, fmt.Sprintf("Invalid sort field %q", params.SortBy))
		} else {
			query.Sort.Field = field
		}
	}

	if params.SortOrder != "" {
		switch order := models.SortOrder(strings.ToLower(strings.TrimSpace(params.SortOrder))); order {
		case models.SortAsc, models.SortDesc:
			query.Sort.Order = order
		default:
			errs.add(FieldSortOrder, fmt.Sprintf("Invalid sort order %q, expected asc or desc", params.SortOrder))
		}
	}

	if err := errs.err(); err != nil {
		return models.TaskQuery{}, err
	}
	return query, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseTime accepts RFC 3339 timestamps and plain dates. A plain date is
// midnight UTC.
func parseTime(errs *violations, field, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	errs.add(field, "Value must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	return nil
}
