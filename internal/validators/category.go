package validators

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-task-keeper/models"
)

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldColor       = "color"

	MaxCategoryNameLength        = 100
	MaxCategoryDescriptionLength = 500
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// NormalizeCategoryCreate trims and checks a new category. A missing color
// becomes [models.DefaultCategoryColor].
func NormalizeCategoryCreate(req models.CategoryCreateRequest) (models.Category, error) {
	var errs violations

	category := models.Category{
		Name:        checkCategoryName(&errs, req.Name),
		Description: checkCategoryDescription(&errs, req.Description),
		Color:       models.DefaultCategoryColor,
	}
	if req.Color != nil {
		category.Color = checkColor(&errs, *req.Color)
	}

	if err := errs.err(); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

// NormalizeCategoryUpdate checks the fields present in a category update.
func NormalizeCategoryUpdate(req models.CategoryUpdateRequest) (models.CategoryChanges, error) {
	var (
		errs    violations
		changes models.CategoryChanges
	)

	if req.Name != nil {
		name := checkCategoryName(&errs, *req.Name)
		changes.Name = &name
	}
	if req.Description.Set {
		changes.Description = req.Description
		if req.Description.Valid {
			changes.Description.Value = *checkCategoryDescription(&errs, &req.Description.Value)
		}
	}
	if req.Color != nil {
		color := checkColor(&errs, *req.Color)
		changes.Color = &color
	}

	if err := errs.err(); err != nil {
		return models.CategoryChanges{}, err
	}
	return changes, nil
}

func checkCategoryName(errs *violations, name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		errs.add(FieldName, "Category name cannot be empty")
	case utf8.RuneCountInString(name) > MaxCategoryNameLength:
		errs.add(FieldName, fmt.Sprintf("Category name cannot exceed %d characters", MaxCategoryNameLength))
	}
	return name
}

func checkCategoryDescription(errs *violations, description *string) *string {
	if description == nil {
		return nil
	}
	d := strings.TrimSpace(*description)
	if utf8.RuneCountInString(d) > MaxCategoryDescriptionLength {
		errs.add(FieldDescription, fmt.Sprintf("Description cannot exceed %d characters", MaxCategoryDescriptionLength))
	}
	return &d
}

func checkColor(errs *violations, color string) string {
	color = strings.TrimSpace(color)
	if !colorPattern.MatchString(color) {
		errs.add(FieldColor, "Color must be a valid hex color (e.g., #FF6B35)")
	}
	return color
}
