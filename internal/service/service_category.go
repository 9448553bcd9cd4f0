package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
)

type categoryService struct {
	categoryRepository store.CategoryRepository
	taskRepository     store.TaskRepository

	logger *logger.Logger
}

func NewCategoryService(categoryRepository store.CategoryRepository, taskRepository store.TaskRepository, logger *logger.Logger) CategoryService {
	return &categoryService{
		categoryRepository: categoryRepository,
		taskRepository:     taskRepository,
		logger:             logger,
	}
}

func (s *categoryService) List(ctx context.Context, userID int64, page models.Page) ([]models.Category, error) {
	categories, err := s.categoryRepository.ListCategories(ctx, userID, page)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*categoryService.List").Int64("user_id", userID).
			Msg("listing categories failed")
		return nil, fmt.Errorf("listing categories failed: %w", err)
	}
	return categories, nil
}

// Create rejects names that differ from an existing one only by case.
func (s *categoryService) Create(ctx context.Context, userID int64, req models.CategoryCreateRequest) (models.Category, error) {
	category, err := validators.NormalizeCategoryCreate(req)
	if err != nil {
		return models.Category{}, err
	}
	category.UserID = userID

	if err = s.checkNameFree(ctx, userID, category.Name, 0); err != nil {
		return models.Category{}, err
	}

	created, err := s.categoryRepository.CreateCategory(ctx, category)
	if err != nil {
		return models.Category{}, s.mapError(ctx, err, "*categoryService.Create", userID)
	}
	return created, nil
}

func (s *categoryService) Get(ctx context.Context, userID, categoryID int64) (models.Category, error) {
	category, err := s.categoryRepository.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return models.Category{}, s.mapError(ctx, err, "*categoryService.Get", userID)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, userID, categoryID int64, req models.CategoryUpdateRequest) (models.Category, error) {
	changes, err := validators.NormalizeCategoryUpdate(req)
	if err != nil {
		return models.Category{}, err
	}

	category, err := s.Get(ctx, userID, categoryID)
	if err != nil {
		return models.Category{}, err
	}

	if changes.Name != nil && *changes.Name != category.Name {
		if category.IsDefault() {
			return models.Category{}, ErrDefaultCategoryLocked
		}
		if err = s.checkNameFree(ctx, userID, *changes.Name, categoryID); err != nil {
			return models.Category{}, err
		}
		category.Name = *changes.Name
	}
	if changes.Description.Set {
		category.Description = changes.Description.Ptr()
	}
	if changes.Color != nil {
		category.Color = *changes.Color
	}

	updated, err := s.categoryRepository.UpdateCategory(ctx, category)
	if err != nil {
		return models.Category{}, s.mapError(ctx, err, "*categoryService.Update", userID)
	}
	return updated, nil
}

func (s *categoryService) Delete(ctx context.Context, userID, categoryID int64) (int64, error) {
	category, err := s.Get(ctx, userID, categoryID)
	if err != nil {
		return 0, err
	}
	if category.IsDefault() {
		return 0, ErrDefaultCategoryLocked
	}

	moved, err := s.categoryRepository.DeleteCategory(ctx, userID, categoryID)
	if err != nil {
		return 0, s.mapError(ctx, err, "*categoryService.Delete", userID)
	}

	logger.FromContext(ctx).Info().Int64("user_id", userID).Int64("category_id", categoryID).
		Int64("moved_tasks", moved).Msg("category deleted")
	return moved, nil
}

func (s *categoryService) ListTasks(ctx context.Context, userID, categoryID int64, page models.Page, includeDeleted bool) (models.TaskPage, error) {
	if _, err := s.Get(ctx, userID, categoryID); err != nil {
		return models.TaskPage{}, err
	}

	query := models.TaskQuery{
		UserID: userID,
		Filter: models.TaskFilter{
			CategoryID:     &categoryID,
			IncludeDeleted: includeDeleted,
		},
		Sort: models.TaskSort{Field: models.SortByCreatedAt, Order: models.SortDesc},
		Page: page,
	}

	tasks, err := s.taskRepository.ListTasks(ctx, query, timeNow().UTC())
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*categoryService.ListTasks").
			Int64("category_id", categoryID).Msg("listing category tasks failed")
		return models.TaskPage{}, fmt.Errorf("listing category tasks failed: %w", err)
	}
	return tasks, nil
}

func (s *categoryService) checkNameFree(ctx context.Context, userID int64, name string, excludeID int64) error {
	exists, err := s.categoryRepository.CategoryNameExists(ctx, userID, name, excludeID)
	if err != nil {
		return s.mapError(ctx, err, "*categoryService.checkNameFree", userID)
	}
	if exists {
		return ErrCategoryNameTaken
	}
	return nil
}

func (s *categoryService) mapError(ctx context.Context, err error, funcName string, userID int64) error {
	switch {
	case errors.Is(err, store.ErrCategoryNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, store.ErrCategoryAlreadyExists):
		return ErrCategoryNameTaken
	}

	logger.FromContext(ctx).Err(err).Str("func", funcName).Int64("user_id", userID).
		Msg("category storage failure")
	return fmt.Errorf("category storage failure: %w", err)
}
