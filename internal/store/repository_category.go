package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/jackc/pgerrcode"
)

// categoryRepository is the PostgreSQL-backed implementation of
// [CategoryRepository].
type categoryRepository struct {
	*DB
	logger *logger.Logger
}

func NewCategoryRepository(db *DB, logger *logger.Logger) CategoryRepository {
	logger.Debug().Msg("creating category repository")
	return &categoryRepository{
		DB:     db,
		logger: logger,
	}
}

func scanCategory(row rowScanner, withCount bool) (models.Category, error) {
	var c models.Category
	dest := []any{&c.ID, &c.Name, &c.Description, &c.Color, &c.UserID, &c.CreatedAt, &c.UpdatedAt}
	if withCount {
		dest = append(dest, &c.TaskCount)
	}
	err := row.Scan(dest...)
	return c, err
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	log := logger.FromContext(ctx)

	created, err := scanCategory(r.DB.QueryRowContext(ctx, createCategory,
		category.Name, category.Description, category.Color, category.UserID), false)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.Category{}, ErrCategoryAlreadyExists
		}
		log.Err(err).
			Str("func", "*categoryRepository.CreateCategory").
			Int64("user_id", category.UserID).
			Msg("failed to insert category")
		return models.Category{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return created, nil
}

func (r *categoryRepository) GetCategory(ctx context.Context, userID, categoryID int64) (models.Category, error) {
	log := logger.FromContext(ctx)

	category, err := scanCategory(r.DB.QueryRowContext(ctx, getCategory, categoryID, userID), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, ErrCategoryNotFound
		}
		log.Err(err).
			Str("func", "*categoryRepository.GetCategory").
			Int64("user_id", userID).
			Int64("category_id", categoryID).
			Msg("failed to get category")
		return models.Category{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return category, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context, userID int64, page models.Page) ([]models.Category, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListCategoriesQuery(ctx, userID, page)
	if err != nil {
		log.Err(err).Str("func", "*categoryRepository.ListCategories").Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*categoryRepository.ListCategories").
			Int64("user_id", userID).
			Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0, page.Limit)
	for rows.Next() {
		category, scanErr := scanCategory(rows, true)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*categoryRepository.ListCategories").Msg("failed to scan category row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*categoryRepository.ListCategories").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return categories, nil
}

func (r *categoryRepository) CategoryNameExists(ctx context.Context, userID int64, name string, excludeID int64) (bool, error) {
	var exists bool
	if err := r.DB.QueryRowContext(ctx, categoryNameExists, userID, name, excludeID).Scan(&exists); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*categoryRepository.CategoryNameExists").
			Int64("user_id", userID).
			Msg("failed to check category name")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return exists, nil
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	log := logger.FromContext(ctx)

	updated, err := scanCategory(r.DB.QueryRowContext(ctx, updateCategory,
		category.ID, category.UserID, category.Name, category.Description, category.Color), false)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.Category{}, ErrCategoryNotFound
		case postgresError(err) == pgerrcode.UniqueViolation:
			return models.Category{}, ErrCategoryAlreadyExists
		}
		log.Err(err).
			Str("func", "*categoryRepository.UpdateCategory").
			Int64("category_id", category.ID).
			Msg("failed to update category")
		return models.Category{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	updated.TaskCount = category.TaskCount
	return updated, nil
}

func (r *categoryRepository) DefaultCategory(ctx context.Context, userID int64) (models.Category, error) {
	var category models.Category
	err := r.inTx(ctx, "*categoryRepository.DefaultCategory", func(tx *sql.Tx) error {
		var txErr error
		category, txErr = defaultCategoryTx(ctx, tx, userID)
		return txErr
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*categoryRepository.DefaultCategory").
			Int64("user_id", userID).
			Msg("failed to get default category")
		return models.Category{}, err
	}
	return category, nil
}

// defaultCategoryTx creates "Uncategorized" when missing and returns it.
func defaultCategoryTx(ctx context.Context, tx *sql.Tx, userID int64) (models.Category, error) {
	if _, err := tx.ExecContext(ctx, ensureDefaultCategory,
		models.DefaultCategoryName, models.DefaultCategoryColor, userID); err != nil {
		return models.Category{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	category, err := scanCategory(tx.QueryRowContext(ctx, findCategoryByName, userID, models.DefaultCategoryName), false)
	if err != nil {
		return models.Category{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return category, nil
}

// DeleteCategory reassigns the category's non-deleted tasks to
// "Uncategorized" and removes the category. Soft-deleted tasks lose their
// category through ON DELETE SET NULL and are reassigned on restore.
func (r *categoryRepository) DeleteCategory(ctx context.Context, userID, categoryID int64) (int64, error) {
	log := logger.FromContext(ctx)

	var reassigned int64
	err := r.inTx(ctx, "*categoryRepository.DeleteCategory", func(tx *sql.Tx) error {
		defaultCategory, err := defaultCategoryTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if defaultCategory.ID == categoryID {
			return ErrCategoryNotFound
		}

		result, err := tx.ExecContext(ctx, reassignCategoryTasks, categoryID, userID, defaultCategory.ID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if reassigned, err = result.RowsAffected(); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		result, err = tx.ExecContext(ctx, deleteCategory, categoryID, userID, models.DefaultCategoryName)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		deleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if deleted == 0 {
			return ErrCategoryNotFound
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrCategoryNotFound) {
			log.Err(err).
				Str("func", "*categoryRepository.DeleteCategory").
				Int64("user_id", userID).
				Int64("category_id", categoryID).
				Msg("failed to delete category")
		}
		return 0, err
	}

	log.Info().
		Str("func", "*categoryRepository.DeleteCategory").
		Int64("category_id", categoryID).
		Int64("reassigned_tasks", reassigned).
		Msg("category deleted")

	return reassigned, nil
}
