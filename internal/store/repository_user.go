package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsActive,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// CreateUser persists a new user together with its "Uncategorized" category
// and returns the canonical database representation of the account.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped [ErrExecutingQuery].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	var created models.User
	err := r.db.inTx(ctx, "*userRepository.CreateUser", func(tx *sql.Tx) error {
		var scanErr error
		created, scanErr = scanUser(tx.QueryRowContext(ctx, createUser,
			user.Email, user.PasswordHash, user.FirstName, user.LastName, user.IsActive))
		if scanErr != nil {
			if postgresError(scanErr) == pgerrcode.UniqueViolation {
				return ErrEmailAlreadyExists
			}
			return fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
		}

		if _, execErr := tx.ExecContext(ctx, ensureDefaultCategory,
			models.DefaultCategoryName, models.DefaultCategoryColor, created.ID); execErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, execErr)
		}

		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error creating user")
		return models.User{}, err
	}

	log.Info().Str("func", "*userRepository.CreateUser").Int64("user_id", created.ID).Msg("user created")
	return created, nil
}

// FindUserByEmail retrieves the user whose email matches exactly.
// [sql.ErrNoRows] is reported as [ErrNoUserWasFound].
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByEmail", findUserByEmail, email)
}

// FindUserByID retrieves the user with the given id.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByID", findUserByID, userID)
}

func (r *userRepository) findOne(ctx context.Context, funcName, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", funcName).Msg("error finding user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return r.exec(ctx, "*userRepository.UpdateLastLogin", updateLastLogin, userID, at)
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.exec(ctx, "*userRepository.UpdatePassword", updatePassword, userID, passwordHash)
}

func (r *userRepository) exec(ctx context.Context, funcName, query string, userID int64, arg any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, userID, arg)
	if err != nil {
		log.Err(err).Str("func", funcName).Int64("user_id", userID).Msg("error updating user")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// UpdateProfile overwrites the first and last name of the user.
func (r *userRepository) UpdateProfile(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	updated, err := scanUser(r.db.QueryRowContext(ctx, updateProfile, user.ID, user.FirstName, user.LastName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.UpdateProfile").Int64("user_id", user.ID).Msg("error updating profile")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return updated, nil
}
