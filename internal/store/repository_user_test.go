package store

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userTableColumns = []string{
	"id", "email", "hashed_password", "first_name", "last_name",
	"is_active", "last_login", "created_at", "updated_at",
}

func newTestUserRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return NewUserRepository(newDBFromSQL(db), logger.Nop()), mock
}

func userRow(id int64, email string, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(userTableColumns).
		AddRow(id, email, "hash", nil, nil, true, nil, now, now)
}

// ─────────────────────────────────────────────
// CreateUser
// ─────────────────────────────────────────────

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("john@example.com", "hash", nil, nil, true).
		WillReturnRows(userRow(1, "john@example.com", now))
	mock.ExpectExec("INSERT INTO categories").
		WithArgs(models.DefaultCategoryName, models.DefaultCategoryColor, int64(1)).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectCommit()

	created, err := repo.CreateUser(testContext(), models.User{
		Email:        "john@example.com",
		PasswordHash: "hash",
		IsActive:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "john@example.com", created.Email)
	assert.True(t, created.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.UniqueViolation))
	mock.ExpectRollback()

	_, err := repo.CreateUser(testContext(), models.User{Email: "john@example.com"})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCreateUser_CategoryFailureRollsBack verifies that the user insert is not
// committed when the default category cannot be created.
func TestCreateUser_CategoryFailureRollsBack(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(userRow(1, "john@example.com", time.Now()))
	mock.ExpectExec("INSERT INTO categories").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.CreateUser(testContext(), models.User{Email: "john@example.com"})

	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCreateUser_RetriesSerializationFailure verifies that the transaction is
// replayed after a retryable Postgres error.
func TestCreateUser_RetriesSerializationFailure(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.SerializationFailure))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(userRow(2, "jane@example.com", time.Now()))
	mock.ExpectExec("INSERT INTO categories").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	created, err := repo.CreateUser(testContext(), models.User{Email: "jane@example.com"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_BeginError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("cannot begin"))

	_, err := repo.CreateUser(testContext(), models.User{Email: "john@example.com"})

	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

// ─────────────────────────────────────────────
// FindUserByEmail / FindUserByID
// ─────────────────────────────────────────────

func TestFindUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ").
			WithArgs("john@example.com").
			WillReturnRows(userRow(7, "john@example.com", time.Now()))

		user, err := repo.FindUserByEmail(testContext(), "john@example.com")

		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "hash", user.PasswordHash)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM users").
			WillReturnRows(sqlmock.NewRows(userTableColumns))

		_, err := repo.FindUserByEmail(testContext(), "ghost@example.com")

		assert.ErrorIs(t, err, ErrNoUserWasFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM users").
			WillReturnError(errors.New("db network error"))

		_, err := repo.FindUserByEmail(testContext(), "john@example.com")

		assert.ErrorIs(t, err, ErrExecutingQuery)
	})
}

func TestFindUserByID(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ").
		WithArgs(int64(3)).
		WillReturnRows(userRow(3, "a@b.c", time.Now()))

	user, err := repo.FindUserByID(testContext(), 3)

	require.NoError(t, err)
	assert.Equal(t, "a@b.c", user.Email)
}

// ─────────────────────────────────────────────
// updates
// ─────────────────────────────────────────────

func TestUpdateLastLogin(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("updated", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectExec("UPDATE users SET last_login").
			WithArgs(int64(1), at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateLastLogin(testContext(), 1, at))
	})

	t.Run("missing user", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectExec("UPDATE users SET last_login").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateLastLogin(testContext(), 1, at), ErrNoUserWasFound)
	})
}

func TestUpdatePassword(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	mock.ExpectExec("UPDATE users SET hashed_password").
		WithArgs(int64(1), "new-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdatePassword(testContext(), 1, "new-hash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	first := "John"
	now := time.Now()

	mock.ExpectQuery("UPDATE users").
		WithArgs(int64(1), "John", nil).
		WillReturnRows(sqlmock.NewRows(userTableColumns).
			AddRow(int64(1), "john@example.com", "hash", "John", nil, true, nil, now, now))

	user, err := repo.UpdateProfile(testContext(), models.User{ID: 1, FirstName: &first})

	require.NoError(t, err)
	require.NotNil(t, user.FirstName)
	assert.Equal(t, "John", *user.FirstName)
	assert.Nil(t, user.LastName)
}
