package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when registering a user fails on the
	// unique email index.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoUserWasFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrCategoryNotFound is returned when a category does not exist or is
	// owned by another user.
	ErrCategoryNotFound = errors.New("category was not found")

	// ErrCategoryAlreadyExists is returned when a create or rename hits the
	// case-insensitive (user_id, name) unique index.
	ErrCategoryAlreadyExists = errors.New("category already exists")

	// ErrTaskNotFound is returned when a task does not exist, is owned by
	// another user, or is not visible in the requested deletion state.
	ErrTaskNotFound = errors.New("task was not found")

	// ErrTaskStateChanged is returned by conditional updates (archive,
	// restore) when the row no longer satisfies the precondition checked by
	// the caller.
	ErrTaskStateChanged = errors.New("task state changed concurrently")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query with squirrel fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
