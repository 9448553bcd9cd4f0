package store

import (
	"database/sql/driver"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells [DB.inTx] whether a failed transaction may be
// replayed.
type ErrorClassification int

const (
	NonRetryable ErrorClassification = iota
	Retryable
)

func (c ErrorClassification) String() string {
	if c == Retryable {
		return "retryable"
	}
	return "non-retryable"
}

// PostgresErrorClassifier implements [ErrorClassificator] for errors
// surfaced by the pgx driver.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify reports Retryable for lost connections, serialization failures,
// deadlocks and a server that is still starting up. Constraint violations
// and everything unrecognised are NonRetryable.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	if errors.Is(err, driver.ErrBadConn) {
		return Retryable
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return Retryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyCode(pgErr.Code)
	}

	return NonRetryable
}

func classifyCode(code string) ErrorClassification {
	switch {
	case pgerrcode.IsConnectionException(code),
		pgerrcode.IsTransactionRollback(code),
		code == pgerrcode.CannotConnectNow:
		return Retryable
	default:
		return NonRetryable
	}
}
