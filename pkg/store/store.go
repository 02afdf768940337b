// Package store is the sole gateway to persistent state. Every other
// component reads and writes through it; it knows nothing about HTTP.
//
// Queries are hand-written SQL over the shared database/sql pool. The hot
// paths are JOIN- and GROUP BY-heavy (due selection, streak, forecast), so
// the store stays at the SQL level rather than behind an entity mapper.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when no entity matches the given key.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert violates a unique constraint,
	// e.g. a second memory card for the same item.
	ErrDuplicate = errors.New("entity already exists")

	// ErrUnavailable is returned when the database cannot be reached.
	ErrUnavailable = errors.New("database unavailable")
)

// Store provides typed operations over the tutor schema.
type Store struct {
	db *sql.DB
}

// New creates a Store over the shared connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying pool for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

// mapError translates driver errors into the store's error taxonomy.
// sql.ErrNoRows becomes ErrNotFound, unique violations become ErrDuplicate,
// connection failures become ErrUnavailable; anything else passes through
// wrapped with op.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	if errors.Is(err, sql.ErrConnDone) || isConnectionError(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isConnectionError reports whether err is a pgconn connect/IO failure
// rather than a statement-level error.
func isConnectionError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	return pgconn.Timeout(err)
}

// inTx runs fn inside a transaction, rolling back on error or panic.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}
