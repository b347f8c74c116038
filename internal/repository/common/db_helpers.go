package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// GetByID fetches one entity by primary key, mapping sql.ErrNoRows to
// the repository-specific not-found error.
func GetByID[T any](ctx context.Context, db *sqlx.DB, table string, id interface{}, notFoundErr error) (*T, error) {
	var entity T
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", table)

	if err := db.GetContext(ctx, &entity, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr
		}
		return nil, fmt.Errorf("get by id from %s: %w", table, err)
	}

	return &entity, nil
}

// GetByField fetches one entity by an arbitrary column.
func GetByField[T any](ctx context.Context, db *sqlx.DB, table, field string, value interface{}, notFoundErr error) (*T, error) {
	var entity T
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1", table, field)

	if err := db.GetContext(ctx, &entity, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr
		}
		return nil, fmt.Errorf("get by %s from %s: %w", field, table, err)
	}

	return &entity, nil
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation, optionally for a specific constraint name.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// WithTransaction runs fn inside a transaction with rollback on error or panic.
func WithTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p) // re-throw panic after rollback
		}
	}()

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
