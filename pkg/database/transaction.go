package database

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// WithTransaction runs fn inside a transaction bound to ctx. The transaction
// commits when fn returns nil and rolls back when fn returns an error, panics,
// or ctx is done before the commit is issued.
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(tx); err != nil {
			return err
		}
		// Last chance to abort; after this gorm issues COMMIT
		return ctx.Err()
	})
}

// IsUniqueViolation reports whether err was caused by a unique or primary key
// constraint on either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	// Fallback for wrapped errors that lost their type
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "sqlstate 23505") || strings.Contains(msg, "unique constraint failed")
}

// IsForeignKeyViolation reports whether err was caused by a row referencing a
// parent that does not exist (or no longer exists).
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "sqlstate 23503") || strings.Contains(msg, "foreign key constraint failed")
}
