// Package pgerrs translates PostgreSQL failures into the domain error
// taxonomy so that callers can tell a lost race from a broken database.
package pgerrs

import (
	"errors"

	"settlement/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes that mean another transaction won.
const (
	UniqueViolation      = "23505"
	SerializationFailure = "40001"
	DeadlockDetected     = "40P01"
)

// IsConflict reports whether err is a concurrency loss: a unique violation,
// a serialization failure or a detected deadlock.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case UniqueViolation, SerializationFailure, DeadlockDetected:
		return true
	default:
		return false
	}
}

// Translate wraps conflicts into a ConflictError naming param and id and
// passes every other error through unchanged.
func Translate(err error, param, id string) error {
	if IsConflict(err) {
		return errs.NewConflictErrorWithCause(param, id, err)
	}
	return err
}
