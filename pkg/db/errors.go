package db

import (
	"errors"
	"strings"

	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"
const pgForeignKeyViolation = "23503"

// IsUniqueViolation reports whether err is a unique constraint violation. When
// constraint is not empty only that constraint (or index) matches.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return constraint == "" || pgErr.ConstraintName == constraint
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return constraint == "" || pqErr.Constraint == constraint
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return constraint == ""
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return constraint == "" || strings.Contains(msg, constraint)
}

// IsForeignKeyViolation reports whether err comes from a referencing row blocking the write.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgForeignKeyViolation
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// MapError converts persistence errors into typed API errors. Typed errors pass through.
// resource carries its article ("la categoría") so messages read naturally.
func MapError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "No encontramos "+resource+".")
	case IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Ya existe "+resource+" con esos datos.")
	case IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "No se puede eliminar "+resource+" porque está en uso.")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist "+resource)
	}
}
