package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound replaces gorm.ErrRecordNotFound at the repository boundary
	// so services never import gorm.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is the unique-index violation on users.email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicate is any other unique-index violation.
	ErrDuplicate = errors.New("duplicate record")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
