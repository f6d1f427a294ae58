package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a row addressed by key does not exist
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a unique constraint
	ErrConflict = errors.New("unique constraint violation")
	// ErrTenantNotFound is returned when a tenant database file does not exist
	ErrTenantNotFound = errors.New("tenant database not found")
	// ErrInvalidArgument is returned for values the storage layer refuses to bind
	ErrInvalidArgument = errors.New("invalid argument")
)

// ConflictError reports which column a unique constraint failed on.
// It matches ErrConflict with errors.Is.
type ConflictError struct {
	Table  string
	Column string
	err    error
}

func (e *ConflictError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: %v", ErrConflict, e.err)
	}
	return fmt.Sprintf("%s on %s.%s", ErrConflict, e.Table, e.Column)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func (e *ConflictError) Unwrap() error { return e.err }

// ConflictColumn returns the column of a conflict error, or ""
func ConflictColumn(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Column
	}
	return ""
}

const sqliteUniquePrefix = "UNIQUE constraint failed: "

// translateError maps driver errors onto the package sentinels
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	msg := err.Error()
	if i := strings.Index(msg, sqliteUniquePrefix); i >= 0 {
		ce := &ConflictError{err: err}
		// "UNIQUE constraint failed: users.email" or "... users.a, users.b"
		target := strings.SplitN(msg[i+len(sqliteUniquePrefix):], ",", 2)[0]
		target = strings.Fields(target + " ")[0]
		if table, column, ok := strings.Cut(target, "."); ok {
			ce.Table, ce.Column = table, column
		}
		return ce
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "Duplicate entry") {
		return &ConflictError{err: err}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return err
}

// affected turns a zero-row update or delete into ErrNotFound
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
