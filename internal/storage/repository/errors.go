// Package repository implements sqlite data access for accounts, sessions and preferences.
package repository

import (
	"errors"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("already exists")
)

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
		if se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
			return false
		}
	}
	// Primary result codes only carry the detail in the message.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// dbTime normalizes times to whole UTC seconds so stored values sort lexically.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
