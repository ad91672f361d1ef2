package db

import "strings"

// IsUniqueViolation reports whether err looks like a unique-index violation.
// With a constraint name it matches that constraint specifically; without one
// it matches the generic Postgres and sqlite duplicate-key texts.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	text := err.Error()
	if constraintName != "" {
		return strings.Contains(text, constraintName)
	}
	return strings.Contains(text, "duplicate key value") ||
		strings.Contains(text, "UNIQUE constraint failed")
}
