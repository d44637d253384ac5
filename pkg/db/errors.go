package db

import "strings"

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// failure. With a constraint name it matches that constraint specifically;
// without one it matches any duplicate-key error.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	if constraintName != "" {
		return strings.Contains(message, constraintName)
	}
	return strings.Contains(message, "duplicate key value")
}
