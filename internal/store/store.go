// Package store contains the SQLite-backed repositories for users, events,
// notification windows, and pending notifications.
package store

import (
	"errors"
	"strings"
)

// ErrAlreadyScheduled is returned when inserting a pending notification for a
// (user, event) pair that already has one. Callers treat it as the idempotent
// "already scheduled" outcome, not a failure.
var ErrAlreadyScheduled = errors.New("pending notification already scheduled")

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
