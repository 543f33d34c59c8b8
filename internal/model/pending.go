package model

import "time"

// PendingNotification is a deferred delivery record. At most one exists per
// (user, event) pair; the storage schema enforces this with a unique index.
type PendingNotification struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	EventID       int64     `json:"event_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
}
