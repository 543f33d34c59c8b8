package model

import "time"

// User owns a set of notification windows and tracks which events it has
// already been considered for.
type User struct {
	ID        int64                `json:"id"`
	FullName  string               `json:"full_name"`
	CreatedAt time.Time            `json:"created_at"`
	Windows   []NotificationWindow `json:"windows,omitempty"`
	EventIDs  []int64              `json:"event_ids,omitempty"`
}

// HasEvent reports whether the event is already attached to the user.
func (u *User) HasEvent(eventID int64) bool {
	for _, id := range u.EventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}
