package model

import "time"

// Event is immutable once created.
type Event struct {
	ID         int64     `json:"id"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}
