// Package notify implements the notification engine: live delivery with
// bounded retries, deferred scheduling into pending records, event fanout
// across all users, and flushing of pending notifications on request.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/webgroup/herald/internal/model"
)

const maxDeliveryAttempts = 3

// Publisher is the presence-gated publish capability. Both methods return
// false when the addressed user has no active session and true only once the
// payload has been handed to the transport.
type Publisher interface {
	Publish(userID int64, payload []byte) bool
	PublishTopic(userID int64, payload []byte) bool
}

type notificationPayload struct {
	EventID int64  `json:"eventId"`
	Msg     string `json:"msg"`
}

// Deliverer performs live delivery attempts through a Publisher.
type Deliverer struct {
	publisher Publisher
	logger    *slog.Logger
}

func NewDeliverer(publisher Publisher, logger *slog.Logger) *Deliverer {
	return &Deliverer{publisher: publisher, logger: logger}
}

// Attempt serializes the notification and tries to publish it to the user up
// to three times, immediately, with no backoff. It returns true on the first
// confirmed publish. A serialization failure is a terminal failure and
// consumes no publish attempts. Attempt has no side effect on pending state;
// the caller decides what a false result means.
func (d *Deliverer) Attempt(user *model.User, event *model.Event) bool {
	payload, err := json.Marshal(notificationPayload{
		EventID: event.ID,
		Msg:     fmt.Sprintf("New event: %s", event.Message),
	})
	if err != nil {
		d.logger.Error("marshal notification", "user", user.ID, "event", event.ID, "error", err)
		return false
	}

	for attempt := 1; attempt <= maxDeliveryAttempts; attempt++ {
		if d.publisher.Publish(user.ID, payload) {
			d.logger.Info("notification delivered", "user", user.ID, "event", event.ID, "attempt", attempt)
			return true
		}
		d.logger.Warn("delivery attempt failed", "user", user.ID, "event", event.ID, "attempt", attempt)
	}
	return false
}
