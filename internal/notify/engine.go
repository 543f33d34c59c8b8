package notify

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/webgroup/herald/internal/model"
	"github.com/webgroup/herald/internal/schedule"
	"github.com/webgroup/herald/internal/store"
)

// ErrInvalidEvent rejects fanout calls without a persisted event.
var ErrInvalidEvent = errors.New("event must be persisted with a non-zero id")

// Engine is the notification engine's entry point: event fanout across all
// users and user-initiated pending flushes.
type Engine struct {
	users     *store.UserStore
	events    *store.EventStore
	pending   *store.PendingStore
	deliverer *Deliverer
	scheduler *Scheduler
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewEngine(users *store.UserStore, events *store.EventStore, pending *store.PendingStore, publisher Publisher, logger *slog.Logger) *Engine {
	return &Engine{
		users:     users,
		events:    events,
		pending:   pending,
		deliverer: NewDeliverer(publisher, logger.With("component", "deliverer")),
		scheduler: NewScheduler(pending, logger.With("component", "scheduler")),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessEvent routes a newly created event to every user. Users already
// attached to the event are skipped. For each remaining user the event is
// attached and either delivered live (when the event instant falls inside
// one of the user's windows and a publish succeeds) or recorded as a pending
// notification. One user's failure never aborts the rest; attachments for
// all newly considered users are persisted in one batch after the loop.
func (e *Engine) ProcessEvent(event *model.Event) error {
	if event == nil || event.ID == 0 {
		return ErrInvalidEvent
	}
	e.logger.Info("processing event", "event", event.ID, "message", event.Message)

	users, err := e.users.ListWithWindows()
	if err != nil {
		return err
	}

	var attached []int64
	delivered := 0
	for i := range users {
		user := &users[i]
		if user.HasEvent(event.ID) {
			e.logger.Debug("user already attached to event", "user", user.ID, "event", event.ID)
			continue
		}
		attached = append(attached, user.ID)

		if schedule.Active(user.Windows, event.OccurredAt) {
			if e.deliverer.Attempt(user, event) {
				delivered++
				continue
			}
			e.logger.Warn("live delivery failed, deferring", "user", user.ID, "event", event.ID)
		}
		if err := e.scheduler.ScheduleIfNeeded(user, event); err != nil {
			e.logger.Error("schedule pending", "user", user.ID, "event", event.ID, "error", err)
		}
	}

	if err := e.users.AttachEvent(attached, event.ID); err != nil {
		return err
	}

	e.logger.Info("event processed", "event", event.ID, "considered", len(attached), "delivered", delivered)
	return nil
}

type pendingItem struct {
	EventID       int64     `json:"eventId"`
	Msg           string    `json:"msg"`
	ScheduledTime time.Time `json:"scheduledTime"`
}

// FlushPending delivers a user's pending notifications as a single batch on
// the user's pending topic, provided the current instant falls inside one of
// their windows. Rows whose event no longer resolves are skipped. Only rows
// actually published are deleted; everything else stays persisted. A missing
// user is a no-op.
func (e *Engine) FlushPending(userID int64) error {
	user, err := e.users.GetWithWindows(userID)
	if err != nil {
		return err
	}
	if user == nil {
		e.logger.Warn("flush requested for unknown user", "user", userID)
		return nil
	}

	pending, err := e.pending.ListByUser(userID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		e.logger.Debug("no pending notifications", "user", userID)
		return nil
	}

	if !schedule.Active(user.Windows, e.now()) {
		e.logger.Info("outside notification window, pending kept", "user", userID, "count", len(pending))
		return nil
	}

	var batch []pendingItem
	var published []model.PendingNotification
	for _, p := range pending {
		event, err := e.events.GetByID(p.EventID)
		if err != nil {
			return err
		}
		if event == nil {
			e.logger.Debug("pending references missing event", "user", userID, "event", p.EventID)
			continue
		}
		batch = append(batch, pendingItem{
			EventID:       event.ID,
			Msg:           event.Message,
			ScheduledTime: p.ScheduledTime,
		})
		published = append(published, p)
	}

	if len(batch) == 0 {
		e.logger.Info("no deliverable pending notifications", "user", userID)
		return nil
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		e.logger.Error("marshal pending batch", "user", userID, "error", err)
		return err
	}
	if !e.publisher.PublishTopic(userID, payload) {
		e.logger.Warn("pending batch not published, rows kept", "user", userID, "count", len(batch))
		return nil
	}

	if err := e.pending.DeleteAll(published); err != nil {
		return err
	}
	e.logger.Info("pending notifications flushed", "user", userID, "count", len(published))
	return nil
}

// ReapOrphans deletes pending rows whose event no longer exists. It backs
// the Reaper's periodic pass and is also callable on demand.
func (e *Engine) ReapOrphans() (int64, error) {
	return e.pending.DeleteOrphaned()
}
