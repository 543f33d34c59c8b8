package notify

import (
	"errors"
	"log/slog"

	"github.com/webgroup/herald/internal/model"
	"github.com/webgroup/herald/internal/schedule"
	"github.com/webgroup/herald/internal/store"
)

// Scheduler creates deferred delivery records for users who could not be
// notified live.
type Scheduler struct {
	pending *store.PendingStore
	logger  *slog.Logger
}

func NewScheduler(pending *store.PendingStore, logger *slog.Logger) *Scheduler {
	return &Scheduler{pending: pending, logger: logger}
}

// ScheduleIfNeeded records a pending notification for the (user, event) pair
// at the next instant one of the user's windows opens, unless one already
// exists. The existence check is a short-circuit; the schema's unique
// constraint is the real guarantee, and a constraint violation is treated as
// the already-scheduled outcome. A user without usable windows is a soft
// failure: logged, no record created.
func (s *Scheduler) ScheduleIfNeeded(user *model.User, event *model.Event) error {
	exists, err := s.pending.Exists(user.ID, event.ID)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Debug("notification already scheduled", "user", user.ID, "event", event.ID)
		return nil
	}

	next, ok := schedule.NextActivation(user.Windows, event.OccurredAt)
	if !ok {
		s.logger.Warn("user has no notification windows, nothing scheduled", "user", user.ID, "event", event.ID)
		return nil
	}

	if _, err := s.pending.Create(user.ID, event.ID, next); err != nil {
		if errors.Is(err, store.ErrAlreadyScheduled) {
			s.logger.Debug("pending insert raced, already scheduled", "user", user.ID, "event", event.ID)
			return nil
		}
		return err
	}

	s.logger.Info("deferred notification scheduled", "user", user.ID, "event", event.ID, "scheduled_time", next)
	return nil
}
