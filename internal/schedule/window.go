// Package schedule implements the weekly notification window calculations:
// containment checks against a user's window set and the search for the next
// instant at which any window opens.
package schedule

import (
	"time"

	"github.com/webgroup/herald/internal/model"
)

// Active reports whether the instant falls inside any of the windows.
//
// A window with Start before End matches its own weekday between the two
// bounds, inclusive. A window with Start after End crosses midnight: it
// matches its weekday from Start onward and the following day before End.
// A zero-width window (Start == End) never matches. Windows missing Start or
// End are skipped rather than rejected.
func Active(windows []model.NotificationWindow, at time.Time) bool {
	day := model.Weekday(at.Weekday())
	t := model.ClockTimeOf(at)

	for _, w := range windows {
		if w.Start == nil || w.End == nil {
			continue
		}
		start, end := *w.Start, *w.End
		switch {
		case start == end:
			// zero-width wraparound
		case start < end:
			if w.Weekday == day && t >= start && t <= end {
				return true
			}
		default:
			if w.Weekday == day && t >= start {
				return true
			}
			if nextWeekday(w.Weekday) == day && t < end {
				return true
			}
		}
	}
	return false
}

func nextWeekday(d model.Weekday) model.Weekday {
	return model.Weekday((time.Weekday(d) + 1) % 7)
}

// mondayIndex orders weekdays Monday-first, matching the order windows are
// presented in (Mon..Sun).
func mondayIndex(d model.Weekday) int {
	return (int(d) + 6) % 7
}
