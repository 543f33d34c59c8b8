package schedule

import (
	"time"

	"github.com/webgroup/herald/internal/model"
)

// NextActivation returns the earliest instant strictly after from at which
// some window opens. The second return value is false only when no window
// carries a start time.
//
// Windows starting later the same day or on a later weekday this week are
// "soon" candidates and the earliest wins. When every window has already
// started by from (all starts earlier today), the search falls back to the
// window with the smallest (weekday, start) pair — Monday first — one week
// out, adjusted forward to that weekday. The result is therefore never in
// the past for a usable window set.
func NextActivation(windows []model.NotificationWindow, from time.Time) (time.Time, bool) {
	day := model.Weekday(from.Weekday())
	t := model.ClockTimeOf(from)
	midnight := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	var closest time.Time
	var found bool
	var fallback *model.NotificationWindow

	for i := range windows {
		w := windows[i]
		if w.Start == nil {
			continue
		}
		daysUntil := (mondayIndex(w.Weekday) - mondayIndex(day) + 7) % 7
		candidate := midnight.AddDate(0, 0, daysUntil).Add(w.Start.Duration())

		if daysUntil > 0 || *w.Start > t {
			if !found || candidate.Before(closest) {
				closest = candidate
				found = true
			}
		}

		if fallback == nil || lessWindow(w, *fallback) {
			fallback = &windows[i]
		}
	}

	if found {
		return closest, true
	}
	if fallback == nil {
		return time.Time{}, false
	}

	// Every window started earlier today: push one week out, then adjust
	// forward to the fallback window's weekday.
	base := midnight.AddDate(0, 0, 7)
	ahead := (int(fallback.Weekday) - int(base.Weekday()) + 7) % 7
	return base.AddDate(0, 0, ahead).Add(fallback.Start.Duration()), true
}

func lessWindow(a, b model.NotificationWindow) bool {
	if mondayIndex(a.Weekday) != mondayIndex(b.Weekday) {
		return mondayIndex(a.Weekday) < mondayIndex(b.Weekday)
	}
	return *a.Start < *b.Start
}
