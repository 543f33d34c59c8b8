package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ClockTime is a time of day expressed as seconds since midnight.
// It marshals to "HH:MM" (or "HH:MM:SS" when seconds are present).
type ClockTime int

// ParseClockTime parses "HH:MM" or "HH:MM:SS".
func ParseClockTime(s string) (ClockTime, error) {
	var h, m, sec int
	switch strings.Count(s, ":") {
	case 1:
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("parse clock time %q: %w", s, err)
		}
	case 2:
		if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
			return 0, fmt.Errorf("parse clock time %q: %w", s, err)
		}
	default:
		return 0, fmt.Errorf("parse clock time %q: want HH:MM or HH:MM:SS", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("parse clock time %q: out of range", s)
	}
	return ClockTime(h*3600 + m*60 + sec), nil
}

// ClockTimeOf extracts the time of day from an instant.
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

func (c ClockTime) String() string {
	h := int(c) / 3600
	m := int(c) % 3600 / 60
	s := int(c) % 60
	if s == 0 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Duration returns the offset from midnight.
func (c ClockTime) Duration() time.Duration {
	return time.Duration(c) * time.Second
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Weekday wraps time.Weekday so it marshals by name ("Monday") instead of
// its numeric value.
type Weekday time.Weekday

// ParseWeekday accepts full English weekday names, case-insensitive.
func ParseWeekday(s string) (Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return Weekday(d), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday: %q", s)
}

func (d Weekday) String() string {
	return time.Weekday(d).String()
}

func (d Weekday) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Weekday) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseWeekday(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NotificationWindow is a recurring weekly interval during which its owner
// accepts live notifications. Start and End are nullable: a window missing
// either is kept but never matches. End at or before Start means the window
// crosses midnight into the following day.
type NotificationWindow struct {
	ID      int64      `json:"id"`
	UserID  int64      `json:"user_id"`
	Weekday Weekday    `json:"weekday"`
	Start   *ClockTime `json:"start"`
	End     *ClockTime `json:"end"`
}
