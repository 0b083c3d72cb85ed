package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SnoozeBehavior controls what happens to the snooze duration after each use.
type SnoozeBehavior string

const (
	SnoozeRepeat        SnoozeBehavior = "repeat"         // same duration every time
	SnoozeRepeatShorten SnoozeBehavior = "repeat_shorten" // duration shrinks 20% per use
	SnoozeOnce          SnoozeBehavior = "once"           // the snoozed copy can't snooze again
)

// SnoozeConfig holds per-alarm snooze settings.
type SnoozeConfig struct {
	Enabled  bool           `json:"enabled"`
	Minutes  int            `json:"minutes"`
	Behavior SnoozeBehavior `json:"behavior"`
}

// NextMinutes returns the snooze duration to embed in the snoozed copy,
// applying the repeat_shorten attrition (floored at 1 minute).
func (s SnoozeConfig) NextMinutes() int {
	if s.Behavior != SnoozeRepeatShorten {
		return s.Minutes
	}
	next := s.Minutes * 4 / 5
	if next < 1 {
		next = 1
	}
	return next
}

// Alarm is a single alarm definition. A recurring alarm has a time of day
// plus a set of active weekdays; a one-shot alarm (snoozed copy, calendar
// one-off) carries an absolute FireAt instead.
type Alarm struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Label         string         `json:"label"`
	Hour          int            `json:"hour"`   // 0-23
	Minute        int            `json:"minute"` // 0-59
	Weekdays      []time.Weekday `json:"weekdays"`
	FireAt        time.Time      `json:"fire_at,omitempty"` // zero for recurring alarms
	Enabled       bool           `json:"enabled"`
	Sound         string         `json:"sound"`
	Vibrate       bool           `json:"vibrate"`
	GradualVolume bool           `json:"gradual_volume"`
	Snooze        SnoozeConfig   `json:"snooze"`
	WeatherAlert  bool           `json:"weather_alert"`
}

// OneShot reports whether the alarm fires once at an absolute instant.
func (a *Alarm) OneShot() bool {
	return !a.FireAt.IsZero()
}

// HasWeekday reports whether d is in the alarm's active weekday set.
func (a *Alarm) HasWeekday(d time.Weekday) bool {
	for _, w := range a.Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// TimeOfDay formats the alarm time as HH:MM for display.
func (a *Alarm) TimeOfDay() string {
	return fmt.Sprintf("%02d:%02d", a.Hour, a.Minute)
}

// WeekdayLabel renders the active weekday set for display, e.g. "Mon, Wed, Fri".
func (a *Alarm) WeekdayLabel() string {
	if a.OneShot() {
		return a.FireAt.Format("Jan 2 15:04")
	}
	if len(a.Weekdays) == 7 {
		return "Every day"
	}
	days := append([]time.Weekday(nil), a.Weekdays...)
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return strings.Join(names, ", ")
}

// SameSchedule reports whether other would resolve to the same occurrence:
// identical id, firing time, weekday set and enabled flag. Used by the
// scheduler's idempotency guard; effect-only fields (sound, vibrate, label)
// don't force a rearm.
func (a *Alarm) SameSchedule(other *Alarm) bool {
	if other == nil {
		return false
	}
	if a.ID != other.ID || a.Enabled != other.Enabled {
		return false
	}
	if a.Hour != other.Hour || a.Minute != other.Minute {
		return false
	}
	if !a.FireAt.Equal(other.FireAt) {
		return false
	}
	if len(a.Weekdays) != len(other.Weekdays) {
		return false
	}
	for _, d := range a.Weekdays {
		if !other.HasWeekday(d) {
			return false
		}
	}
	return true
}

// Validate checks the definition is well-formed.
func (a *Alarm) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("alarm has no id")
	}
	if a.Hour < 0 || a.Hour > 23 {
		return fmt.Errorf("hour %d out of range", a.Hour)
	}
	if a.Minute < 0 || a.Minute > 59 {
		return fmt.Errorf("minute %d out of range", a.Minute)
	}
	for _, d := range a.Weekdays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("invalid weekday %d", d)
		}
	}
	if a.Snooze.Enabled && a.Snooze.Minutes < 1 {
		return fmt.Errorf("snooze duration must be at least 1 minute")
	}
	return nil
}
