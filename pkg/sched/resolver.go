// Package sched resolves alarm definitions to concrete fire instants and
// keeps at most one live timer armed per alarm id.
package sched

import (
	"time"

	"github.com/Pillangocska/EarlySpring/pkg/models"
)

// NextOccurrence computes the next instant strictly after now at which the
// alarm should ring. All computation is local wall-clock; there is no
// timezone conversion. Returns false when the alarm can never fire again
// (no active weekday, or a one-shot whose instant has passed).
//
// Exact equality between now and the target counts as already passed, so an
// alarm inspected at its own fire instant resolves to the following
// occurrence instead of refiring immediately.
func NextOccurrence(alarm *models.Alarm, now time.Time) (time.Time, bool) {
	if alarm.OneShot() {
		if alarm.FireAt.After(now) {
			return alarm.FireAt, true
		}
		return time.Time{}, false
	}

	if len(alarm.Weekdays) == 0 {
		return time.Time{}, false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(),
		alarm.Hour, alarm.Minute, 0, 0, now.Location())

	if alarm.HasWeekday(now.Weekday()) && today.After(now) {
		return today, true
	}

	// Scan forward day by day, wrapping the week. Seven steps always reach
	// the next active weekday; day 7 covers "same weekday next week".
	for offset := 1; offset <= 7; offset++ {
		candidate := today.AddDate(0, 0, offset)
		if alarm.HasWeekday(candidate.Weekday()) {
			return candidate, true
		}
	}

	return time.Time{}, false
}
