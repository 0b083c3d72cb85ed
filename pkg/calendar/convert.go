package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/Pillangocska/EarlySpring/pkg/models"
)

// BYDAY two-letter codes from RFC 5545.
var bydayCodes = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

// ConvertEvent maps one VEVENT to an alarm definition. Weekly recurrences
// keep their BYDAY set (falling back to DTSTART's weekday), daily
// recurrences activate every weekday, and non-recurring future events
// become one-shot alarms. Anything else is reported as unconvertible.
func ConvertEvent(comp *ical.Component, userID string, defaults models.SnoozeConfig, now time.Time) (*models.Alarm, error) {
	label := "Imported alarm"
	if summaryProp := comp.Props.Get(ical.PropSummary); summaryProp != nil && summaryProp.Value != "" {
		label = summaryProp.Value
	}

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return nil, fmt.Errorf("event %q has no DTSTART", label)
	}
	start, err := startProp.DateTime(time.Local)
	if err != nil {
		return nil, fmt.Errorf("event %q has unparseable DTSTART: %w", label, err)
	}
	start = start.In(time.Local)

	alarm := &models.Alarm{
		ID:      uuid.New().String(),
		UserID:  userID,
		Label:   label,
		Hour:    start.Hour(),
		Minute:  start.Minute(),
		Enabled: true,
		Sound:   "default",
		Snooze:  defaults,
	}

	rruleProp := comp.Props.Get(ical.PropRecurrenceRule)
	if rruleProp == nil {
		// One-off event: only worth an alarm if it's still ahead of us.
		if !start.After(now) {
			return nil, fmt.Errorf("event %q already started at %s", label, start.Format("2006-01-02 15:04"))
		}
		alarm.FireAt = start
		return alarm, nil
	}

	rule := parseRRule(rruleProp.Value)
	switch rule["FREQ"] {
	case "WEEKLY":
		days, err := parseByDay(rule["BYDAY"])
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", label, err)
		}
		if len(days) == 0 {
			days = []time.Weekday{start.Weekday()}
		}
		alarm.Weekdays = days
	case "DAILY":
		alarm.Weekdays = []time.Weekday{
			time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		}
	default:
		return nil, fmt.Errorf("event %q has unsupported RRULE %q", label, rruleProp.Value)
	}

	return alarm, nil
}

// parseRRule splits "FREQ=WEEKLY;BYDAY=MO,WE" into its key/value parts.
func parseRRule(value string) map[string]string {
	rule := make(map[string]string)
	for _, part := range strings.Split(value, ";") {
		if key, val, ok := strings.Cut(part, "="); ok {
			rule[strings.ToUpper(strings.TrimSpace(key))] = strings.TrimSpace(val)
		}
	}
	return rule
}

func parseByDay(value string) ([]time.Weekday, error) {
	if value == "" {
		return nil, nil
	}
	var days []time.Weekday
	for _, code := range strings.Split(value, ",") {
		code = strings.ToUpper(strings.TrimSpace(code))
		// Strip any ordinal prefix like "2MO" or "-1FR"; only the weekday
		// matters for a wake-up alarm.
		if len(code) > 2 {
			code = code[len(code)-2:]
		}
		day, ok := bydayCodes[code]
		if !ok {
			return nil, fmt.Errorf("unknown BYDAY code %q", code)
		}
		days = append(days, day)
	}
	return days, nil
}
