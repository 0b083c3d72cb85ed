package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"

	"github.com/Pillangocska/EarlySpring/pkg/audio"
	"github.com/Pillangocska/EarlySpring/pkg/models"
)

var dialogWeekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

var snoozeBehaviorLabels = map[string]models.SnoozeBehavior{
	"Repeat":          models.SnoozeRepeat,
	"Shorten repeats": models.SnoozeRepeatShorten,
	"Only once":       models.SnoozeOnce,
}

// showAlarmDialog edits an existing alarm or, when existing is nil, creates
// a new one. Saving persists immediately and re-arms the alarm's timer.
func (sw *SettingsWindow) showAlarmDialog(existing *models.Alarm) {
	alarm := &models.Alarm{
		ID:      uuid.New().String(),
		UserID:  sw.es.profile.ID,
		Hour:    7,
		Minute:  0,
		Enabled: true,
		Sound:   audio.DefaultSoundID,
		Snooze: models.SnoozeConfig{
			Enabled:  true,
			Minutes:  sw.es.config.DefaultSnoozeMinutes,
			Behavior: models.SnoozeRepeat,
		},
	}
	title := "Add Alarm"
	if existing != nil {
		copied := *existing
		alarm = &copied
		title = "Edit Alarm"
	}

	labelEntry := widget.NewEntry()
	labelEntry.SetText(alarm.Label)

	timeEntry := widget.NewEntry()
	timeEntry.SetText(alarm.TimeOfDay())
	timeEntry.SetPlaceHolder("07:00")

	dateEntry := widget.NewEntry()
	dateEntry.SetPlaceHolder("leave empty for weekly")
	if alarm.OneShot() {
		dateEntry.SetText(alarm.FireAt.Format("2006-01-02"))
	}

	dayChecks := make([]*widget.Check, len(dialogWeekdays))
	dayRow := container.NewHBox()
	for i, day := range dialogWeekdays {
		check := widget.NewCheck(day.String()[:3], nil)
		check.SetChecked(alarm.HasWeekday(day))
		dayChecks[i] = check
		dayRow.Add(check)
	}

	soundEntry := widget.NewEntry()
	soundEntry.SetText(alarm.Sound)

	vibrateCheck := widget.NewCheck("Vibrate", nil)
	vibrateCheck.SetChecked(alarm.Vibrate)

	gradualCheck := widget.NewCheck("Ramp volume up gradually", nil)
	gradualCheck.SetChecked(alarm.GradualVolume)

	weatherCheck := widget.NewCheck("Include weather in announcement", nil)
	weatherCheck.SetChecked(alarm.WeatherAlert)

	snoozeCheck := widget.NewCheck("Allow snooze", nil)
	snoozeCheck.SetChecked(alarm.Snooze.Enabled)

	snoozeMinutesEntry := widget.NewEntry()
	snoozeMinutesEntry.SetText(fmt.Sprintf("%d", alarm.Snooze.Minutes))

	behaviorSelect := widget.NewSelect(
		[]string{"Repeat", "Shorten repeats", "Only once"}, nil)
	for label, behavior := range snoozeBehaviorLabels {
		if behavior == alarm.Snooze.Behavior {
			behaviorSelect.SetSelected(label)
		}
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Label", labelEntry),
		widget.NewFormItem("Time (HH:MM)", timeEntry),
		widget.NewFormItem("Date", dateEntry),
		widget.NewFormItem("Weekdays", dayRow),
		widget.NewFormItem("Sound", soundEntry),
		widget.NewFormItem("", vibrateCheck),
		widget.NewFormItem("", gradualCheck),
		widget.NewFormItem("", weatherCheck),
		widget.NewFormItem("", snoozeCheck),
		widget.NewFormItem("Snooze minutes", snoozeMinutesEntry),
		widget.NewFormItem("Snooze behavior", behaviorSelect),
	}

	dialog.ShowForm(title, "Save", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}

		var hour, minute int
		if _, err := fmt.Sscanf(timeEntry.Text, "%d:%d", &hour, &minute); err != nil {
			dialog.ShowError(fmt.Errorf("time must look like 07:00"), sw.window)
			return
		}
		alarm.Hour, alarm.Minute = hour, minute
		alarm.Label = labelEntry.Text
		alarm.Sound = soundEntry.Text
		alarm.Vibrate = vibrateCheck.Checked
		alarm.GradualVolume = gradualCheck.Checked
		alarm.WeatherAlert = weatherCheck.Checked
		alarm.Snooze.Enabled = snoozeCheck.Checked
		if behavior, ok := snoozeBehaviorLabels[behaviorSelect.Selected]; ok {
			alarm.Snooze.Behavior = behavior
		}
		fmt.Sscanf(snoozeMinutesEntry.Text, "%d", &alarm.Snooze.Minutes)

		if dateEntry.Text != "" {
			date, err := time.ParseInLocation("2006-01-02", dateEntry.Text, time.Local)
			if err != nil {
				dialog.ShowError(fmt.Errorf("date must look like 2026-01-31"), sw.window)
				return
			}
			alarm.Weekdays = nil
			alarm.FireAt = time.Date(date.Year(), date.Month(), date.Day(),
				hour, minute, 0, 0, time.Local)
		} else {
			alarm.FireAt = time.Time{}
			alarm.Weekdays = nil
			for i, check := range dayChecks {
				if check.Checked {
					alarm.Weekdays = append(alarm.Weekdays, dialogWeekdays[i])
				}
			}
		}

		if err := alarm.Validate(); err != nil {
			dialog.ShowError(err, sw.window)
			return
		}

		if err := sw.es.saveAndArm(alarm); err != nil {
			dialog.ShowError(err, sw.window)
			return
		}
		sw.es.updateSystemTrayMenu()
		sw.refreshAlarmsData()
	}, sw.window)
}

// sampleAlarm is what Test Ring uses when nothing is armed yet.
func sampleAlarm(userID string, snoozeMinutes int) *models.Alarm {
	return &models.Alarm{
		ID:      uuid.New().String(),
		UserID:  userID,
		Label:   "Sample alarm",
		Hour:    7,
		Minute:  0,
		Enabled: true,
		Sound:   audio.DefaultSoundID,
		Snooze: models.SnoozeConfig{
			Enabled:  true,
			Minutes:  snoozeMinutes,
			Behavior: models.SnoozeRepeat,
		},
		Weekdays: []time.Weekday{time.Monday},
	}
}
