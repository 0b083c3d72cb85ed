package main

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/Pillangocska/EarlySpring/pkg/calendar"
	"github.com/Pillangocska/EarlySpring/pkg/models"
)

func (sw *SettingsWindow) buildGeneralTab() fyne.CanvasObject {
	config := sw.es.config

	sw.profileNameEntry = widget.NewEntry()
	sw.profileNameEntry.SetText(config.ProfileName)
	sw.profileNameEntry.OnChanged = func(string) { sw.markChanged() }

	sw.autoStartCheck = widget.NewCheck("Start on System Boot", func(bool) {
		sw.markChanged()
	})
	sw.autoStartCheck.SetChecked(config.AutoStart)

	sw.holdTimeSelect = widget.NewSelect(
		[]string{"2 sec", "3 sec", "5 sec", "10 sec"},
		func(string) { sw.markChanged() })
	sw.holdTimeSelect.SetSelected(fmt.Sprintf("%d sec", config.HoldTimeSeconds))

	sw.snoozeMinutesSelect = widget.NewSelect(
		[]string{"5 min", "10 min", "15 min", "20 min", "30 min"},
		func(string) { sw.markChanged() })
	sw.snoozeMinutesSelect.SetSelected(fmt.Sprintf("%d min", config.DefaultSnoozeMinutes))

	sw.weatherCheck = widget.NewCheck("Speak the weather after the alarm label", func(bool) {
		sw.markChanged()
	})
	sw.weatherCheck.SetChecked(config.WeatherEnabled)

	sw.weatherURLEntry = widget.NewEntry()
	sw.weatherURLEntry.SetText(config.WeatherURL)
	sw.weatherURLEntry.OnChanged = func(string) { sw.markChanged() }

	sw.calendarURLEntry = widget.NewEntry()
	sw.calendarURLEntry.SetPlaceHolder("https://example.com/schedule.ics")
	sw.calendarURLEntry.SetText(config.CalendarURL)
	sw.calendarURLEntry.OnChanged = func(string) { sw.markChanged() }

	importButton := widget.NewButton("Import Alarms from Calendar", func() {
		sw.importCalendar()
	})

	holdHelp := widget.NewLabel("How long the wake-up button must be held")
	holdHelp.Importance = widget.MediumImportance

	calendarHelp := widget.NewLabel("Weekly events become weekly alarms, one-off events become one-shot alarms")
	calendarHelp.Wrapping = fyne.TextWrapWord
	calendarHelp.Importance = widget.MediumImportance

	form := container.New(layout.NewFormLayout(),
		widget.NewLabel("Profile Name:"),
		sw.profileNameEntry,

		widget.NewLabel("Auto Start:"),
		sw.autoStartCheck,

		container.NewVBox(widget.NewLabel("Wake Hold Time:"), holdHelp),
		sw.holdTimeSelect,

		widget.NewLabel("Default Snooze:"),
		sw.snoozeMinutesSelect,

		widget.NewLabel("Weather:"),
		container.NewVBox(sw.weatherCheck, sw.weatherURLEntry),

		container.NewVBox(widget.NewLabel("Calendar URL:"), calendarHelp),
		container.NewVBox(sw.calendarURLEntry, importButton),
	)

	content := container.NewVBox(
		widget.NewLabel("General Settings"),
		widget.NewSeparator(),
		form,
		widget.NewSeparator(),
		sw.buildHealthSummary(),
	)

	return container.NewPadded(container.NewVScroll(content))
}

// buildHealthSummary renders the plant's current state. Confirming alarms
// on time grows it, snoozing and ignoring wilt it.
func (sw *SettingsWindow) buildHealthSummary() fyne.CanvasObject {
	profile, err := sw.es.store.GetProfile(sw.es.profile.ID)
	if err != nil {
		log.Printf("Failed to load profile for health display: %v", err)
		profile = sw.es.profile
	}

	summary := widget.NewLabel(fmt.Sprintf(
		"Plant health: %d/100 (level %d of 5)", profile.Health, profile.Level))
	summary.Importance = widget.MediumImportance
	return summary
}

// importCalendar fetches the configured iCal feed and stores every event
// that maps to an alarm, then re-arms the whole table.
func (sw *SettingsWindow) importCalendar() {
	url := sw.calendarURLEntry.Text
	if url == "" {
		dialog.ShowInformation("No Calendar", "Set a calendar URL first.", sw.window)
		return
	}

	defaults := models.SnoozeConfig{
		Enabled:  true,
		Minutes:  parseSelectMinutes(sw.snoozeMinutesSelect.Selected, 10),
		Behavior: models.SnoozeRepeat,
	}

	go func() {
		alarms, err := calendar.FetchAlarms(url, sw.es.profile.ID, defaults)
		if err != nil {
			fyne.Do(func() {
				dialog.ShowError(err, sw.window)
			})
			return
		}

		saved := 0
		for _, alarm := range alarms {
			if err := sw.es.store.SaveAlarm(alarm); err != nil {
				log.Printf("Failed to save imported alarm %q: %v", alarm.Label, err)
				continue
			}
			saved++
		}

		if err := sw.es.rescheduleFromStore(); err != nil {
			log.Printf("Failed to re-arm after import: %v", err)
		}
		sw.es.updateSystemTrayMenu()

		fyne.Do(func() {
			sw.refreshAlarmsData()
			dialog.ShowInformation("Calendar Import",
				fmt.Sprintf("Imported %d alarms.", saved), sw.window)
		})
	}()
}

// parseSelectMinutes parses select values like "10 min" or "3 sec" down to
// their leading number.
func parseSelectMinutes(selected string, fallback int) int {
	var val int
	if _, err := fmt.Sscanf(selected, "%d", &val); err != nil || val <= 0 {
		return fallback
	}
	return val
}
