package main

import (
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/Pillangocska/EarlySpring/pkg/models"
)

type SettingsWindow struct {
	window fyne.Window
	es     *EarlySpring

	// General tab
	autoStartCheck      *widget.Check
	profileNameEntry    *widget.Entry
	holdTimeSelect      *widget.Select
	snoozeMinutesSelect *widget.Select
	weatherCheck        *widget.Check
	weatherURLEntry     *widget.Entry
	calendarURLEntry    *widget.Entry

	// Alarms tab
	alarmsList    *widget.List
	alarmsData    []*models.Alarm
	selectedAlarm int

	// UI state
	hasUnsavedChanges bool
	saveStatusLabel   *widget.Label
	saveButton        *widget.Button
}

func NewSettingsWindow(es *EarlySpring) *SettingsWindow {
	sw := &SettingsWindow{
		es:            es,
		selectedAlarm: -1,
	}

	sw.window = es.app.NewWindow("EarlySpring - Settings")
	sw.buildUI()

	return sw
}

func (sw *SettingsWindow) buildUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("Alarms", sw.buildAlarmsTab()),
		container.NewTabItem("General", sw.buildGeneralTab()),
	)

	sw.saveStatusLabel = widget.NewLabel("")
	sw.saveStatusLabel.Importance = widget.SuccessImportance

	sw.saveButton = widget.NewButton("Save", func() {
		sw.saveGeneralSettings()
	})
	sw.saveButton.Importance = widget.HighImportance
	sw.saveButton.Disable() // Initially disabled until changes are made

	testButton := widget.NewButton("Test Ring", func() {
		go sw.es.testRing()
	})

	closeButton := widget.NewButton("Close", func() {
		sw.window.Close()
	})

	leftButtons := container.NewHBox(
		sw.saveButton,
		sw.saveStatusLabel,
	)
	rightButtons := container.NewHBox(
		testButton,
		closeButton,
	)

	buttonRow := container.NewBorder(
		nil,
		nil,
		leftButtons,
		rightButtons,
		container.NewHBox(),
	)

	content := container.NewBorder(
		nil,
		container.NewPadded(buttonRow),
		nil,
		nil,
		tabs,
	)

	sw.window.SetContent(content)
	sw.window.Resize(fyne.NewSize(760, 560))
	sw.window.CenterOnScreen()
}

// saveGeneralSettings persists the General tab and rewires the parts of the
// running app the new settings affect. Alarm edits persist immediately and
// do not go through here.
func (sw *SettingsWindow) saveGeneralSettings() {
	sw.saveButton.Disable()
	sw.saveStatusLabel.SetText("Saving...")
	sw.saveStatusLabel.Importance = widget.MediumImportance
	sw.saveStatusLabel.Refresh()

	newConfig := sw.getConfigFromUI()
	go func() {
		if err := setupAutostart(newConfig.AutoStart); err != nil {
			log.Printf("Error setting autostart: %v", err)
			fyne.Do(func() {
				sw.saveStatusLabel.SetText("Error: Failed to set autostart")
				sw.saveStatusLabel.Importance = widget.DangerImportance
				sw.saveStatusLabel.Refresh()
				sw.updateSaveButtonState()
			})
			return
		}

		sw.es.config = newConfig
		sw.es.configStore.Save(newConfig)
		sw.es.applyConfig(newConfig)

		fyne.Do(func() {
			sw.hasUnsavedChanges = false
			sw.saveStatusLabel.SetText("Settings saved")
			sw.saveStatusLabel.Importance = widget.SuccessImportance
			sw.saveStatusLabel.Refresh()
			sw.updateSaveButtonState()

			// Clear the confirmation after a few seconds
			go func() {
				time.Sleep(3 * time.Second)
				fyne.Do(func() {
					if sw.saveStatusLabel.Text == "Settings saved" {
						sw.saveStatusLabel.SetText("")
						sw.saveStatusLabel.Refresh()
					}
				})
			}()
		})
	}()
}

func (sw *SettingsWindow) getConfigFromUI() *models.Config {
	return &models.Config{
		AutoStart:            sw.autoStartCheck.Checked,
		ProfileName:          sw.profileNameEntry.Text,
		HoldTimeSeconds:      parseSelectMinutes(sw.holdTimeSelect.Selected, 3),
		DefaultSnoozeMinutes: parseSelectMinutes(sw.snoozeMinutesSelect.Selected, 10),
		WeatherEnabled:       sw.weatherCheck.Checked,
		WeatherURL:           sw.weatherURLEntry.Text,
		CalendarURL:          sw.calendarURLEntry.Text,
	}
}

func (sw *SettingsWindow) Show() {
	sw.window.Show()
}

// markChanged marks the config as having unsaved changes
func (sw *SettingsWindow) markChanged() {
	sw.hasUnsavedChanges = true
	sw.updateSaveButtonState()
}

func (sw *SettingsWindow) updateSaveButtonState() {
	if sw.saveButton == nil {
		return
	}
	if sw.hasUnsavedChanges {
		sw.saveButton.Enable()
	} else {
		sw.saveButton.Disable()
	}
}
