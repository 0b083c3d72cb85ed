package main

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Pillangocska/EarlySpring/pkg/models"
)

func (sw *SettingsWindow) buildAlarmsTab() fyne.CanvasObject {
	sw.refreshAlarmsData()

	sw.alarmsList = widget.NewList(
		func() int {
			return len(sw.alarmsData)
		},
		func() fyne.CanvasObject {
			check := widget.NewCheck("", nil)
			label := widget.NewLabel("template")
			return container.NewBorder(nil, nil, check, nil, label)
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= len(sw.alarmsData) {
				return
			}
			alarm := sw.alarmsData[i]
			row := o.(*fyne.Container)
			check := row.Objects[0].(*widget.Check)
			label := row.Objects[1].(*widget.Label)

			check.OnChanged = nil
			check.SetChecked(alarm.Enabled)
			check.OnChanged = func(enabled bool) {
				sw.toggleAlarm(alarm.ID, enabled)
			}

			schedule := alarm.WeekdayLabel()
			if alarm.OneShot() {
				schedule = alarm.FireAt.Format("Jan 2")
			}
			label.SetText(fmt.Sprintf("%s  %s  %s",
				alarm.TimeOfDay(), schedule, truncateString(alarm.Label, 40)))
		})

	sw.alarmsList.OnSelected = func(id widget.ListItemID) {
		sw.selectedAlarm = id
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentAddIcon(), func() {
			sw.showAlarmDialog(nil)
		}),
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() {
			if alarm, ok := sw.selectedAlarmValue(); ok {
				sw.showAlarmDialog(alarm)
			}
		}),
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			sw.deleteSelectedAlarm()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.MediaPlayIcon(), func() {
			if alarm, ok := sw.selectedAlarmValue(); ok {
				go sw.es.pipeline.TriggerNow(alarm)
			}
		}),
	)

	return container.NewBorder(toolbar, nil, nil, nil, sw.alarmsList)
}

// refreshAlarmsData reloads the list from the store. Must run on the UI
// thread.
func (sw *SettingsWindow) refreshAlarmsData() {
	alarms, err := sw.es.store.GetAlarmsForUser(sw.es.profile.ID)
	if err != nil {
		log.Printf("Failed to load alarms: %v", err)
		return
	}
	sw.alarmsData = alarms
	sw.selectedAlarm = -1
	if sw.alarmsList != nil {
		sw.alarmsList.UnselectAll()
		sw.alarmsList.Refresh()
	}
}

func (sw *SettingsWindow) selectedAlarmValue() (*models.Alarm, bool) {
	if sw.selectedAlarm < 0 || sw.selectedAlarm >= len(sw.alarmsData) {
		dialog.ShowInformation("No Selection", "Select an alarm from the list first.", sw.window)
		return nil, false
	}
	return sw.alarmsData[sw.selectedAlarm], true
}

func (sw *SettingsWindow) toggleAlarm(id string, enabled bool) {
	if err := sw.es.store.UpdateAlarmEnabled(id, enabled); err != nil {
		log.Printf("Failed to toggle alarm %q: %v", id, err)
		return
	}
	if alarm, err := sw.es.store.GetAlarm(id); err == nil {
		sw.es.registry.Schedule(alarm)
	}
	sw.es.updateSystemTrayMenu()
	sw.refreshAlarmsData()
}

func (sw *SettingsWindow) deleteSelectedAlarm() {
	alarm, ok := sw.selectedAlarmValue()
	if !ok {
		return
	}
	dialog.ShowConfirm("Delete Alarm",
		fmt.Sprintf("Delete %q (%s)?", alarm.Label, alarm.TimeOfDay()),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := sw.es.deleteAlarm(alarm.ID); err != nil {
				dialog.ShowError(err, sw.window)
				return
			}
			sw.es.updateSystemTrayMenu()
			sw.refreshAlarmsData()
		}, sw.window)
}
