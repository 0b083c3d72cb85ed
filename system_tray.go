package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

func (es *EarlySpring) setupSystemTray() {
	es.updateSystemTrayMenu()
}

func (es *EarlySpring) updateSystemTrayMenu() {
	desk, ok := es.app.(desktop.App)
	if !ok {
		return
	}

	menuItems := []*fyne.MenuItem{}

	// Plant health at the top
	if profile, err := es.store.GetProfile(es.profile.ID); err == nil {
		healthItem := fyne.NewMenuItem(
			fmt.Sprintf("Plant health: %d (level %d/5)", profile.Health, profile.Level), nil)
		healthItem.Disabled = true
		menuItems = append(menuItems, healthItem, fyne.NewMenuItemSeparator())
	}

	// Next few armed alarms
	upcoming := es.registry.Pending()
	if len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Next alarms:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		limit := 5
		if len(upcoming) < limit {
			limit = len(upcoming)
		}
		for _, occ := range upcoming[:limit] {
			alarmText := fmt.Sprintf("  %s - %s",
				formatFireTime(occ.At),
				truncateString(occ.Alarm().Label, 35))
			alarmItem := fyne.NewMenuItem(alarmText, nil)
			alarmItem.Disabled = true
			menuItems = append(menuItems, alarmItem)
		}
		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Settings", func() {
			es.showSettingsWindow()
		}),
		fyne.NewMenuItem("Test Ring", func() {
			go es.testRing()
		}),
	)

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() {
		es.quit()
	}))

	menu := fyne.NewMenu("EarlySpring", menuItems...)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.HistoryIcon())
}

// testRing fires the soonest armed alarm's effects immediately, without
// touching its scheduled occurrence. With nothing armed it rings a sample.
func (es *EarlySpring) testRing() {
	if upcoming := es.registry.Pending(); len(upcoming) > 0 {
		es.pipeline.TriggerNow(upcoming[0].Alarm())
		return
	}
	es.pipeline.TriggerNow(sampleAlarm(es.profile.ID, es.config.DefaultSnoozeMinutes))
}

// formatFireTime renders today's alarms as a bare clock time and later ones
// with their weekday.
func formatFireTime(at time.Time) string {
	now := time.Now()
	if at.Year() == now.Year() && at.YearDay() == now.YearDay() {
		return at.Format("3:04 PM")
	}
	return at.Format("Mon 3:04 PM")
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
