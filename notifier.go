package main

import (
	"fyne.io/fyne/v2"
)

// fyneNotifier posts alarm notifications through the Fyne app. Desktop
// notifications need no runtime permission, so RequestPermission always
// grants; mobile drivers would gate here.
type fyneNotifier struct {
	app fyne.App
}

func newFyneNotifier(app fyne.App) *fyneNotifier {
	return &fyneNotifier{app: app}
}

func (n *fyneNotifier) RequestPermission() bool { return true }

func (n *fyneNotifier) Notify(alarmID, title, body string) {
	if title == "" {
		title = "Alarm"
	}
	n.app.SendNotification(fyne.NewNotification(title, body))
}
