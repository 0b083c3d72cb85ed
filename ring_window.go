package main

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"golang.design/x/hotkey"

	"github.com/Pillangocska/EarlySpring/pkg/session"
	"github.com/Pillangocska/EarlySpring/pkg/ui/components"
)

// Present implements the ringing UI port: a fullscreen window that only
// goes away once the user confirms, snoozes, or taps ignore to exhaustion.
func (es *EarlySpring) Present(sess *session.Session) {
	rw := NewRingWindow(es.app, sess, es.sessions, es.config.HoldTimeSeconds)
	rw.Show()
}

type RingWindow struct {
	window   fyne.Window
	app      fyne.App
	sess     *session.Session
	sessions *session.Manager

	holdTimeSeconds int
	ignoreButton    *widget.Button
	cmdQHotkey      *hotkey.Hotkey
}

func NewRingWindow(app fyne.App, sess *session.Session, sessions *session.Manager, holdTimeSeconds int) *RingWindow {
	rw := &RingWindow{
		app:             app,
		sess:            sess,
		sessions:        sessions,
		holdTimeSeconds: holdTimeSeconds,
	}
	if rw.holdTimeSeconds <= 0 {
		rw.holdTimeSeconds = 3
	}

	// Create window and build UI on the main Fyne thread
	fyne.Do(func() {
		rw.window = app.NewWindow("Wake Up")
		rw.window.SetFullScreen(true)
		rw.buildUI()

		// Closing the window is not a way out of a ringing alarm
		rw.window.SetCloseIntercept(func() {
			if rw.sess.Terminal() {
				rw.window.Close()
			}
		})

		rw.registerCmdQPrevention()

		rw.window.SetOnClosed(func() {
			if rw.cmdQHotkey != nil {
				rw.cmdQHotkey.Unregister()
			}
		})
	})

	return rw
}

func (rw *RingWindow) buildUI() {
	label := rw.sess.Alarm.Label
	if label == "" {
		label = "Wake up!"
	}
	title := canvas.NewText(label, nil)
	title.TextSize = 42
	title.Alignment = fyne.TextAlignCenter

	timeLabel := widget.NewLabel(rw.sess.FiredAt.Format("Monday, 3:04 PM"))
	timeLabel.Alignment = fyne.TextAlignCenter

	wakeButton := components.NewHoldButton(
		fmt.Sprintf("I'm awake (hold %ds)", rw.holdTimeSeconds),
		time.Duration(rw.holdTimeSeconds)*time.Second,
		func() {
			rw.sessions.Confirm(rw.sess)
			rw.close()
		})

	buttonRow := container.NewHBox()
	if rw.sess.Alarm.Snooze.Enabled {
		snoozeButton := widget.NewButton(
			fmt.Sprintf("Snooze %dm", rw.sess.Alarm.Snooze.Minutes),
			func() {
				rw.sessions.Snooze(rw.sess)
				rw.close()
			})
		buttonRow.Add(snoozeButton)
	}

	rw.ignoreButton = widget.NewButton(
		ignoreLabel(rw.sess.TapsRemaining()),
		rw.onIgnoreTapped)
	buttonRow.Add(rw.ignoreButton)

	content := container.NewVBox(
		container.NewPadded(title),
		timeLabel,
		widget.NewSeparator(),
		container.NewCenter(wakeButton),
		widget.NewSeparator(),
		container.NewCenter(buttonRow),
	)

	rw.window.SetContent(container.NewPadded(container.NewCenter(content)))
}

func (rw *RingWindow) onIgnoreTapped() {
	remaining := rw.sessions.Ignore(rw.sess)
	if remaining > 0 {
		rw.ignoreButton.SetText(ignoreLabel(remaining))
		return
	}
	rw.close()
}

func ignoreLabel(taps int) string {
	return fmt.Sprintf("Ignore (%d taps left)", taps)
}

// close tears the window down from any goroutine.
func (rw *RingWindow) close() {
	fyne.Do(func() {
		if rw.window != nil {
			rw.window.Close()
		}
	})
}

func (rw *RingWindow) Show() {
	fyne.Do(func() {
		if rw.window != nil {
			rw.window.Show()
		}
	})
}

// registerCmdQPrevention swallows Cmd+Q while the ring window is up so the
// app can't be quit to dodge the alarm.
func (rw *RingWindow) registerCmdQPrevention() {
	go func() {
		hk := hotkey.New([]hotkey.Modifier{hotkey.ModCmd}, hotkey.KeyQ)
		if err := hk.Register(); err != nil {
			log.Printf("Failed to register Cmd+Q guard: %v", err)
			return
		}
		rw.cmdQHotkey = hk

		for range hk.Keydown() {
			log.Println("Cmd+Q blocked while an alarm is ringing")
		}
	}()
}
