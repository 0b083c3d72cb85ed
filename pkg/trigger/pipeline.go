// Package trigger orchestrates what happens the moment an alarm fires:
// sound, vibration, a system notification, the ringing UI, re-arming the
// next recurrence, and the spoken announcement. Every channel is
// best-effort and independent; one failing never blocks the others.
package trigger

import (
	"log"
	"time"

	"github.com/Pillangocska/EarlySpring/pkg/models"
	"github.com/Pillangocska/EarlySpring/pkg/session"
)

// AudioPort resolves and loops an alarm sound. Implementations return nil
// when the audio device is unavailable; the session rings on regardless.
type AudioPort interface {
	Play(soundID string, gradual bool) session.AudioHandle
}

// VibratorPort drives the platform vibration capability, if any.
type VibratorPort interface {
	Available() bool
	Start()
}

// Notifier posts a system notification for a fired alarm. Denied
// permission degrades to skipping the notification, never to failure.
type Notifier interface {
	RequestPermission() bool
	Notify(alarmID, title, body string)
}

// Announcer speaks the alarm announcement.
type Announcer interface {
	Available() bool
	Speak(text string) error
}

// WeatherProvider supplies the one-line weather summary spoken after the
// alarm label.
type WeatherProvider interface {
	CurrentSummary() (string, error)
}

// Presenter shows the ringing UI. Present is invoked synchronously before
// any slower pipeline step so the user sees the alarm immediately.
type Presenter interface {
	Present(sess *session.Session)
}

// Rearmer arms the alarm's next recurrence; satisfied by *sched.Registry.
type Rearmer interface {
	Schedule(*models.Alarm)
}

// Pipeline wires the trigger-time ports together. Fields left nil simply
// skip their channel.
type Pipeline struct {
	Audio     AudioPort
	Vibration VibratorPort
	Notifier  Notifier
	Announcer Announcer
	Weather   WeatherProvider
	Presenter Presenter
	Rearmer   Rearmer
	Sessions  *session.Manager
}

// Fire handles a scheduler expiry: run all trigger effects, then arm the
// alarm's next recurrence before returning, so the future firing never
// depends on how the user resolves this session.
func (p *Pipeline) Fire(alarm *models.Alarm, at time.Time) {
	p.fire(alarm, at, true)
}

// TriggerNow fires the alarm's effects immediately without consuming or
// re-arming its scheduled occurrence. Used by the "test ring" action.
func (p *Pipeline) TriggerNow(alarm *models.Alarm) {
	p.fire(alarm, time.Now(), false)
}

func (p *Pipeline) fire(alarm *models.Alarm, at time.Time, rearm bool) {
	log.Printf("Alarm %q (%s) fired at %s", alarm.ID, alarm.Label, at.Format("15:04:05"))

	var handle session.AudioHandle
	if p.Audio != nil {
		handle = p.Audio.Play(alarm.Sound, alarm.GradualVolume)
	}

	if alarm.Vibrate && p.Vibration != nil && p.Vibration.Available() {
		p.Vibration.Start()
	}

	if p.Notifier != nil {
		if p.Notifier.RequestPermission() {
			p.Notifier.Notify(alarm.ID, alarm.Label, "Alarm for "+at.Format("15:04"))
		} else {
			log.Printf("Notification permission denied, skipping notification for alarm %q", alarm.ID)
		}
	}

	sess := p.Sessions.Begin(alarm, handle)

	// The ringing UI must appear before any slower step resolves.
	if p.Presenter != nil {
		p.Presenter.Present(sess)
	}

	if rearm && p.Rearmer != nil {
		p.Rearmer.Schedule(alarm)
	}

	go p.announce(alarm)
}

// announce composes and speaks the announcement: the label, optionally
// followed by the weather summary. Runs asynchronously; every failure here
// degrades silently while the session keeps ringing.
func (p *Pipeline) announce(alarm *models.Alarm) {
	if p.Announcer == nil || !p.Announcer.Available() {
		return
	}

	text := alarm.Label
	if text == "" {
		text = "Alarm"
	}

	if alarm.WeatherAlert && p.Weather != nil {
		summary, err := p.Weather.CurrentSummary()
		switch {
		case err != nil:
			log.Printf("Weather summary unavailable: %v", err)
		case summary != "":
			text += ". " + summary
		}
	}

	if err := p.Announcer.Speak(text); err != nil {
		log.Printf("Announcement failed: %v", err)
	}
}
