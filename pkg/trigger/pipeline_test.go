package trigger

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Pillangocska/EarlySpring/pkg/models"
	"github.com/Pillangocska/EarlySpring/pkg/session"
)

type stubAudio struct {
	played  []string
	gradual bool
	fail    bool
}

type stubHandle struct{}

func (stubHandle) Stop() {}

func (s *stubAudio) Play(soundID string, gradual bool) session.AudioHandle {
	s.played = append(s.played, soundID)
	s.gradual = gradual
	if s.fail {
		return nil
	}
	return stubHandle{}
}

type stubVibrator struct {
	available bool
	started   int
}

func (s *stubVibrator) Available() bool { return s.available }
func (s *stubVibrator) Start()          { s.started++ }

type stubNotifier struct {
	granted  bool
	notified []string
}

func (s *stubNotifier) RequestPermission() bool { return s.granted }
func (s *stubNotifier) Notify(alarmID, title, body string) {
	s.notified = append(s.notified, alarmID)
}

type stubAnnouncer struct {
	mu     sync.Mutex
	spoken []string
	err    error
	done   chan struct{}
}

func (s *stubAnnouncer) Available() bool { return true }
func (s *stubAnnouncer) Speak(text string) error {
	s.mu.Lock()
	s.spoken = append(s.spoken, text)
	s.mu.Unlock()
	if s.done != nil {
		close(s.done)
	}
	return s.err
}

type stubWeather struct {
	summary string
	err     error
}

func (s *stubWeather) CurrentSummary() (string, error) { return s.summary, s.err }

type stubPresenter struct {
	presented []*session.Session
}

func (s *stubPresenter) Present(sess *session.Session) {
	s.presented = append(s.presented, sess)
}

type stubRearmer struct {
	scheduled []string
}

func (s *stubRearmer) Schedule(alarm *models.Alarm) {
	s.scheduled = append(s.scheduled, alarm.ID)
}

func firedAlarm() *models.Alarm {
	return &models.Alarm{
		ID:           "a1",
		UserID:       "u1",
		Label:        "wake up",
		Sound:        "chime",
		Vibrate:      true,
		Enabled:      true,
		Weekdays:     []time.Weekday{time.Monday},
		WeatherAlert: true,
	}
}

func newTestPipeline() (*Pipeline, *stubAudio, *stubVibrator, *stubNotifier, *stubAnnouncer, *stubPresenter, *stubRearmer) {
	audio := &stubAudio{}
	vib := &stubVibrator{available: true}
	notif := &stubNotifier{granted: true}
	ann := &stubAnnouncer{done: make(chan struct{})}
	pres := &stubPresenter{}
	rearm := &stubRearmer{}
	p := &Pipeline{
		Audio:     audio,
		Vibration: vib,
		Notifier:  notif,
		Announcer: ann,
		Weather:   &stubWeather{summary: "Sunny, 21 degrees"},
		Presenter: pres,
		Rearmer:   rearm,
		Sessions:  session.NewManager(nil, nil, nil),
	}
	return p, audio, vib, notif, ann, pres, rearm
}

func waitAnnounced(t *testing.T, ann *stubAnnouncer) {
	t.Helper()
	select {
	case <-ann.done:
	case <-time.After(2 * time.Second):
		t.Fatal("announcement never happened")
	}
}

func TestFireDrivesAllChannels(t *testing.T) {
	p, audio, vib, notif, ann, pres, rearm := newTestPipeline()

	p.Fire(firedAlarm(), time.Now())
	waitAnnounced(t, ann)

	if len(audio.played) != 1 || audio.played[0] != "chime" {
		t.Fatalf("audio played %v", audio.played)
	}
	if vib.started != 1 {
		t.Fatalf("vibration started %d times", vib.started)
	}
	if len(notif.notified) != 1 {
		t.Fatalf("notified %v", notif.notified)
	}
	if len(pres.presented) != 1 {
		t.Fatal("presenter not invoked")
	}
	if pres.presented[0].State() != session.StateRinging {
		t.Fatal("presented session not ringing")
	}
	if len(rearm.scheduled) != 1 || rearm.scheduled[0] != "a1" {
		t.Fatalf("rearm scheduled %v", rearm.scheduled)
	}
	if ann.spoken[0] != "wake up. Sunny, 21 degrees" {
		t.Fatalf("spoken %q", ann.spoken[0])
	}
}

func TestFireRearmsBeforeReturning(t *testing.T) {
	p, _, _, _, _, _, rearm := newTestPipeline()
	p.Announcer = nil

	// Fire returns only after the next recurrence is armed, so a terminal
	// transition processed right after the fire callback still finds the
	// future occurrence in place.
	p.Fire(firedAlarm(), time.Now())
	if len(rearm.scheduled) != 1 {
		t.Fatal("Fire returned before re-arming the next occurrence")
	}
}

func TestTriggerNowSkipsRearm(t *testing.T) {
	p, _, _, _, ann, pres, rearm := newTestPipeline()

	p.TriggerNow(firedAlarm())
	waitAnnounced(t, ann)

	if len(rearm.scheduled) != 0 {
		t.Fatal("manual trigger re-armed the occurrence")
	}
	if len(pres.presented) != 1 {
		t.Fatal("manual trigger skipped the presenter")
	}
}

func TestDeniedPermissionSkipsNotificationOnly(t *testing.T) {
	p, audio, _, notif, ann, pres, _ := newTestPipeline()
	notif.granted = false

	p.Fire(firedAlarm(), time.Now())
	waitAnnounced(t, ann)

	if len(notif.notified) != 0 {
		t.Fatal("notified despite denied permission")
	}
	if len(audio.played) != 1 || len(pres.presented) != 1 {
		t.Fatal("denied permission blocked other channels")
	}
}

func TestAudioFailureDoesNotBlockOthers(t *testing.T) {
	p, audio, _, notif, ann, pres, rearm := newTestPipeline()
	audio.fail = true

	p.Fire(firedAlarm(), time.Now())
	waitAnnounced(t, ann)

	if len(notif.notified) != 1 || len(pres.presented) != 1 || len(rearm.scheduled) != 1 {
		t.Fatal("audio failure blocked other channels")
	}
}

func TestVibrationRespectsCapabilityAndFlag(t *testing.T) {
	p, _, vib, _, _, _, _ := newTestPipeline()
	p.Announcer = nil
	vib.available = false

	p.Fire(firedAlarm(), time.Now())
	if vib.started != 0 {
		t.Fatal("vibrated without capability")
	}

	vib.available = true
	alarm := firedAlarm()
	alarm.Vibrate = false
	p.Fire(alarm, time.Now())
	if vib.started != 0 {
		t.Fatal("vibrated with vibrate flag off")
	}
}

func TestAnnouncementWithoutWeather(t *testing.T) {
	tests := []struct {
		name    string
		weather WeatherProvider
		alarm   func() *models.Alarm
		want    string
	}{{
		name:    "weather fetch fails",
		weather: &stubWeather{err: errors.New("offline")},
		alarm:   firedAlarm,
		want:    "wake up",
	}, {
		name:    "weather empty",
		weather: &stubWeather{},
		alarm:   firedAlarm,
		want:    "wake up",
	}, {
		name:    "weather alert disabled",
		weather: &stubWeather{summary: "Rainy"},
		alarm: func() *models.Alarm {
			a := firedAlarm()
			a.WeatherAlert = false
			return a
		},
		want: "wake up",
	}, {
		name:    "unlabelled alarm",
		weather: &stubWeather{},
		alarm: func() *models.Alarm {
			a := firedAlarm()
			a.Label = ""
			return a
		},
		want: "Alarm",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _, _, ann, _, _ := newTestPipeline()
			ann.done = make(chan struct{})
			p.Weather = tt.weather

			p.Fire(tt.alarm(), time.Now())
			waitAnnounced(t, ann)

			if got := ann.spoken[0]; got != tt.want {
				t.Fatalf("spoken %q, want %q", got, tt.want)
			}
		})
	}
}

// Speech failure is logged and the already-ringing session survives.
func TestAnnouncementFailureDegradesSilently(t *testing.T) {
	p, _, _, _, ann, pres, _ := newTestPipeline()
	ann.err = errors.New("no voice")

	p.Fire(firedAlarm(), time.Now())
	waitAnnounced(t, ann)

	sess := pres.presented[0]
	if sess.Terminal() {
		t.Fatal("speech failure ended the session")
	}
}
