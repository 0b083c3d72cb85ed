package session

import (
	"errors"
	"testing"
	"time"

	"github.com/Pillangocska/EarlySpring/pkg/models"
)

type fakeScores struct {
	health int
	deltas []int
	err    error
}

func (f *fakeScores) AdjustHealth(userID string, delta int) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deltas = append(f.deltas, delta)
	f.health = models.ClampHealth(f.health + delta)
	return &models.Profile{
		ID:     userID,
		Health: f.health,
		Level:  models.HealthLevel(f.health),
	}, nil
}

type fakeScheduler struct {
	scheduled []*models.Alarm
}

func (f *fakeScheduler) Schedule(alarm *models.Alarm) {
	f.scheduled = append(f.scheduled, alarm)
}

type fakeAudio struct {
	stopped int
}

func (f *fakeAudio) Stop() { f.stopped++ }

var refNow = time.Date(2025, 6, 2, 7, 0, 0, 0, time.Local)

func newTestManager(scores *fakeScores, scheduler *fakeScheduler) *Manager {
	m := NewManager(scores, scheduler, nil)
	m.Now = func() time.Time { return refNow }
	return m
}

func ringingAlarm() *models.Alarm {
	return &models.Alarm{
		ID:      "a1",
		UserID:  "u1",
		Label:   "wake up",
		Hour:    7,
		Enabled: true,
		Snooze: models.SnoozeConfig{
			Enabled:  true,
			Minutes:  10,
			Behavior: models.SnoozeRepeat,
		},
	}
}

func TestConfirm(t *testing.T) {
	scores := &fakeScores{health: 70}
	sched := &fakeScheduler{}
	m := newTestManager(scores, sched)

	audio := &fakeAudio{}
	sess := m.Begin(ringingAlarm(), audio)

	m.Confirm(sess)

	if audio.stopped != 1 {
		t.Fatalf("audio stopped %d times, want 1", audio.stopped)
	}
	if scores.health != 80 {
		t.Fatalf("health = %d, want 80", scores.health)
	}
	if got := models.HealthLevel(scores.health); got != 4 {
		t.Fatalf("level = %d, want 4", got)
	}
	if !sess.Terminal() || sess.State() != StateConfirmed {
		t.Fatalf("session not terminal confirmed: %s", sess.State())
	}
	if len(sched.scheduled) != 0 {
		t.Fatal("confirm armed an extra one-shot")
	}
	if _, ok := m.Active("a1"); ok {
		t.Fatal("confirmed session still tracked")
	}
}

func TestConfirmIdempotent(t *testing.T) {
	scores := &fakeScores{health: 70}
	m := newTestManager(scores, &fakeScheduler{})

	sess := m.Begin(ringingAlarm(), nil)
	m.Confirm(sess)
	m.Confirm(sess)
	m.Snooze(sess)
	m.Ignore(sess)

	if len(scores.deltas) != 1 {
		t.Fatalf("applied %d deltas, want exactly 1", len(scores.deltas))
	}
}

func TestSnooze(t *testing.T) {
	scores := &fakeScores{health: 50}
	sched := &fakeScheduler{}
	m := newTestManager(scores, sched)

	sess := m.Begin(ringingAlarm(), &fakeAudio{})
	m.Snooze(sess)

	if scores.health != 45 {
		t.Fatalf("health = %d, want 45", scores.health)
	}
	if len(sched.scheduled) != 1 {
		t.Fatalf("scheduled %d alarms, want 1", len(sched.scheduled))
	}

	snoozed := sched.scheduled[0]
	if !snoozed.OneShot() {
		t.Fatal("snoozed copy is not a one-shot")
	}
	if want := refNow.Add(10 * time.Minute); !snoozed.FireAt.Equal(want) {
		t.Fatalf("snoozed copy fires at %v, want %v", snoozed.FireAt, want)
	}
	if snoozed.Label != "wake up (snoozed)" {
		t.Fatalf("snoozed label %q", snoozed.Label)
	}
	if snoozed.ID == "a1" {
		t.Fatal("snoozed copy reused the original alarm id")
	}
	if sess.State() != StateSnoozed || !sess.Terminal() {
		t.Fatal("session not terminal snoozed")
	}
}

func TestSnoozeShortenSequence(t *testing.T) {
	scores := &fakeScores{health: 100}
	sched := &fakeScheduler{}
	m := newTestManager(scores, sched)

	alarm := ringingAlarm()
	alarm.Snooze.Behavior = models.SnoozeRepeatShorten

	// Snooze the alarm, then keep snoozing each spawned copy. Durations
	// must walk 10 → 8 → 6 → 4 → 3 → 2 → 1 and then hold at 1.
	want := []int{10, 8, 6, 4, 3, 2, 1, 1, 1}
	current := alarm
	for i, minutes := range want {
		if current.Snooze.Minutes != minutes {
			t.Fatalf("step %d: duration %d, want %d", i, current.Snooze.Minutes, minutes)
		}
		sess := m.Begin(current, nil)
		m.Snooze(sess)
		current = sched.scheduled[len(sched.scheduled)-1]
	}
}

func TestSnoozeOnceDisablesFurtherSnooze(t *testing.T) {
	sched := &fakeScheduler{}
	m := newTestManager(&fakeScores{health: 50}, sched)

	alarm := ringingAlarm()
	alarm.Snooze.Behavior = models.SnoozeOnce
	m.Snooze(m.Begin(alarm, nil))

	snoozed := sched.scheduled[0]
	if snoozed.Snooze.Enabled {
		t.Fatal("once-snoozed copy can snooze again")
	}

	// The copy's own session refuses to snooze.
	sess := m.Begin(snoozed, nil)
	m.Snooze(sess)
	if sess.Terminal() {
		t.Fatal("snooze-disabled session transitioned")
	}
	if len(sched.scheduled) != 1 {
		t.Fatal("snooze-disabled session spawned a copy")
	}
}

func TestIgnoreAttrition(t *testing.T) {
	scores := &fakeScores{health: 50}
	sched := &fakeScheduler{}
	m := newTestManager(scores, sched)

	audio := &fakeAudio{}
	sess := m.Begin(ringingAlarm(), audio)

	for i := 0; i < IgnoreTapThreshold-1; i++ {
		remaining := m.Ignore(sess)
		if remaining != IgnoreTapThreshold-1-i {
			t.Fatalf("tap %d: remaining %d", i+1, remaining)
		}
		if sess.Terminal() {
			t.Fatalf("session terminal after %d taps", i+1)
		}
		if len(scores.deltas) != 0 {
			t.Fatalf("delta applied after %d taps", i+1)
		}
	}

	if remaining := m.Ignore(sess); remaining != 0 {
		t.Fatalf("final tap left %d remaining", remaining)
	}
	if scores.health != 40 {
		t.Fatalf("health = %d, want 40", scores.health)
	}
	if sess.State() != StateIgnored || audio.stopped != 1 {
		t.Fatal("final tap did not silence and terminate the session")
	}
	if len(sched.scheduled) != 0 {
		t.Fatal("ignore armed an extra one-shot")
	}

	// Further taps on the destroyed session are no-ops.
	m.Ignore(sess)
	m.Ignore(sess)
	if len(scores.deltas) != 1 {
		t.Fatalf("applied %d deltas, want exactly 1", len(scores.deltas))
	}
}

func TestHealthClampedAtBounds(t *testing.T) {
	scores := &fakeScores{health: 95}
	m := newTestManager(scores, &fakeScheduler{})

	m.Confirm(m.Begin(ringingAlarm(), nil))
	if scores.health != 100 {
		t.Fatalf("health = %d, want clamp at 100", scores.health)
	}

	scores.health = 5
	sess := m.Begin(ringingAlarm(), nil)
	for i := 0; i < IgnoreTapThreshold; i++ {
		m.Ignore(sess)
	}
	if scores.health != 0 {
		t.Fatalf("health = %d, want clamp at 0", scores.health)
	}
}

func TestScoreFailureDoesNotBlockTransition(t *testing.T) {
	scores := &fakeScores{err: errors.New("db down")}
	m := newTestManager(scores, &fakeScheduler{})

	var warned error
	m.OnScoreWarning = func(err error) { warned = err }

	sess := m.Begin(ringingAlarm(), &fakeAudio{})
	m.Confirm(sess)

	if !sess.Terminal() {
		t.Fatal("score failure blocked the local transition")
	}
	if warned == nil {
		t.Fatal("score failure was not surfaced")
	}
}

func TestFreshFiringReplacesSession(t *testing.T) {
	scores := &fakeScores{health: 50}
	m := newTestManager(scores, &fakeScheduler{})

	audio1 := &fakeAudio{}
	old := m.Begin(ringingAlarm(), audio1)
	fresh := m.Begin(ringingAlarm(), &fakeAudio{})

	if audio1.stopped != 1 {
		t.Fatal("replaced session kept ringing")
	}
	if !old.Terminal() {
		t.Fatal("replaced session not destroyed")
	}
	if len(scores.deltas) != 0 {
		t.Fatal("replacement applied a score delta")
	}

	// The stale handle can't affect the score either.
	m.Confirm(old)
	if len(scores.deltas) != 0 {
		t.Fatal("stale session applied a delta")
	}
	m.Confirm(fresh)
	if len(scores.deltas) != 1 {
		t.Fatal("fresh session delta missing")
	}
}
