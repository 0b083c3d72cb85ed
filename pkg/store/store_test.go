package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Pillangocska/EarlySpring/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testAlarm(id string) *models.Alarm {
	return &models.Alarm{
		ID:       id,
		UserID:   "u1",
		Label:    "wake up",
		Hour:     7,
		Minute:   30,
		Weekdays: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		Enabled:  true,
		Sound:    "chime",
		Vibrate:  true,
		Snooze: models.SnoozeConfig{
			Enabled:  true,
			Minutes:  10,
			Behavior: models.SnoozeRepeatShorten,
		},
		WeatherAlert: true,
	}
}

// --- Alarm tests ---

func TestSaveAndGetAlarm(t *testing.T) {
	s := newTestStore(t)

	want := testAlarm("a1")
	if err := s.SaveAlarm(want); err != nil {
		t.Fatalf("SaveAlarm: %v", err)
	}

	got, err := s.GetAlarm("a1")
	if err != nil {
		t.Fatalf("GetAlarm: %v", err)
	}
	if got.Label != "wake up" || got.Hour != 7 || got.Minute != 30 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if len(got.Weekdays) != 3 || !got.HasWeekday(time.Wednesday) {
		t.Fatalf("weekdays mismatch: %v", got.Weekdays)
	}
	if !got.Snooze.Enabled || got.Snooze.Minutes != 10 ||
		got.Snooze.Behavior != models.SnoozeRepeatShorten {
		t.Fatalf("snooze mismatch: %+v", got.Snooze)
	}
	if !got.Vibrate || !got.WeatherAlert {
		t.Fatal("flags lost in roundtrip")
	}
}

func TestSaveAlarmUpsert(t *testing.T) {
	s := newTestStore(t)

	alarm := testAlarm("a1")
	if err := s.SaveAlarm(alarm); err != nil {
		t.Fatal(err)
	}

	alarm.Label = "changed"
	alarm.Minute = 45
	if err := s.SaveAlarm(alarm); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetAlarm("a1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Label != "changed" || got.Minute != 45 {
		t.Fatalf("upsert did not apply: %+v", got)
	}

	alarms, err := s.GetAlarmsForUser("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(alarms) != 1 {
		t.Fatalf("got %d alarms, want 1", len(alarms))
	}
}

func TestSaveAlarmValidates(t *testing.T) {
	s := newTestStore(t)

	bad := testAlarm("a1")
	bad.Hour = 24
	if err := s.SaveAlarm(bad); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestOneShotAlarmRoundtrip(t *testing.T) {
	s := newTestStore(t)

	at := time.Date(2025, 6, 2, 7, 10, 0, 0, time.UTC)
	alarm := testAlarm("s1")
	alarm.Weekdays = nil
	alarm.FireAt = at
	if err := s.SaveAlarm(alarm); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetAlarm("s1")
	if err != nil {
		t.Fatal(err)
	}
	if !got.OneShot() || !got.FireAt.Equal(at) {
		t.Fatalf("fire_at mismatch: %v", got.FireAt)
	}
}

func TestGetAlarmsForUserOrdered(t *testing.T) {
	s := newTestStore(t)

	late := testAlarm("late")
	late.Hour = 9
	early := testAlarm("early")
	early.Hour = 6
	other := testAlarm("other")
	other.UserID = "u2"

	for _, a := range []*models.Alarm{late, early, other} {
		if err := s.SaveAlarm(a); err != nil {
			t.Fatal(err)
		}
	}

	alarms, err := s.GetAlarmsForUser("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(alarms) != 2 {
		t.Fatalf("got %d alarms, want 2", len(alarms))
	}
	if alarms[0].ID != "early" || alarms[1].ID != "late" {
		t.Fatalf("not ordered by time of day: %s, %s", alarms[0].ID, alarms[1].ID)
	}
}

func TestUpdateAlarmEnabled(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveAlarm(testAlarm("a1")); err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateAlarmEnabled("a1", false); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetAlarm("a1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Enabled {
		t.Fatal("alarm still enabled")
	}

	if err := s.UpdateAlarmEnabled("missing", true); err == nil {
		t.Fatal("expected error for unknown alarm")
	}
}

func TestDeleteAlarm(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveAlarm(testAlarm("a1")); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteAlarm("a1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetAlarm("a1"); err == nil {
		t.Fatal("deleted alarm still present")
	}

	// Deleting an unknown id is a no-op.
	if err := s.DeleteAlarm("a1"); err != nil {
		t.Fatal(err)
	}
}

// --- Profile tests ---

func TestEnsureProfile(t *testing.T) {
	s := newTestStore(t)

	p, err := s.EnsureProfile("u1", "Sleeper")
	if err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	if p.Health != models.HealthMax || p.Level != 5 {
		t.Fatalf("new profile health/level = %d/%d", p.Health, p.Level)
	}

	// Idempotent: health survives a second ensure.
	if _, err := s.AdjustHealth("u1", -5); err != nil {
		t.Fatal(err)
	}
	p, err = s.EnsureProfile("u1", "Renamed")
	if err != nil {
		t.Fatal(err)
	}
	if p.Health != 95 || p.Name != "Renamed" {
		t.Fatalf("ensure reset the profile: %+v", p)
	}
}

func TestAdjustHealthClampsAndDerivesLevel(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.EnsureProfile("u1", "Sleeper"); err != nil {
		t.Fatal(err)
	}

	// 100 +10 clamps at 100.
	p, err := s.AdjustHealth("u1", models.HealthDeltaConfirm)
	if err != nil {
		t.Fatal(err)
	}
	if p.Health != 100 || p.Level != 5 {
		t.Fatalf("health/level = %d/%d, want 100/5", p.Health, p.Level)
	}

	// Walk down and check the derived tiers on the way.
	steps := []struct {
		delta  int
		health int
		level  int
	}{
		{models.HealthDeltaIgnore, 90, 5},
		{models.HealthDeltaIgnore, 80, 4},
		{models.HealthDeltaSnooze, 75, 4},
		{models.HealthDeltaIgnore, 65, 4},
		{models.HealthDeltaIgnore, 55, 3},
		{models.HealthDeltaIgnore, 45, 3},
		{models.HealthDeltaIgnore, 35, 2},
		{models.HealthDeltaIgnore, 25, 2},
		{models.HealthDeltaIgnore, 15, 1},
		{models.HealthDeltaIgnore, 5, 1},
		{models.HealthDeltaIgnore, 0, 1},
		{models.HealthDeltaIgnore, 0, 1}, // clamped at the floor
	}
	for i, step := range steps {
		p, err = s.AdjustHealth("u1", step.delta)
		if err != nil {
			t.Fatal(err)
		}
		if p.Health != step.health || p.Level != step.level {
			t.Fatalf("step %d: health/level = %d/%d, want %d/%d",
				i, p.Health, p.Level, step.health, step.level)
		}
	}
}

func TestAdjustHealthUnknownProfile(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AdjustHealth("missing", 10); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}
