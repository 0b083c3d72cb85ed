package session

import (
	"log"
	"sync"
	"time"

	"github.com/Pillangocska/EarlySpring/pkg/models"
	"github.com/google/uuid"
)

// HealthService applies a bounded point delta to the user's plant health.
// The implementation clamps to [0,100] and derives the display level.
type HealthService interface {
	AdjustHealth(userID string, delta int) (*models.Profile, error)
}

// Scheduler arms alarms; satisfied by *sched.Registry. Snooze hands its
// one-shot copy here.
type Scheduler interface {
	Schedule(*models.Alarm)
}

// Vibrator is the stoppable vibration capability. Starting vibration is the
// trigger pipeline's job; the session only ever needs to stop it.
type Vibrator interface {
	Stop()
}

// Manager owns all live sessions, at most one per alarm id, and runs the
// Ringing → {Snoozed, Confirmed, Ignored} transitions. Every terminal
// transition applies its health delta exactly once.
type Manager struct {
	// Now is the clock; replaceable in tests.
	Now func() time.Time

	scores    HealthService
	scheduler Scheduler
	vibrator  Vibrator

	// OnScoreWarning surfaces health-persistence failures as a soft UI
	// warning. The local transition proceeds regardless: a down database
	// must never block dismissing a ringing alarm.
	OnScoreWarning func(err error)

	mu       sync.Mutex
	sessions map[string]*Session // keyed by alarm id
}

// NewManager creates a session manager.
func NewManager(scores HealthService, scheduler Scheduler, vibrator Vibrator) *Manager {
	return &Manager{
		Now:       time.Now,
		scores:    scores,
		scheduler: scheduler,
		vibrator:  vibrator,
		sessions:  make(map[string]*Session),
	}
}

// Begin creates the session for a freshly fired alarm. A still-ringing
// session for the same alarm is silenced and discarded without a score
// delta; the new firing replaces it.
func (m *Manager) Begin(alarm *models.Alarm, audio AudioHandle) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.sessions[alarm.ID]; ok {
		log.Printf("Alarm %q fired again while ringing, replacing session %s", alarm.ID, old.ID)
		old.silence()
		old.done = true
		delete(m.sessions, alarm.ID)
	}

	sess := &Session{
		ID:            uuid.New().String(),
		Alarm:         alarm,
		FiredAt:       m.Now(),
		audio:         audio,
		state:         StateRinging,
		tapsRemaining: IgnoreTapThreshold,
	}
	m.sessions[alarm.ID] = sess
	return sess
}

// Confirm is the wake confirmation: silence everything, reward the score,
// destroy the session. The alarm's next recurrence was armed at fire time,
// so nothing is scheduled here.
func (m *Manager) Confirm(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess == nil || sess.done {
		return
	}
	m.stopEffects(sess)
	sess.state = StateConfirmed
	m.destroy(sess)
	m.applyDelta(sess.Alarm.UserID, models.HealthDeltaConfirm)
	log.Printf("Alarm %q confirmed", sess.Alarm.ID)
}

// Snooze silences the session, arms a one-shot copy of the alarm a few
// minutes out, and applies the snooze penalty. Snoozed is terminal for the
// session even though the alarm itself will ring again.
func (m *Manager) Snooze(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess == nil || sess.done {
		return
	}
	if !sess.Alarm.Snooze.Enabled {
		log.Printf("Alarm %q has snooze disabled", sess.Alarm.ID)
		return
	}

	m.stopEffects(sess)
	sess.state = StateSnoozed
	m.destroy(sess)

	next := snoozedCopy(sess.Alarm, m.Now())
	if m.scheduler != nil {
		m.scheduler.Schedule(next)
	}
	m.applyDelta(sess.Alarm.UserID, models.HealthDeltaSnooze)
	log.Printf("Alarm %q snoozed for %d minutes", sess.Alarm.ID, sess.Alarm.Snooze.Minutes)
}

// Ignore absorbs one discrete tap. Only the tap that drains the counter to
// zero silences the session, applies the ignore penalty and destroys it; no
// extra one-shot is armed (the regular recurrence is already scheduled).
// Returns the remaining tap count.
func (m *Manager) Ignore(sess *Session) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess == nil || sess.done {
		return 0
	}

	sess.tapsRemaining--
	if sess.tapsRemaining > 0 {
		return sess.tapsRemaining
	}

	m.stopEffects(sess)
	sess.state = StateIgnored
	m.destroy(sess)
	m.applyDelta(sess.Alarm.UserID, models.HealthDeltaIgnore)
	log.Printf("Alarm %q ignored", sess.Alarm.ID)
	return 0
}

// Active returns the live session for an alarm id, if any.
func (m *Manager) Active(alarmID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[alarmID]
	return sess, ok
}

func (m *Manager) stopEffects(sess *Session) {
	sess.silence()
	if m.vibrator != nil {
		m.vibrator.Stop()
	}
}

func (m *Manager) destroy(sess *Session) {
	sess.done = true
	if current, ok := m.sessions[sess.Alarm.ID]; ok && current == sess {
		delete(m.sessions, sess.Alarm.ID)
	}
}

func (m *Manager) applyDelta(userID string, delta int) {
	if m.scores == nil {
		return
	}
	profile, err := m.scores.AdjustHealth(userID, delta)
	if err != nil {
		log.Printf("Failed to apply health delta %+d: %v", delta, err)
		if m.OnScoreWarning != nil {
			m.OnScoreWarning(err)
		}
		return
	}
	log.Printf("Plant health %d (level %d) after %+d", profile.Health, profile.Level, delta)
}

// snoozedCopy derives the one-shot alarm a snooze arms: same effects, label
// suffixed, absolute fire instant, and the snooze config adjusted for the
// configured behavior.
func snoozedCopy(alarm *models.Alarm, now time.Time) *models.Alarm {
	snoozed := *alarm
	snoozed.ID = uuid.New().String()
	snoozed.Label = alarm.Label + " (snoozed)"
	snoozed.Weekdays = nil
	snoozed.FireAt = now.Add(time.Duration(alarm.Snooze.Minutes) * time.Minute)
	snoozed.Enabled = true

	switch alarm.Snooze.Behavior {
	case models.SnoozeOnce:
		snoozed.Snooze.Enabled = false
	case models.SnoozeRepeatShorten:
		snoozed.Snooze.Minutes = alarm.Snooze.NextMinutes()
	}
	return &snoozed
}
