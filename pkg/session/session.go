// Package session tracks ringing alarm instances from fire time until the
// user resolves them, and applies the plant-health score consequences of
// how each one ends.
package session

import (
	"time"

	"github.com/Pillangocska/EarlySpring/pkg/models"
)

// State is the lifecycle position of a ringing session.
type State string

const (
	StateRinging   State = "ringing"
	StateSnoozed   State = "snoozed"
	StateConfirmed State = "confirmed"
	StateIgnored   State = "ignored"
)

// IgnoreTapThreshold is how many discrete taps it takes to ignore a ringing
// alarm. Deliberately high so a single accidental tap can't silence it.
const IgnoreTapThreshold = 50

// AudioHandle is the live playback of a ringing session. May be nil when
// every sound fallback failed; the session still works without it.
type AudioHandle interface {
	Stop()
}

// Session is one in-progress ringing instance: the alarm snapshot that
// fired, the live audio, and the countdown toward attrition-based ignore.
type Session struct {
	ID      string
	Alarm   *models.Alarm
	FiredAt time.Time

	audio         AudioHandle
	state         State
	tapsRemaining int
	done          bool
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// TapsRemaining returns how many more ignore taps the session absorbs
// before it gives up and applies the ignore penalty.
func (s *Session) TapsRemaining() int {
	return s.tapsRemaining
}

// Terminal reports whether the session has been destroyed. Terminal
// sessions ignore every further lifecycle call; in particular they can
// never apply a second score delta.
func (s *Session) Terminal() bool {
	return s.done
}

// silence stops the session's audio, if any.
func (s *Session) silence() {
	if s.audio != nil {
		s.audio.Stop()
	}
}
