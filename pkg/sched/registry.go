package sched

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Pillangocska/EarlySpring/pkg/models"
)

// FireFunc is invoked exactly once when an armed occurrence expires. The
// alarm is the snapshot taken at schedule time, at the instant it was armed
// for. The consumed occurrence is already removed from the registry when
// the callback runs.
type FireFunc func(alarm *models.Alarm, at time.Time)

// Occurrence is one armed future firing of an alarm.
type Occurrence struct {
	AlarmID string
	At      time.Time

	alarm *models.Alarm
	timer *time.Timer
}

// Registry owns the id → occurrence table and guarantees at most one
// pending timer per alarm id. All methods are safe for concurrent use.
type Registry struct {
	// Now is the clock; replaceable in tests.
	Now func() time.Time

	mu    sync.Mutex
	fire  FireFunc
	armed map[string]*Occurrence
}

// NewRegistry creates an empty registry firing expiries into fn.
func NewRegistry(fn FireFunc) *Registry {
	return &Registry{
		Now:   time.Now,
		fire:  fn,
		armed: make(map[string]*Occurrence),
	}
}

// Schedule re-derives the alarm's next occurrence and arms a timer for it,
// replacing any previous occurrence for the same id. Disabled or
// unresolvable alarms are logged, left unarmed, and any stale occurrence
// for them is removed; other alarms are never affected.
//
// Scheduling is idempotent: if the definition is unchanged and the computed
// instant matches the one already armed, the existing timer is left alone.
// UI re-renders can therefore call Schedule freely without causing
// cancel/rearm churn.
func (r *Registry) Schedule(alarm *models.Alarm) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !alarm.Enabled {
		log.Printf("Alarm %q is disabled, not scheduling", alarm.ID)
		r.removeLocked(alarm.ID)
		return
	}

	at, ok := NextOccurrence(alarm, r.Now())
	if !ok {
		log.Printf("Alarm %q has no resolvable fire time, not scheduling", alarm.ID)
		r.removeLocked(alarm.ID)
		return
	}

	if existing, armed := r.armed[alarm.ID]; armed {
		if existing.alarm.SameSchedule(alarm) && existing.At.Equal(at) {
			// Unchanged definition, identical instant: keep the live timer.
			return
		}
		existing.timer.Stop()
		delete(r.armed, alarm.ID)
	}

	snapshot := cloneAlarm(alarm)
	occ := &Occurrence{
		AlarmID: alarm.ID,
		At:      at,
		alarm:   snapshot,
	}

	delay := at.Sub(r.Now())
	if delay < 0 {
		delay = 0
	}
	occ.timer = time.AfterFunc(delay, func() { r.expire(occ) })
	r.armed[alarm.ID] = occ

	log.Printf("Scheduled alarm %q (%s) for %s", alarm.ID, alarm.Label,
		at.Format("Mon Jan 2 15:04"))
}

// expire runs on timer expiry. A timer that was cancelled or superseded
// after being queued finds its occurrence no longer current and does
// nothing; the armed entry is consumed before the fire callback runs.
func (r *Registry) expire(occ *Occurrence) {
	r.mu.Lock()
	if current, armed := r.armed[occ.AlarmID]; !armed || current != occ {
		r.mu.Unlock()
		return
	}
	delete(r.armed, occ.AlarmID)
	fire := r.fire
	r.mu.Unlock()

	if fire != nil {
		fire(occ.alarm, occ.At)
	}
}

// Cancel stops and removes the occurrence for id, if any.
func (r *Registry) Cancel(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(id)
}

// CancelAll stops and removes every armed occurrence. Called on shutdown
// and before a full reschedule sweep.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.armed {
		r.removeLocked(id)
	}
}

// RescheduleAll replaces the whole table from a fresh alarm list. Reserved
// for initial load; incremental edits should use Schedule/Cancel per alarm
// so unrelated timers are not disturbed.
func (r *Registry) RescheduleAll(alarms []*models.Alarm) {
	r.CancelAll()
	for _, alarm := range alarms {
		r.Schedule(alarm)
	}
}

// NextFireTime returns the armed instant for id, if any.
func (r *Registry) NextFireTime(id string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	occ, armed := r.armed[id]
	if !armed {
		return time.Time{}, false
	}
	return occ.At, true
}

// Pending returns all armed occurrences ordered by fire time.
func (r *Registry) Pending() []Occurrence {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Occurrence, 0, len(r.armed))
	for _, occ := range r.armed {
		out = append(out, Occurrence{AlarmID: occ.AlarmID, At: occ.At, alarm: occ.alarm})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// Alarm returns the snapshot the occurrence was armed with.
func (o Occurrence) Alarm() *models.Alarm {
	return o.alarm
}

func (r *Registry) removeLocked(id string) {
	if occ, armed := r.armed[id]; armed {
		occ.timer.Stop()
		delete(r.armed, id)
	}
}

// cloneAlarm deep-copies the definition so later edits to the caller's
// value can't change what an already-armed timer fires with.
func cloneAlarm(alarm *models.Alarm) *models.Alarm {
	snapshot := *alarm
	snapshot.Weekdays = append([]time.Weekday(nil), alarm.Weekdays...)
	return &snapshot
}
