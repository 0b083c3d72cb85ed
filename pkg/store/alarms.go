package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Pillangocska/EarlySpring/pkg/models"
)

const alarmColumns = `id, user_id, label, hour, minute, weekdays, fire_at, enabled,
	sound, vibrate, gradual_volume, snooze_enabled, snooze_minutes, snooze_behavior, weather_alert`

// SaveAlarm inserts or replaces an alarm definition.
func (s *Store) SaveAlarm(alarm *models.Alarm) error {
	if err := alarm.Validate(); err != nil {
		return fmt.Errorf("save alarm: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return retryOnContention(func() error {
		_, err := s.db.Exec(
			`INSERT INTO alarms (`+alarmColumns+`, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				label = excluded.label,
				hour = excluded.hour,
				minute = excluded.minute,
				weekdays = excluded.weekdays,
				fire_at = excluded.fire_at,
				enabled = excluded.enabled,
				sound = excluded.sound,
				vibrate = excluded.vibrate,
				gradual_volume = excluded.gradual_volume,
				snooze_enabled = excluded.snooze_enabled,
				snooze_minutes = excluded.snooze_minutes,
				snooze_behavior = excluded.snooze_behavior,
				weather_alert = excluded.weather_alert,
				updated_at = excluded.updated_at`,
			alarm.ID, alarm.UserID, alarm.Label, alarm.Hour, alarm.Minute,
			encodeWeekdays(alarm.Weekdays), encodeFireAt(alarm.FireAt), alarm.Enabled,
			alarm.Sound, alarm.Vibrate, alarm.GradualVolume,
			alarm.Snooze.Enabled, alarm.Snooze.Minutes, string(alarm.Snooze.Behavior),
			alarm.WeatherAlert, now, now,
		)
		return err
	})
}

// GetAlarm retrieves one alarm by id.
func (s *Store) GetAlarm(id string) (*models.Alarm, error) {
	row := s.db.QueryRow(`SELECT `+alarmColumns+` FROM alarms WHERE id = ?`, id)
	return scanAlarm(row)
}

// GetAlarmsForUser returns all of a user's alarms ordered by time of day.
func (s *Store) GetAlarmsForUser(userID string) ([]*models.Alarm, error) {
	rows, err := s.db.Query(
		`SELECT `+alarmColumns+` FROM alarms WHERE user_id = ? ORDER BY hour, minute, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alarms []*models.Alarm
	for rows.Next() {
		alarm, err := scanAlarm(rows)
		if err != nil {
			return nil, err
		}
		alarms = append(alarms, alarm)
	}
	return alarms, rows.Err()
}

// UpdateAlarmEnabled flips the enabled flag without touching the rest of
// the definition.
func (s *Store) UpdateAlarmEnabled(id string, enabled bool) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return retryOnContention(func() error {
		res, err := s.db.Exec(
			`UPDATE alarms SET enabled = ?, updated_at = ? WHERE id = ?`,
			enabled, now, id,
		)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("alarm %s not found", id)
		}
		return nil
	})
}

// DeleteAlarm removes an alarm. Deleting an unknown id is a no-op.
func (s *Store) DeleteAlarm(id string) error {
	return retryOnContention(func() error {
		_, err := s.db.Exec(`DELETE FROM alarms WHERE id = ?`, id)
		return err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlarm(row rowScanner) (*models.Alarm, error) {
	var (
		alarm    models.Alarm
		weekdays string
		fireAt   string
		behavior string
	)
	err := row.Scan(
		&alarm.ID, &alarm.UserID, &alarm.Label, &alarm.Hour, &alarm.Minute,
		&weekdays, &fireAt, &alarm.Enabled,
		&alarm.Sound, &alarm.Vibrate, &alarm.GradualVolume,
		&alarm.Snooze.Enabled, &alarm.Snooze.Minutes, &behavior,
		&alarm.WeatherAlert,
	)
	if err != nil {
		return nil, err
	}
	alarm.Snooze.Behavior = models.SnoozeBehavior(behavior)
	if alarm.Weekdays, err = decodeWeekdays(weekdays); err != nil {
		return nil, fmt.Errorf("alarm %s: %w", alarm.ID, err)
	}
	if alarm.FireAt, err = decodeFireAt(fireAt); err != nil {
		return nil, fmt.Errorf("alarm %s: %w", alarm.ID, err)
	}
	return &alarm, nil
}

// encodeWeekdays serializes a weekday set as comma-separated ints, e.g.
// "1,3,5" for Mon/Wed/Fri.
func encodeWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(encoded string) ([]time.Weekday, error) {
	if encoded == "" {
		return nil, nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(encoded, ",") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("bad weekday %q", part)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}

func encodeFireAt(at time.Time) string {
	if at.IsZero() {
		return ""
	}
	return at.Format(time.RFC3339Nano)
}

func decodeFireAt(encoded string) (time.Time, error) {
	if encoded == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, encoded)
}

var _ rowScanner = (*sql.Row)(nil)
