package store

import (
	"fmt"
	"time"

	"github.com/Pillangocska/EarlySpring/pkg/models"
)

// EnsureProfile creates the profile row if it doesn't exist and returns
// it. New profiles start with a fully healthy plant. Idempotent.
func (s *Store) EnsureProfile(id, name string) (*models.Profile, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := retryOnContention(func() error {
		_, err := s.db.Exec(
			`INSERT INTO profiles (id, name, health, created_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
			id, name, models.HealthMax, now,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetProfile(id)
}

// GetProfile retrieves a profile by id, deriving the display level from
// the stored health score.
func (s *Store) GetProfile(id string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRow(
		`SELECT id, email, name, picture_url, health FROM profiles WHERE id = ?`, id,
	).Scan(&p.ID, &p.Email, &p.Name, &p.PictureURL, &p.Health)
	if err != nil {
		return nil, err
	}
	p.Level = models.HealthLevel(p.Health)
	return &p, nil
}

// AdjustHealth applies a point delta to the user's plant health, clamped
// to [0,100] inside a single UPDATE so concurrent deltas can't escape the
// bounds, and returns the resulting profile.
func (s *Store) AdjustHealth(userID string, delta int) (*models.Profile, error) {
	err := retryOnContention(func() error {
		res, err := s.db.Exec(
			`UPDATE profiles
			 SET health = MAX(?, MIN(?, health + ?))
			 WHERE id = ?`,
			models.HealthMin, models.HealthMax, delta, userID,
		)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("profile %s not found", userID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("adjust health: %w", err)
	}
	return s.GetProfile(userID)
}
