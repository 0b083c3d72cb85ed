package models

// Health score bounds and the per-transition deltas applied by the session
// lifecycle. The score is owned by the profile row and only ever mutated
// through the store's AdjustHealth.
const (
	HealthMin = 0
	HealthMax = 100

	HealthDeltaConfirm = 10
	HealthDeltaSnooze  = -5
	HealthDeltaIgnore  = -10
)

// Profile is the per-user record carrying the plant-health habit score.
type Profile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	PictureURL string `json:"picture_url"`
	Health     int    `json:"health"` // [0,100]
	Level      int    `json:"level"`  // ceil(Health/20), [1,5]
}

// ClampHealth bounds a raw score to [HealthMin, HealthMax].
func ClampHealth(h int) int {
	if h < HealthMin {
		return HealthMin
	}
	if h > HealthMax {
		return HealthMax
	}
	return h
}

// HealthLevel derives the display tier from a health score:
// ceil(health/20), kept in [1,5] so a dead plant still renders as tier 1.
func HealthLevel(health int) int {
	level := (ClampHealth(health) + 19) / 20
	if level < 1 {
		level = 1
	}
	return level
}
