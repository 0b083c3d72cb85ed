package store

import (
	"fyne.io/fyne/v2"

	"github.com/Pillangocska/EarlySpring/pkg/models"
)

// ConfigStore handles application settings persistence using Fyne
// preferences.
type ConfigStore struct {
	app fyne.App
}

// NewConfigStore creates a new ConfigStore instance.
func NewConfigStore(app fyne.App) *ConfigStore {
	return &ConfigStore{app: app}
}

// Load loads settings from preferences, falling back to defaults.
func (cs *ConfigStore) Load() *models.Config {
	prefs := cs.app.Preferences()

	return &models.Config{
		AutoStart:            prefs.BoolWithFallback("auto_start", false),
		ProfileName:          prefs.StringWithFallback("profile_name", "Sleeper"),
		HoldTimeSeconds:      prefs.IntWithFallback("hold_time_seconds", 3),
		DefaultSnoozeMinutes: prefs.IntWithFallback("default_snooze_minutes", 10),
		WeatherEnabled:       prefs.BoolWithFallback("weather_enabled", false),
		WeatherURL:           prefs.StringWithFallback("weather_url", "https://wttr.in/?format=3"),
		CalendarURL:          prefs.String("calendar_url"),
	}
}

// Save saves settings to preferences.
func (cs *ConfigStore) Save(config *models.Config) {
	prefs := cs.app.Preferences()

	prefs.SetBool("auto_start", config.AutoStart)
	prefs.SetString("profile_name", config.ProfileName)
	prefs.SetInt("hold_time_seconds", config.HoldTimeSeconds)
	prefs.SetInt("default_snooze_minutes", config.DefaultSnoozeMinutes)
	prefs.SetBool("weather_enabled", config.WeatherEnabled)
	prefs.SetString("weather_url", config.WeatherURL)
	prefs.SetString("calendar_url", config.CalendarURL)
}
