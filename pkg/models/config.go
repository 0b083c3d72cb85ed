package models

// Config holds application settings persisted through Fyne preferences.
type Config struct {
	AutoStart            bool   `json:"auto_start"`
	ProfileName          string `json:"profile_name"`
	HoldTimeSeconds      int    `json:"hold_time_seconds"`      // wake-confirmation hold duration
	DefaultSnoozeMinutes int    `json:"default_snooze_minutes"` // preset for new alarms
	WeatherEnabled       bool   `json:"weather_enabled"`
	WeatherURL           string `json:"weather_url"` // one-line summary endpoint
	CalendarURL          string `json:"calendar_url"`
}
