package main

import (
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/Pillangocska/EarlySpring/pkg/audio"
	"github.com/Pillangocska/EarlySpring/pkg/models"
	"github.com/Pillangocska/EarlySpring/pkg/platform"
	"github.com/Pillangocska/EarlySpring/pkg/sched"
	"github.com/Pillangocska/EarlySpring/pkg/session"
	"github.com/Pillangocska/EarlySpring/pkg/speech"
	"github.com/Pillangocska/EarlySpring/pkg/store"
	"github.com/Pillangocska/EarlySpring/pkg/trigger"
	"github.com/Pillangocska/EarlySpring/pkg/weather"
)

// localProfileID is the single on-device profile. The store schema supports
// multiple profiles; the desktop app only ever uses this one.
const localProfileID = "local"

// soundPort adapts the sound library to the trigger pipeline's audio port.
// A nil *audio.Player stays safe to Stop through the interface.
type soundPort struct {
	lib *audio.Library
}

func (s soundPort) Play(soundID string, gradual bool) session.AudioHandle {
	return s.lib.Play(soundID, gradual)
}

type EarlySpring struct {
	app         fyne.App
	config      *models.Config
	configStore *store.ConfigStore
	store       *store.Store
	profile     *models.Profile

	registry *sched.Registry
	sessions *session.Manager
	pipeline *trigger.Pipeline
	sounds   *audio.Library
	vibrator *platform.Vibrator

	settingsWindow *SettingsWindow
}

func main() {
	es := &EarlySpring{
		app: app.NewWithID("com.pillangocska.earlyspring"),
	}

	if err := es.initialize(); err != nil {
		log.Fatal(err)
	}

	es.run()
}

func (es *EarlySpring) initialize() error {
	es.configStore = store.NewConfigStore(es.app)
	es.config = es.configStore.Load()

	// Sync autostart state with config on startup
	if err := setupAutostart(es.config.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}
	es.configStore.Save(es.config)

	dataDir := es.app.Storage().RootURI().Path()
	db, err := store.New(filepath.Join(dataDir, "earlyspring.db"))
	if err != nil {
		return err
	}
	es.store = db

	profile, err := db.EnsureProfile(localProfileID, es.config.ProfileName)
	if err != nil {
		return err
	}
	es.profile = profile
	log.Printf("Profile %q loaded, plant health %d (level %d)",
		profile.Name, profile.Health, profile.Level)

	es.sounds = audio.NewLibrary(filepath.Join(dataDir, "sounds"))
	es.vibrator = platform.NewVibrator()

	es.pipeline = &trigger.Pipeline{
		Audio:     soundPort{es.sounds},
		Vibration: es.vibrator,
		Notifier:  newFyneNotifier(es.app),
		Announcer: speech.NewAnnouncer(),
		Presenter: es,
	}
	if es.config.WeatherEnabled {
		es.pipeline.Weather = weather.NewClient(es.config.WeatherURL)
	}

	es.registry = sched.NewRegistry(es.pipeline.Fire)
	es.pipeline.Rearmer = es.registry

	es.sessions = session.NewManager(db, es.registry, es.vibrator)
	es.sessions.OnScoreWarning = es.showScoreWarning
	es.pipeline.Sessions = es.sessions

	if err := es.rescheduleFromStore(); err != nil {
		return err
	}

	es.setupSystemTray()
	return nil
}

func (es *EarlySpring) run() {
	es.app.Run()
}

// rescheduleFromStore arms a timer for every enabled alarm in the database.
// Called once at startup and after a calendar import.
func (es *EarlySpring) rescheduleFromStore() error {
	alarms, err := es.store.GetAlarmsForUser(es.profile.ID)
	if err != nil {
		return err
	}
	es.registry.RescheduleAll(alarms)
	log.Printf("Armed %d of %d alarms", len(es.registry.Pending()), len(alarms))
	return nil
}

func (es *EarlySpring) showSettingsWindow() {
	// If the window already exists, just bring it to front
	if es.settingsWindow != nil && es.settingsWindow.window != nil {
		es.settingsWindow.window.RequestFocus()
		es.settingsWindow.window.Show()
		return
	}

	es.settingsWindow = NewSettingsWindow(es)
	es.settingsWindow.window.SetOnClosed(func() {
		es.settingsWindow = nil
	})
	es.settingsWindow.Show()
}

// applyConfig rewires the running app after a settings save.
func (es *EarlySpring) applyConfig(config *models.Config) {
	if config.WeatherEnabled {
		es.pipeline.Weather = weather.NewClient(config.WeatherURL)
	} else {
		es.pipeline.Weather = nil
	}

	if profile, err := es.store.EnsureProfile(localProfileID, config.ProfileName); err == nil {
		es.profile = profile
	} else {
		log.Printf("Failed to rename profile: %v", err)
	}
}

func (es *EarlySpring) showScoreWarning(err error) {
	es.app.SendNotification(fyne.NewNotification(
		"EarlySpring",
		"Couldn't update your plant's health. It will catch up next time."))
	log.Printf("Health update failed: %v", err)
}

// saveAndArm persists an alarm edit and reconciles its timer.
func (es *EarlySpring) saveAndArm(alarm *models.Alarm) error {
	if err := es.store.SaveAlarm(alarm); err != nil {
		return err
	}
	es.registry.Schedule(alarm)
	return nil
}

func (es *EarlySpring) deleteAlarm(id string) error {
	if err := es.store.DeleteAlarm(id); err != nil {
		return err
	}
	es.registry.Cancel(id)
	return nil
}

func (es *EarlySpring) quit() {
	es.registry.CancelAll()
	if es.store != nil {
		es.store.Close()
	}
	es.app.Quit()
}
