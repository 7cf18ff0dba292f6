package preferences

import (
	"log/slog"
	"time"

	"countdown/internal/core/model"
	"countdown/internal/core/timekeeper"
)

// Preferences defines startup options for the application.
type Preferences struct {
	Timer model.Settings

	Fullscreen   bool
	AlertPulse   bool
	WindowWidth  float32
	WindowHeight float32
}

// DefaultPreferences returns default preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		Timer:        model.DefaultSettings(),
		Fullscreen:   false,
		AlertPulse:   true,
		WindowWidth:  480,
		WindowHeight: 360,
	}
}

// TimeKeeperConfig converts preferences to a timekeeper.Config. The
// countdown always ticks once per second.
func (prefs Preferences) TimeKeeperConfig(logger *slog.Logger) timekeeper.Config {
	return timekeeper.Config{
		Scheduler: timekeeper.NewTickerScheduler(time.Second),
		Logger:    logger,
	}
}
