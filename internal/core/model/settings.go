package model

import "time"

const (
	// DefaultLimitMinutes is the countdown length used before any edit.
	DefaultLimitMinutes = 10

	// MaxThresholds caps the number of alert thresholds.
	MaxThresholds = 3
)

// Settings holds the user-editable countdown configuration.
type Settings struct {
	LimitMinutes    int
	AlertThresholds []int
}

// DefaultSettings returns the settings a fresh timer starts with.
func DefaultSettings() Settings {
	return Settings{
		LimitMinutes:    DefaultLimitMinutes,
		AlertThresholds: []int{3},
	}
}

// Limit returns the configured countdown length.
func (settings Settings) Limit() time.Duration {
	return time.Duration(settings.LimitMinutes) * time.Minute
}

// Clone returns a copy that shares no memory with settings.
func (settings Settings) Clone() Settings {
	thresholds := make([]int, len(settings.AlertThresholds))
	copy(thresholds, settings.AlertThresholds)
	return Settings{
		LimitMinutes:    settings.LimitMinutes,
		AlertThresholds: thresholds,
	}
}
