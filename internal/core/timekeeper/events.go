package timekeeper

import (
	"time"

	"countdown/internal/core/model"
)

// State represents the current TimeKeeper mode.
type State string

const (
	StateComplete State = "complete"
	StatePaused   State = "paused"
	StateActive   State = "active"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange    EventType = "state_change"
	EventTick           EventType = "tick"
	EventSettingsChange EventType = "settings_change"
	EventAlertChange    EventType = "alert_change"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type      EventType
	State     State
	Remaining time.Duration
	Level     int
	Settings  model.Settings
	At        time.Time
}

// Snapshot is a consistent read of the TimeKeeper.
type Snapshot struct {
	State     State
	Remaining time.Duration
	Settings  model.Settings
	Level     int
}

// Editable reports whether settings edits are accepted in this snapshot.
func (snapshot Snapshot) Editable() bool {
	return snapshot.State == StateComplete
}
