package timekeeper

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"countdown/internal/core/alert"
	"countdown/internal/core/model"
	"countdown/internal/core/settings"

	"github.com/qmuntal/stateless"
)

type trigger string

const (
	triggerToggle  trigger = "toggle"
	triggerReset   trigger = "reset"
	triggerExhaust trigger = "exhaust"
)

// Config contains runtime options for TimeKeeper.
type Config struct {
	// Scheduler drives ticks. Defaults to a one-second TickerScheduler.
	Scheduler Scheduler
	Logger    *slog.Logger
}

// TimeKeeper is the countdown state machine. It owns the state, the
// remaining time and the settings; every mutation goes through its lock.
type TimeKeeper struct {
	mu         sync.Mutex
	machine    *stateless.StateMachine
	scheduler  Scheduler
	logger     *slog.Logger
	settings   model.Settings
	remaining  time.Duration
	level      int
	generation uint64
	events     []chan Event
	closed     bool
}

// New creates a TimeKeeper in the complete state with remaining time
// derived from settings.
func New(initial model.Settings, config Config) *TimeKeeper {
	if config.Scheduler == nil {
		config.Scheduler = NewTickerScheduler(time.Second)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	keeper := &TimeKeeper{
		scheduler: config.Scheduler,
		logger:    config.Logger,
		settings:  settings.Sanitize(initial),
	}
	keeper.remaining = keeper.settings.Limit()
	keeper.level = alert.Level(keeper.remaining, keeper.settings.AlertThresholds)
	keeper.machine = keeper.newMachine()
	return keeper
}

func (keeper *TimeKeeper) newMachine() *stateless.StateMachine {
	machine := stateless.NewStateMachine(StateComplete)

	machine.Configure(StateComplete).
		Permit(triggerToggle, StateActive).
		PermitReentry(triggerReset)

	machine.Configure(StatePaused).
		Permit(triggerToggle, StateActive).
		Permit(triggerReset, StateComplete)

	machine.Configure(StateActive).
		Permit(triggerToggle, StatePaused).
		Permit(triggerReset, StateComplete).
		Permit(triggerExhaust, StateComplete).
		OnEntry(func(_ context.Context, _ ...any) error {
			keeper.enterActiveLocked()
			return nil
		}).
		OnExit(func(_ context.Context, _ ...any) error {
			keeper.exitActiveLocked()
			return nil
		})

	return machine
}

// Subscribe registers a new observer channel. Delivery never blocks; a
// subscriber that falls behind misses events and should re-read Snapshot.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// Toggle pauses an active timer, or starts a paused or complete one.
func (keeper *TimeKeeper) Toggle() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.fireLocked(triggerToggle)
}

// Start activates the timer unless it is already active.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stateLocked() == StateActive {
		return
	}
	keeper.fireLocked(triggerToggle)
}

// Pause freezes an active timer. Other states are left alone.
func (keeper *TimeKeeper) Pause() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stateLocked() != StateActive {
		return
	}
	keeper.fireLocked(triggerToggle)
}

// Reset returns to complete and restores the full countdown.
func (keeper *TimeKeeper) Reset() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.remaining = keeper.settings.Limit()
	keeper.refreshLevelLocked(time.Now())
	keeper.fireLocked(triggerReset)
}

// SetLimit applies a raw limit edit. It reports whether the edit took effect.
func (keeper *TimeKeeper) SetLimit(raw string) bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if !keeper.editableLocked() {
		return false
	}
	limit, ok := settings.ParseLimit(raw)
	if !ok {
		return false
	}
	keeper.settings.LimitMinutes = limit
	keeper.remaining = keeper.settings.Limit()
	keeper.settingsChangedLocked()
	return true
}

// AddAlert appends a disabled threshold slot.
func (keeper *TimeKeeper) AddAlert() bool {
	return keeper.editThresholds(settings.AddThreshold)
}

// RemoveAlert removes the threshold at index.
func (keeper *TimeKeeper) RemoveAlert(index int) bool {
	return keeper.editThresholds(func(thresholds []int) ([]int, bool) {
		return settings.RemoveThreshold(thresholds, index)
	})
}

// SetAlert applies a raw threshold edit at index.
func (keeper *TimeKeeper) SetAlert(index int, raw string) bool {
	return keeper.editThresholds(func(thresholds []int) ([]int, bool) {
		return settings.ApplyThreshold(thresholds, index, raw)
	})
}

// State returns the current state.
func (keeper *TimeKeeper) State() State {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.stateLocked()
}

// Remaining returns the time left in the countdown.
func (keeper *TimeKeeper) Remaining() time.Duration {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.remaining
}

// Settings returns a copy of the current settings.
func (keeper *TimeKeeper) Settings() model.Settings {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.settings.Clone()
}

// AlertLevel returns the current alert level.
func (keeper *TimeKeeper) AlertLevel() int {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.level
}

// Editable reports whether settings edits are accepted.
func (keeper *TimeKeeper) Editable() bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.editableLocked()
}

// Snapshot returns a consistent copy of the observable state.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.snapshotLocked()
}

// Close stops ticking and closes all observer channels.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.closed = true
	keeper.generation++
	keeper.scheduler.Stop()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) editThresholds(edit func([]int) ([]int, bool)) bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if !keeper.editableLocked() {
		return false
	}
	thresholds, ok := edit(keeper.settings.AlertThresholds)
	if !ok {
		return false
	}
	keeper.settings.AlertThresholds = thresholds
	keeper.settingsChangedLocked()
	return true
}

func (keeper *TimeKeeper) fireLocked(trig trigger) {
	from := keeper.stateLocked()
	if err := keeper.machine.Fire(trig); err != nil {
		keeper.logger.Debug("timer intent ignored", "trigger", trig, "state", from, "error", err)
		return
	}
	to := keeper.stateLocked()
	keeper.logger.Debug("timer transition", "trigger", trig, "from", from, "to", to)
	keeper.emitLocked(keeper.eventLocked(EventStateChange, time.Now()))
}

func (keeper *TimeKeeper) enterActiveLocked() {
	sorted := settings.SortForActivation(keeper.settings.AlertThresholds)
	changed := !slices.Equal(sorted, keeper.settings.AlertThresholds)
	keeper.settings.AlertThresholds = sorted
	if keeper.remaining <= 0 {
		keeper.remaining = keeper.settings.Limit()
	}
	if changed {
		keeper.settingsChangedLocked()
	} else {
		keeper.refreshLevelLocked(time.Now())
	}

	keeper.generation++
	generation := keeper.generation
	keeper.scheduler.Start(func() {
		keeper.tick(generation)
	})
}

func (keeper *TimeKeeper) exitActiveLocked() {
	keeper.generation++
	keeper.scheduler.Stop()
}

func (keeper *TimeKeeper) tick(generation uint64) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	// Ticks from a run that was stopped are dropped here.
	if generation != keeper.generation || keeper.closed || keeper.stateLocked() != StateActive {
		return
	}

	now := time.Now()
	keeper.remaining -= time.Second
	if keeper.remaining < 0 {
		keeper.remaining = 0
	}
	keeper.refreshLevelLocked(now)
	keeper.emitLocked(keeper.eventLocked(EventTick, now))

	if keeper.remaining == 0 {
		keeper.fireLocked(triggerExhaust)
	}
}

func (keeper *TimeKeeper) settingsChangedLocked() {
	now := time.Now()
	keeper.refreshLevelLocked(now)
	keeper.emitLocked(keeper.eventLocked(EventSettingsChange, now))
}

func (keeper *TimeKeeper) refreshLevelLocked(now time.Time) {
	level := alert.Level(keeper.remaining, keeper.settings.AlertThresholds)
	if level == keeper.level {
		return
	}
	keeper.level = level
	keeper.emitLocked(keeper.eventLocked(EventAlertChange, now))
}

func (keeper *TimeKeeper) stateLocked() State {
	return keeper.machine.MustState().(State)
}

func (keeper *TimeKeeper) editableLocked() bool {
	return keeper.stateLocked() == StateComplete
}

func (keeper *TimeKeeper) snapshotLocked() Snapshot {
	return Snapshot{
		State:     keeper.stateLocked(),
		Remaining: keeper.remaining,
		Settings:  keeper.settings.Clone(),
		Level:     keeper.level,
	}
}

func (keeper *TimeKeeper) eventLocked(eventType EventType, now time.Time) Event {
	return Event{
		Type:      eventType,
		State:     keeper.stateLocked(),
		Remaining: keeper.remaining,
		Level:     keeper.level,
		Settings:  keeper.settings.Clone(),
		At:        now,
	}
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
