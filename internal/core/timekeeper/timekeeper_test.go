package timekeeper

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countdown/internal/core/model"
)

func newManualKeeper(t *testing.T, initial model.Settings) (*TimeKeeper, *ManualScheduler) {
	t.Helper()
	scheduler := NewManualScheduler()
	keeper := New(initial, Config{Scheduler: scheduler})
	t.Cleanup(keeper.Close)
	return keeper, scheduler
}

// capturingScheduler keeps every registered callback so tests can replay
// ticks that raced with Stop.
type capturingScheduler struct {
	mu        sync.Mutex
	callbacks []func()
	stops     int
}

func (scheduler *capturingScheduler) Start(onTick func()) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.callbacks = append(scheduler.callbacks, onTick)
}

func (scheduler *capturingScheduler) Stop() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.stops++
}

func (scheduler *capturingScheduler) callback(index int) func() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.callbacks[index]
}

func TestNewDerivesRemainingFromDefaults(t *testing.T) {
	keeper, scheduler := newManualKeeper(t, model.DefaultSettings())

	snapshot := keeper.Snapshot()
	assert.Equal(t, StateComplete, snapshot.State)
	assert.Equal(t, 600*time.Second, snapshot.Remaining)
	assert.Equal(t, []int{3}, snapshot.Settings.AlertThresholds)
	assert.Equal(t, 0, snapshot.Level)
	assert.True(t, snapshot.Editable())
	assert.False(t, scheduler.Running())
}

func TestResetRestoresFullCountdown(t *testing.T) {
	for _, limit := range []int{1, 10, 45, 90} {
		keeper, scheduler := newManualKeeper(t, model.Settings{LimitMinutes: limit, AlertThresholds: []int{3}})
		keeper.Toggle()
		scheduler.Advance(30)
		keeper.Reset()

		assert.Equal(t, StateComplete, keeper.State())
		assert.Equal(t, time.Duration(limit)*time.Minute, keeper.Remaining())
		assert.False(t, scheduler.Running())
	}
}

func TestTicksCrossFirstThreshold(t *testing.T) {
	keeper, scheduler := newManualKeeper(t, model.DefaultSettings())
	keeper.Reset()
	require.Equal(t, 0, keeper.AlertLevel())

	keeper.Toggle()
	require.Equal(t, StateActive, keeper.State())
	require.Equal(t, 421, scheduler.Advance(421))

	assert.Equal(t, 179*time.Second, keeper.Remaining())
	assert.Equal(t, 1, keeper.AlertLevel())
}

func TestEachTickDecrementsBySecondUntilComplete(t *testing.T) {
	keeper, scheduler := newManualKeeper(t, model.Settings{LimitMinutes: 1, AlertThresholds: []int{0}})
	keeper.Toggle()

	previous := keeper.Remaining()
	for scheduler.Tick() {
		current := keeper.Remaining()
		assert.Equal(t, previous-time.Second, current)
		previous = current
	}

	assert.Equal(t, time.Duration(0), keeper.Remaining())
	assert.Equal(t, StateComplete, keeper.State())
	assert.False(t, scheduler.Running())
	assert.False(t, scheduler.Tick())
	assert.Equal(t, time.Duration(0), keeper.Remaining())
}

func TestActivationSortsThresholds(t *testing.T) {
	keeper, scheduler := newManualKeeper(t, model.Settings{LimitMinutes: 10, AlertThresholds: []int{1}})
	require.True(t, keeper.AddAlert())
	require.True(t, keeper.AddAlert())
	require.True(t, keeper.SetAlert(1, "5"))
	require.True(t, keeper.SetAlert(2, "3"))
	require.Equal(t, []int{1, 5, 3}, keeper.Settings().AlertThresholds)

	keeper.Toggle()
	assert.Equal(t, []int{1, 3, 5}, keeper.Settings().AlertThresholds)

	scheduler.Advance(350)
	require.Equal(t, 250*time.Second, keeper.Remaining())
	assert.Equal(t, 3, keeper.AlertLevel())
}

func TestAddAlertCappedAtThree(t *testing.T) {
	keeper, _ := newManualKeeper(t, model.Settings{LimitMinutes: 10, AlertThresholds: []int{1, 2, 3}})
	assert.False(t, keeper.AddAlert())
	assert.Equal(t, []int{1, 2, 3}, keeper.Settings().AlertThresholds)
}

func TestRemoveAlertKeepsLastSlot(t *testing.T) {
	keeper, _ := newManualKeeper(t, model.Settings{LimitMinutes: 10, AlertThresholds: []int{3}})
	assert.False(t, keeper.RemoveAlert(0))
	assert.Equal(t, []int{3}, keeper.Settings().AlertThresholds)
}

func TestFinalTickCompletesAndStopsScheduler(t *testing.T) {
	keeper, scheduler := newManualKeeper(t, model.Settings{LimitMinutes: 1, AlertThresholds: []int{0}})
	keeper.Toggle()
	require.Equal(t, 59, scheduler.Advance(59))
	require.Equal(t, time.Second, keeper.Remaining())

	require.True(t, scheduler.Tick())
	assert.Equal(t, time.Duration(0), keeper.Remaining())
	assert.Equal(t, StateComplete, keeper.State())
	assert.False(t, scheduler.Running())
	assert.Equal(t, 1, scheduler.Starts())
	assert.Equal(t, 1, scheduler.Stops())
	assert.False(t, scheduler.Tick())
}

func TestPauseResumePreservesRemaining(t *testing.T) {
	keeper, scheduler := newManualKeeper(t, model.DefaultSettings())
	keeper.Toggle()
	scheduler.Advance(17)
	keeper.Toggle()
	require.Equal(t, StatePaused, keeper.State())
	frozen := keeper.Remaining()

	assert.False(t, scheduler.Tick())
	assert.Equal(t, frozen, keeper.Remaining())

	keeper.Toggle()
	assert.Equal(t, StateActive, keeper.State())
	assert.Equal(t, frozen, keeper.Remaining())
	scheduler.Tick()
	assert.Equal(t, frozen-time.Second, keeper.Remaining())
}

func TestEditsRejectedUnlessComplete(t *testing.T) {
	keeper, _ := newManualKeeper(t, model.DefaultSettings())
	keeper.Toggle()

	for _, state := range []State{StateActive, StatePaused} {
		if keeper.State() != state {
			keeper.Toggle()
		}
		require.Equal(t, state, keeper.State())
		assert.False(t, keeper.Editable())
		assert.False(t, keeper.SetLimit("25"))
		assert.False(t, keeper.AddAlert())
		assert.False(t, keeper.SetAlert(0, "8"))
		assert.False(t, keeper.RemoveAlert(0))
		assert.Equal(t, model.DefaultSettings(), keeper.Settings())
	}

	keeper.Reset()
	assert.True(t, keeper.SetLimit("25"))
	assert.Equal(t, 25*time.Minute, keeper.Remaining())
}

func TestSetLimitIgnoresInvalidInput(t *testing.T) {
	keeper, _ := newManualKeeper(t, model.DefaultSettings())
	for _, raw := range []string{"", "0", "-5", "abc"} {
		assert.False(t, keeper.SetLimit(raw), raw)
	}
	assert.Equal(t, 10, keeper.Settings().LimitMinutes)
	assert.Equal(t, 10*time.Minute, keeper.Remaining())
}

func TestSchedulerStartedAndStoppedOncePerTransition(t *testing.T) {
	keeper, scheduler := newManualKeeper(t, model.DefaultSettings())

	keeper.Toggle() // active
	keeper.Start()  // no-op
	keeper.Toggle() // paused
	keeper.Pause()  // no-op
	keeper.Toggle() // active
	keeper.Reset()  // complete
	keeper.Reset()  // complete again

	assert.Equal(t, 2, scheduler.Starts())
	assert.Equal(t, 2, scheduler.Stops())
	assert.False(t, scheduler.Running())
}

func TestStaleTickIsDiscarded(t *testing.T) {
	scheduler := &capturingScheduler{}
	keeper := New(model.DefaultSettings(), Config{Scheduler: scheduler})
	t.Cleanup(keeper.Close)

	keeper.Toggle()
	keeper.Toggle()
	keeper.Toggle()
	before := keeper.Remaining()

	scheduler.callback(0)()
	assert.Equal(t, before, keeper.Remaining(), "tick from the first run must be dropped")

	scheduler.callback(1)()
	assert.Equal(t, before-time.Second, keeper.Remaining())

	keeper.Reset()
	scheduler.callback(1)()
	assert.Equal(t, 10*time.Minute, keeper.Remaining())
}

func TestToggleAfterCompletionRestartsFullCountdown(t *testing.T) {
	keeper, scheduler := newManualKeeper(t, model.Settings{LimitMinutes: 1, AlertThresholds: []int{0}})
	keeper.Toggle()
	scheduler.Advance(60)
	require.Equal(t, StateComplete, keeper.State())
	require.Equal(t, time.Duration(0), keeper.Remaining())

	keeper.Toggle()
	assert.Equal(t, StateActive, keeper.State())
	assert.Equal(t, time.Minute, keeper.Remaining())
}

func TestRestartAfterCompletionClearsAlertLevel(t *testing.T) {
	keeper, scheduler := newManualKeeper(t, model.DefaultSettings())
	events := keeper.Subscribe(1024)

	keeper.Toggle()
	scheduler.Advance(600)
	require.Equal(t, StateComplete, keeper.State())
	require.Equal(t, 1, keeper.AlertLevel())
	for len(events) > 0 {
		<-events
	}

	keeper.Toggle()
	assert.Equal(t, StateActive, keeper.State())
	assert.Equal(t, 10*time.Minute, keeper.Remaining())
	assert.Equal(t, 0, keeper.AlertLevel())

	var last Event
	for len(events) > 0 {
		last = <-events
	}
	assert.Equal(t, EventStateChange, last.Type)
	assert.Equal(t, 0, last.Level)
}

func TestSettingsChangeEventCarriesNewLevel(t *testing.T) {
	keeper, scheduler := newManualKeeper(t, model.Settings{LimitMinutes: 5, AlertThresholds: []int{0}})
	keeper.Toggle()
	scheduler.Advance(300)
	require.Equal(t, StateComplete, keeper.State())
	require.Equal(t, 0, keeper.AlertLevel())

	events := keeper.Subscribe(16)
	require.True(t, keeper.SetLimit("2"))
	require.True(t, keeper.SetAlert(0, "3"))
	assert.Equal(t, 1, keeper.AlertLevel())

	var settingsEvents []Event
	for len(events) > 0 {
		if event := <-events; event.Type == EventSettingsChange {
			settingsEvents = append(settingsEvents, event)
		}
	}
	require.Len(t, settingsEvents, 2)
	assert.Equal(t, 0, settingsEvents[0].Level)
	assert.Equal(t, 1, settingsEvents[1].Level)
}

func TestSubscribeReceivesTransitionsAndAlerts(t *testing.T) {
	keeper, scheduler := newManualKeeper(t, model.Settings{LimitMinutes: 1, AlertThresholds: []int{1}})
	events := keeper.Subscribe(256)

	keeper.Toggle()
	scheduler.Advance(60)

	var types []EventType
	var last Event
	for len(events) > 0 {
		last = <-events
		types = append(types, last.Type)
	}

	require.NotEmpty(t, types)
	assert.Equal(t, EventStateChange, types[0])
	assert.Contains(t, types, EventAlertChange)
	assert.Equal(t, EventStateChange, last.Type)
	assert.Equal(t, StateComplete, last.State)
	assert.Equal(t, time.Duration(0), last.Remaining)
	assert.Equal(t, 1, last.Level)
}

func TestCloseClosesSubscribers(t *testing.T) {
	keeper, scheduler := newManualKeeper(t, model.DefaultSettings())
	events := keeper.Subscribe(1)
	keeper.Toggle()
	keeper.Close()

	assert.False(t, scheduler.Running())
	for range events {
	}
	_, open := <-keeper.Subscribe(1)
	assert.False(t, open)
}

func TestRealTickerCompletesCountdown(t *testing.T) {
	keeper := New(model.Settings{LimitMinutes: 1, AlertThresholds: []int{0}}, Config{
		Scheduler: NewTickerScheduler(time.Millisecond),
	})
	t.Cleanup(keeper.Close)

	keeper.Toggle()
	require.Eventually(t, func() bool {
		return keeper.State() == StateComplete
	}, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, time.Duration(0), keeper.Remaining())
}
