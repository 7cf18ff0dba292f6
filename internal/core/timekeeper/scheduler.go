package timekeeper

import (
	"sync"
	"time"
)

// Scheduler delivers ticks to a single registered callback.
// Start replaces any previous registration. After Stop returns no new
// tick is started; a tick already in flight may still arrive, so callers
// that need a hard cutoff must discard it themselves.
type Scheduler interface {
	Start(onTick func())
	Stop()
}

// TickerScheduler drives ticks from a time.Ticker in its own goroutine.
type TickerScheduler struct {
	mu       sync.Mutex
	interval time.Duration
	stopCh   chan struct{}
}

// NewTickerScheduler creates a scheduler ticking every interval.
// A non-positive interval falls back to one second.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = time.Second
	}
	return &TickerScheduler{interval: interval}
}

// Start begins ticking, stopping any previous run first.
func (scheduler *TickerScheduler) Start(onTick func()) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.stopLocked()

	stopCh := make(chan struct{})
	scheduler.stopCh = stopCh
	go scheduler.run(stopCh, onTick)
}

// Stop cancels the current run. It never blocks on the tick goroutine, so it
// is safe to call from inside onTick.
func (scheduler *TickerScheduler) Stop() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.stopLocked()
}

// Interval returns the tick period.
func (scheduler *TickerScheduler) Interval() time.Duration {
	return scheduler.interval
}

// Running reports whether a run is registered.
func (scheduler *TickerScheduler) Running() bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.stopCh != nil
}

func (scheduler *TickerScheduler) stopLocked() {
	if scheduler.stopCh == nil {
		return
	}
	close(scheduler.stopCh)
	scheduler.stopCh = nil
}

func (scheduler *TickerScheduler) run(stopCh <-chan struct{}, onTick func()) {
	ticker := time.NewTicker(scheduler.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Prefer stop when both are ready.
			select {
			case <-stopCh:
				return
			default:
			}
			onTick()
		}
	}
}

// ManualScheduler delivers ticks only when told to. It is meant for tests
// and for driving a TimeKeeper from an external clock.
type ManualScheduler struct {
	mu     sync.Mutex
	onTick func()
	starts int
	stops  int
}

// NewManualScheduler creates an idle manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Start registers onTick, replacing any previous registration.
func (scheduler *ManualScheduler) Start(onTick func()) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.onTick = onTick
	scheduler.starts++
}

// Stop drops the registration.
func (scheduler *ManualScheduler) Stop() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.onTick != nil {
		scheduler.stops++
	}
	scheduler.onTick = nil
}

// Tick delivers one tick and reports whether a callback was registered.
func (scheduler *ManualScheduler) Tick() bool {
	scheduler.mu.Lock()
	onTick := scheduler.onTick
	scheduler.mu.Unlock()
	if onTick == nil {
		return false
	}
	onTick()
	return true
}

// Advance delivers up to count ticks, stopping early once unregistered.
// It returns the number of ticks delivered.
func (scheduler *ManualScheduler) Advance(count int) int {
	delivered := 0
	for delivered < count && scheduler.Tick() {
		delivered++
	}
	return delivered
}

// Running reports whether a callback is registered.
func (scheduler *ManualScheduler) Running() bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.onTick != nil
}

// Starts returns how many times Start was called.
func (scheduler *ManualScheduler) Starts() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.starts
}

// Stops returns how many registered runs were stopped.
func (scheduler *ManualScheduler) Stops() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.stops
}
