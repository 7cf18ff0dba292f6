// Package animation flashes the countdown background when an alert
// escalates.
package animation

import (
	"context"
	"sync"
	"time"
)

// Config contains pulse timing values.
type Config struct {
	// Flash is how long the highlight is shown per cycle.
	Flash time.Duration
	// Rest is how long the highlight is off between flashes.
	Rest time.Duration
	// Cycles is the number of flashes per pulse.
	Cycles int
}

// DefaultConfig returns three quick flashes.
func DefaultConfig() Config {
	return Config{
		Flash:  180 * time.Millisecond,
		Rest:   220 * time.Millisecond,
		Cycles: 3,
	}
}

// Engine runs at most one pulse at a time.
type Engine struct {
	mu           sync.Mutex
	config       Config
	setHighlight func(bool)
	cancel       context.CancelFunc
	done         chan struct{}
}

// New creates a pulse engine. setHighlight is called from the engine's
// goroutine and must marshal onto the UI thread itself.
func New(config Config, setHighlight func(bool)) *Engine {
	if config.Cycles <= 0 {
		config.Cycles = DefaultConfig().Cycles
	}
	return &Engine{
		config:       config,
		setHighlight: setHighlight,
	}
}

// Start begins a pulse, cancelling any pulse already running. The
// highlight is always switched off when the pulse ends or is cancelled.
func (engine *Engine) Start(ctx context.Context) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		engine.run(runCtx)
	}()
}

// Stop terminates any active pulse and waits for it to finish.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel := engine.cancel
	done := engine.done
	engine.cancel = nil
	engine.done = nil
	engine.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (engine *Engine) run(ctx context.Context) {
	defer engine.setHighlight(false)
	for cycle := 0; cycle < engine.config.Cycles; cycle++ {
		engine.setHighlight(true)
		if !sleepWithContext(ctx, engine.config.Flash) {
			return
		}
		engine.setHighlight(false)
		if !sleepWithContext(ctx, engine.config.Rest) {
			return
		}
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
