package tray

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countdown/internal/core/timekeeper"
)

func TestStatusFollowsSnapshot(t *testing.T) {
	manager := New(nil, "Countdown", Callbacks{})

	manager.SetStatus(timekeeper.Snapshot{State: timekeeper.StateActive, Remaining: 179 * time.Second, Level: 1})
	assert.Equal(t, "02:59 Running (alert 1)", manager.statusItem.Label)
	assert.Equal(t, "Pause", manager.toggleItem.Label)

	manager.SetStatus(timekeeper.Snapshot{State: timekeeper.StatePaused, Remaining: 179 * time.Second})
	assert.Equal(t, "02:59 Paused", manager.statusItem.Label)
	assert.Equal(t, "Start", manager.toggleItem.Label)
}

func TestMenuInvokesCallbacks(t *testing.T) {
	var toggled, reset, shown, quit int
	manager := New(nil, "Countdown", Callbacks{
		OnShow:   func() { shown++ },
		OnToggle: func() { toggled++ },
		OnReset:  func() { reset++ },
		OnQuit:   func() { quit++ },
	})

	items := map[string]func(){}
	for _, item := range manager.Menu().Items {
		if item.Action != nil {
			items[item.Label] = item.Action
		}
	}
	require.Len(t, items, 4)

	items["Start"]()
	items["Reset"]()
	items["Show"]()
	items["Quit"]()
	assert.Equal(t, []int{1, 1, 1, 1}, []int{toggled, reset, shown, quit})
}
