package tray

import (
	"fmt"

	"countdown/internal/core/timekeeper"
	"countdown/internal/ui/display"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow   func()
	OnToggle func()
	OnReset  func()
	OnQuit   func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	title      string
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	callbacks  Callbacks
	status     string
}

// New creates a tray manager with the provided callbacks. app may be nil,
// in which case the menu is tracked but never installed.
func New(app desktop.App, title string, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		title:     title,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggle != nil {
			manager.callbacks.OnToggle()
		}
	})
	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})

	manager.SetStatus(timekeeper.Snapshot{State: timekeeper.StateComplete})
	return manager
}

// SetStatus updates the status line and the start/pause label from a
// timer snapshot.
func (manager *Manager) SetStatus(snapshot timekeeper.Snapshot) {
	status := fmt.Sprintf("%s %s", display.FormatRemaining(snapshot.Remaining), display.StateLabel(snapshot.State))
	if snapshot.Level > 0 {
		status = fmt.Sprintf("%s (alert %d)", status, snapshot.Level)
	}
	label := display.ToggleLabel(snapshot.State)
	if status == manager.status && label == manager.toggleItem.Label {
		return
	}

	manager.status = status
	manager.statusItem.Label = status
	manager.toggleItem.Label = label
	manager.refreshMenu()
}

// Menu returns the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	show := fyne.NewMenuItem("Show", func() {
		if manager.callbacks.OnShow != nil {
			manager.callbacks.OnShow()
		}
	})
	quit := fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	quit.IsQuit = true

	return fyne.NewMenu(manager.title,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		show,
		manager.toggleItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		quit,
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}
