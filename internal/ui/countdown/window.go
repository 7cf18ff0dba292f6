package countdown

import (
	"context"
	"image/color"

	"countdown/internal/core/alert"
	"countdown/internal/core/timekeeper"
	"countdown/internal/ui/animation"
	"countdown/internal/ui/display"
	"countdown/internal/ui/preferences"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Config defines window options.
type Config struct {
	Title      string
	Fullscreen bool
	Width      float32
	Height     float32
}

// Controller is the timer surface the window drives.
type Controller interface {
	preferences.Controller
	Toggle()
	Reset()
}

var highlightColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Window shows the remaining time on a background colored by alert slot.
type Window struct {
	window       fyne.Window
	config       Config
	controller   Controller
	background   *canvas.Rectangle
	timerLabel   *canvas.Text
	stateLabel   *widget.Label
	toggleButton *widget.Button
	resetButton  *widget.Button
	panel        *preferences.Panel
	engine       *animation.Engine
	slot         int
	highlight    bool
}

// New creates the countdown window. Call Update whenever the timer changes.
func New(app fyne.App, config Config, controller Controller) *Window {
	if config.Title == "" {
		config.Title = "Countdown"
	}
	window := app.NewWindow(config.Title)

	snapshot := controller.Snapshot()

	background := canvas.NewRectangle(display.LevelColor(display.AlertSlot(snapshot)))

	timerLabel := canvas.NewText(display.FormatRemaining(snapshot.Remaining), color.Black)
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 96

	stateLabel := widget.NewLabelWithStyle(display.StateLabel(snapshot.State), fyne.TextAlignCenter, fyne.TextStyle{})

	toggleButton := widget.NewButtonWithIcon(display.ToggleLabel(snapshot.State), theme.MediaPlayIcon(), nil)
	resetButton := widget.NewButtonWithIcon("Reset", theme.ViewRefreshIcon(), nil)

	panel := preferences.NewPanel(controller)

	buttons := container.NewHBox(layout.NewSpacer(), toggleButton, resetButton, layout.NewSpacer())
	clock := container.NewVBox(layout.NewSpacer(), timerLabel, stateLabel, buttons, layout.NewSpacer())
	content := container.NewBorder(nil, container.NewPadded(panel.Content()), nil, nil, clock)
	window.SetContent(container.NewStack(background, content))

	countdown := &Window{
		window:       window,
		config:       config,
		controller:   controller,
		background:   background,
		timerLabel:   timerLabel,
		stateLabel:   stateLabel,
		toggleButton: toggleButton,
		resetButton:  resetButton,
		panel:        panel,
		slot:         display.AlertSlot(snapshot),
	}

	// Toggle and reset refresh immediately; ticks arrive through Update.
	toggleButton.OnTapped = func() {
		controller.Toggle()
		countdown.Update(controller.Snapshot())
	}
	resetButton.OnTapped = func() {
		controller.Reset()
		countdown.Update(controller.Snapshot())
	}

	countdown.Update(snapshot)
	countdown.applyWindowMode()
	return countdown
}

// SetEngine attaches the alert pulse engine.
func (countdown *Window) SetEngine(engine *animation.Engine) {
	countdown.engine = engine
}

// Show displays the window.
func (countdown *Window) Show() {
	countdown.window.Show()
	countdown.window.RequestFocus()
}

// Hide hides the window without closing it.
func (countdown *Window) Hide() {
	countdown.window.Hide()
}

// SetCloseIntercept replaces the default close behavior.
func (countdown *Window) SetCloseIntercept(handler func()) {
	countdown.window.SetCloseIntercept(handler)
}

// Update renders a snapshot. It must run on the UI thread.
func (countdown *Window) Update(snapshot timekeeper.Snapshot) {
	countdown.timerLabel.Text = display.FormatRemaining(snapshot.Remaining)
	countdown.timerLabel.Refresh()
	countdown.stateLabel.SetText(display.StateLabel(snapshot.State))

	countdown.toggleButton.SetText(display.ToggleLabel(snapshot.State))
	if snapshot.State == timekeeper.StateActive {
		countdown.toggleButton.SetIcon(theme.MediaPauseIcon())
	} else {
		countdown.toggleButton.SetIcon(theme.MediaPlayIcon())
	}

	countdown.panel.Update(snapshot)

	slot := display.AlertSlot(snapshot)
	escalated := alert.Escalated(countdown.slot, slot)
	countdown.slot = slot
	if countdown.engine != nil {
		if escalated {
			countdown.engine.Start(context.Background())
		} else if slot == alert.None {
			countdown.engine.Stop()
		}
	}
	countdown.applyBackground()
}

// SetHighlight switches the pulse highlight. It may be called from any
// goroutine.
func (countdown *Window) SetHighlight(on bool) {
	fyne.Do(func() {
		countdown.setHighlightUnsafe(on)
	})
}

func (countdown *Window) setHighlightUnsafe(on bool) {
	countdown.highlight = on
	countdown.applyBackground()
}

func (countdown *Window) applyBackground() {
	if countdown.highlight {
		countdown.background.FillColor = highlightColor
	} else {
		countdown.background.FillColor = display.LevelColor(countdown.slot)
	}
	canvas.Refresh(countdown.background)
}

func (countdown *Window) applyWindowMode() {
	if countdown.config.Fullscreen {
		countdown.window.SetFullScreen(true)
		return
	}
	countdown.window.SetFullScreen(false)
	if countdown.config.Width > 0 && countdown.config.Height > 0 {
		countdown.window.Resize(fyne.NewSize(countdown.config.Width, countdown.config.Height))
	}
	countdown.window.CenterOnScreen()
}
