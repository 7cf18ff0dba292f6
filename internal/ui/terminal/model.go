// Package terminal renders the countdown in a terminal with Bubble Tea.
package terminal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"countdown/internal/core/model"
	"countdown/internal/core/timekeeper"
	"countdown/internal/ui/display"
)

// Controller is the timer surface the terminal model drives.
type Controller interface {
	Toggle()
	Reset()
	SetLimit(raw string) bool
	AddAlert() bool
	RemoveAlert(index int) bool
	SetAlert(index int, raw string) bool
	Snapshot() timekeeper.Snapshot
}

type eventMsg timekeeper.Event

type eventsClosedMsg struct{}

var (
	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#18181b")).
			Padding(1, 4)

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#18181b"))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)
)

// Model is the Bubble Tea model for the countdown.
type Model struct {
	timer    Controller
	events   <-chan timekeeper.Event
	snapshot timekeeper.Snapshot
	cursor   int
	editing  bool
	input    textinput.Model
	keys     keyMap
	help     help.Model
	width    int
	quitting bool
}

// New creates a terminal model. events may be nil, in which case the view
// only refreshes after key presses.
func New(timer Controller, events <-chan timekeeper.Event) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 6
	input.Placeholder = "minutes"

	return Model{
		timer:    timer,
		events:   events,
		snapshot: timer.Snapshot(),
		input:    input,
		keys:     newKeyMap(),
		help:     help.New(),
	}
}

// Init starts listening for timer events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func waitForEvent(events <-chan timekeeper.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(event)
	}
}

// Update handles timer events and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.snapshot = m.timer.Snapshot()
		m.clampCursor()
		return m, waitForEvent(m.events)
	case eventsClosedMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.timer.Toggle()
	case key.Matches(msg, m.keys.Reset):
		m.timer.Reset()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snapshot.Settings.AlertThresholds) {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		if m.timer.AddAlert() {
			m.cursor = len(m.timer.Snapshot().Settings.AlertThresholds)
		}
	case key.Matches(msg, m.keys.Remove):
		if m.cursor > 0 {
			m.timer.RemoveAlert(m.cursor - 1)
		}
	case key.Matches(msg, m.keys.Edit):
		if !m.snapshot.Editable() {
			return m, nil
		}
		m.editing = true
		m.input.SetValue(strconv.Itoa(m.selectedValue()))
		m.input.CursorEnd()
		m.snapshot = m.timer.Snapshot()
		return m, m.input.Focus()
	}

	m.snapshot = m.timer.Snapshot()
	m.clampCursor()
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Commit):
		raw := m.input.Value()
		if m.cursor == 0 {
			m.timer.SetLimit(raw)
		} else {
			m.timer.SetAlert(m.cursor-1, raw)
		}
		m.stopEditing()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.input.Blur()
	m.input.SetValue("")
	m.snapshot = m.timer.Snapshot()
	m.clampCursor()
}

func (m *Model) clampCursor() {
	maxRow := len(m.snapshot.Settings.AlertThresholds)
	if m.cursor > maxRow {
		m.cursor = maxRow
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selectedValue() int {
	if m.cursor == 0 {
		return m.snapshot.Settings.LimitMinutes
	}
	return m.snapshot.Settings.AlertThresholds[m.cursor-1]
}

// View renders the clock, the settings rows and the key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	background := lipgloss.Color(display.LevelHex(display.AlertSlot(m.snapshot)))
	clock := clockStyle.Background(background).Render(display.FormatRemaining(m.snapshot.Remaining))
	state := stateStyle.Background(background).Padding(0, 1).Render(display.StateLabel(m.snapshot.State))

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, clock, " ", state))
	b.WriteString("\n\n")
	b.WriteString(m.renderSettings())
	b.WriteString("\n")
	if m.editing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(m.help.View(editKeyMap{keys: m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) renderSettings() string {
	settings := m.snapshot.Settings
	lines := make([]string, 0, len(settings.AlertThresholds)+2)
	lines = append(lines, m.renderRow(0, fmt.Sprintf("Time   %3d min", settings.LimitMinutes)))
	for index, threshold := range settings.AlertThresholds {
		label := fmt.Sprintf("Alert  %3d min before", threshold)
		if threshold == 0 {
			label = "Alert    - off"
		}
		lines = append(lines, m.renderRow(index+1, label))
	}
	if !m.snapshot.Editable() {
		lines = append(lines, lockedStyle.Render("settings locked until reset"))
	} else if len(settings.AlertThresholds) >= model.MaxThresholds {
		lines = append(lines, lockedStyle.Render("alert limit reached"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(row int, label string) string {
	if row == m.cursor {
		return selectedStyle.Render("> " + label)
	}
	return rowStyle.Render("  " + label)
}
