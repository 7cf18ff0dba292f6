// Package display holds presentation helpers shared by the desktop and
// terminal front ends.
package display

import (
	"fmt"
	"image/color"
	"time"

	"countdown/internal/core/alert"
	"countdown/internal/core/timekeeper"
)

// Palette colors as hex strings, usable by lipgloss directly.
const (
	ColorLime   = "#a3e635"
	ColorRed    = "#f87171"
	ColorOrange = "#fb923c"
	ColorYellow = "#facc15"
)

// Level n belongs to the threshold at index n-1: the first slot is red.
var levelColors = [alert.Max + 1]string{ColorLime, ColorRed, ColorOrange, ColorYellow}

// FormatRemaining renders remaining time as mm:ss. Minutes wrap at 60.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining / time.Second)
	minutes := (seconds % 3600) / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// AlertSlot returns the tightest threshold slot the snapshot sits in. Colors
// and the pulse follow the slot, so a sorted list walks yellow, orange, red.
func AlertSlot(snapshot timekeeper.Snapshot) int {
	return alert.Tightest(snapshot.Remaining, snapshot.Settings.AlertThresholds)
}

// LevelHex returns the background color for an alert slot.
func LevelHex(level int) string {
	if level < 0 || level > alert.Max {
		level = alert.Max
	}
	return levelColors[level]
}

// LevelColor returns the background color for an alert slot.
func LevelColor(level int) color.NRGBA {
	parsed, _ := ParseHex(LevelHex(level))
	return parsed
}

// ParseHex parses a #rrggbb string into an opaque color.
func ParseHex(hex string) (color.NRGBA, bool) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{A: 255}, false
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, true
}

// StateLabel returns the short status word shown next to the clock.
func StateLabel(state timekeeper.State) string {
	switch state {
	case timekeeper.StateActive:
		return "Running"
	case timekeeper.StatePaused:
		return "Paused"
	default:
		return "Ready"
	}
}

// ToggleLabel returns the caption for the start/pause control.
func ToggleLabel(state timekeeper.State) string {
	if state == timekeeper.StateActive {
		return "Pause"
	}
	return "Start"
}
