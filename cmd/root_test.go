package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countdown/internal/ui/preferences"
)

func stubRunners(t *testing.T) (*preferences.Preferences, *string) {
	t.Helper()
	var (
		got  preferences.Preferences
		mode string
	)
	prevGUI, prevTUI := runGUI, runTerminal
	runGUI = func(prefs preferences.Preferences, _ *slog.Logger) error {
		got, mode = prefs, "gui"
		return nil
	}
	runTerminal = func(prefs preferences.Preferences, _ *slog.Logger) error {
		got, mode = prefs, "tui"
		return nil
	}
	t.Cleanup(func() {
		runGUI, runTerminal = prevGUI, prevTUI
	})
	return &got, &mode
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRootUsesConfigFile(t *testing.T) {
	got, mode := stubRunners(t)
	path := writeConfig(t, "limit_minutes: 25\nalert_thresholds: [5, 1]\n")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", path})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "gui", *mode)
	assert.Equal(t, 25, got.Timer.LimitMinutes)
	assert.Equal(t, []int{5, 1}, got.Timer.AlertThresholds)
}

func TestFlagsOverrideConfig(t *testing.T) {
	got, mode := stubRunners(t)
	path := writeConfig(t, "limit_minutes: 25\nalert_thresholds: [5]\n")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"tui", "--config", path, "--limit", "7", "--alert", "1", "--alert", "3"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "tui", *mode)
	assert.Equal(t, 7, got.Timer.LimitMinutes)
	assert.Equal(t, []int{1, 3}, got.Timer.AlertThresholds)
}

func TestFlagsAreSanitized(t *testing.T) {
	got, _ := stubRunners(t)
	path := writeConfig(t, "")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", path, "--limit", "0", "--alert", "1,2,3,4"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, 10, got.Timer.LimitMinutes)
	assert.Equal(t, []int{1, 2, 3}, got.Timer.AlertThresholds)
}

func TestBadConfigFails(t *testing.T) {
	_, mode := stubRunners(t)
	path := writeConfig(t, "limit_minutes: [oops\n")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", path})
	cmd.SetErr(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
	assert.Empty(t, *mode)
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false, slog.LevelError).Info("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, true, slog.LevelError).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
