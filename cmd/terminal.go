package main

import (
	"log/slog"

	"countdown/internal/core/timekeeper"
	"countdown/internal/ui/preferences"
	"countdown/internal/ui/terminal"

	tea "github.com/charmbracelet/bubbletea"
)

func runTUI(prefs preferences.Preferences, logger *slog.Logger) error {
	keeper := timekeeper.New(prefs.Timer, prefs.TimeKeeperConfig(logger))
	defer keeper.Close()

	program := tea.NewProgram(terminal.New(keeper, keeper.Subscribe(16)), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
