package main

import (
	"errors"
	"fmt"
	"log/slog"

	"countdown/internal/core/timekeeper"
	"countdown/internal/platform"
	"countdown/internal/ui/animation"
	"countdown/internal/ui/countdown"
	"countdown/internal/ui/preferences"
	"countdown/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

func runDesktop(prefs preferences.Preferences, logger *slog.Logger) error {
	lock, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Info("another countdown window is open")
			return nil
		}
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = lock.Release()
	}()

	keeper := timekeeper.New(prefs.Timer, prefs.TimeKeeperConfig(logger))
	defer keeper.Close()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(theme.HistoryIcon())

	window := countdown.New(fyneApp, countdown.Config{
		Title:      appTitle,
		Fullscreen: prefs.Fullscreen,
		Width:      prefs.WindowWidth,
		Height:     prefs.WindowHeight,
	}, keeper)
	if prefs.AlertPulse {
		window.SetEngine(animation.New(animation.DefaultConfig(), window.SetHighlight))
	}

	quit := func() {
		keeper.Close()
		fyneApp.Quit()
	}

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		desktopApp.SetSystemTrayIcon(theme.HistoryIcon())
		trayManager = tray.New(desktopApp, appTitle, tray.Callbacks{
			OnShow:   window.Show,
			OnToggle: keeper.Toggle,
			OnReset:  keeper.Reset,
			OnQuit:   quit,
		})
		window.SetCloseIntercept(window.Hide)
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	events := keeper.Subscribe(16)
	go func() {
		for event := range events {
			logger.Debug("timer event", "type", event.Type, "state", event.State, "remaining", event.Remaining, "level", event.Level)
			snapshot := keeper.Snapshot()
			fyne.Do(func() {
				window.Update(snapshot)
				if trayManager != nil {
					trayManager.SetStatus(snapshot)
				}
			})
		}
	}()

	if trayManager != nil {
		trayManager.SetStatus(keeper.Snapshot())
	}
	window.Show()
	fyneApp.Run()
	return nil
}
