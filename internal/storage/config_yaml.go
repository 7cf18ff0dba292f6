package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"countdown/internal/core/settings"
	"countdown/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

type yamlConfig struct {
	LimitMinutes    *int  `yaml:"limit_minutes"`
	AlertThresholds []int `yaml:"alert_thresholds"`
	Fullscreen      bool  `yaml:"fullscreen"`
	AlertPulse      *bool `yaml:"alert_pulse"`
	WindowWidth     int   `yaml:"window_width"`
	WindowHeight    int   `yaml:"window_height"`
}

// LoadConfig reads startup preferences from the default config location.
// If the config file does not exist, default preferences are returned.
func LoadConfig(appName string) (preferences.Preferences, error) {
	configPath, err := ResolveConfigPath(appName)
	if err != nil {
		return preferences.DefaultPreferences(), err
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile reads startup preferences from configPath.
// The file is never written; edits made at runtime are not persisted.
func LoadConfigFile(configPath string) (preferences.Preferences, error) {
	prefs := preferences.DefaultPreferences()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return prefs, fmt.Errorf("parse config yaml: %w", err)
	}

	applyYamlConfig(&prefs, fileData)
	return prefs, nil
}

// ResolveConfigPath returns the config file path for appName.
func ResolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

func applyYamlConfig(prefs *preferences.Preferences, fileData yamlConfig) {
	if fileData.LimitMinutes != nil {
		prefs.Timer.LimitMinutes = *fileData.LimitMinutes
	}
	if fileData.AlertThresholds != nil {
		prefs.Timer.AlertThresholds = fileData.AlertThresholds
	}
	prefs.Timer = settings.Sanitize(prefs.Timer)

	if fileData.AlertPulse != nil {
		prefs.AlertPulse = *fileData.AlertPulse
	}
	if fileData.WindowWidth > 0 {
		prefs.WindowWidth = float32(fileData.WindowWidth)
	}
	if fileData.WindowHeight > 0 {
		prefs.WindowHeight = float32(fileData.WindowHeight)
	}

	prefs.Fullscreen = fileData.Fullscreen
}
