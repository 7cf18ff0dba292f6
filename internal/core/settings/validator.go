// Package settings normalizes raw user input into a valid model.Settings.
//
// Every function here follows the same rule: invalid input leaves the
// previous value in place and reports false. Nothing returns an error.
package settings

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"countdown/internal/core/model"
)

// maxMinutes keeps minute counts convertible to time.Duration.
const maxMinutes = math.MaxInt64 / int64(time.Minute)

// ParseMinutes parses a non-negative whole number of minutes.
// Blank input reads as zero, matching what a cleared numeric field holds.
func ParseMinutes(raw string) (int, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, true
	}

	if parsed, err := strconv.Atoi(value); err == nil {
		if parsed < 0 || int64(parsed) > maxMinutes {
			return 0, false
		}
		return parsed, true
	}

	// Numeric widgets may hand back "5.0".
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	if parsed < 0 || parsed != math.Trunc(parsed) || parsed > float64(maxMinutes) {
		return 0, false
	}
	return int(parsed), true
}

// ParseLimit parses a countdown length, which must be positive.
func ParseLimit(raw string) (int, bool) {
	minutes, ok := ParseMinutes(raw)
	if !ok || minutes <= 0 {
		return 0, false
	}
	return minutes, true
}

// ApplyLimit returns the parsed limit when it is valid, otherwise current.
func ApplyLimit(current int, raw string) int {
	minutes, ok := ParseLimit(raw)
	if !ok {
		return current
	}
	return minutes
}

// ApplyThreshold sets thresholds[index] from raw. Zero disables the slot.
func ApplyThreshold(thresholds []int, index int, raw string) ([]int, bool) {
	if index < 0 || index >= len(thresholds) {
		return thresholds, false
	}
	minutes, ok := ParseMinutes(raw)
	if !ok {
		return thresholds, false
	}
	updated := slices.Clone(thresholds)
	updated[index] = minutes
	return updated, true
}

// AddThreshold appends a disabled slot unless the list is full.
func AddThreshold(thresholds []int) ([]int, bool) {
	if len(thresholds) >= model.MaxThresholds {
		return thresholds, false
	}
	updated := make([]int, len(thresholds), len(thresholds)+1)
	copy(updated, thresholds)
	return append(updated, 0), true
}

// RemoveThreshold drops thresholds[index]. The last slot is never removed.
func RemoveThreshold(thresholds []int, index int) ([]int, bool) {
	if len(thresholds) <= 1 || index < 0 || index >= len(thresholds) {
		return thresholds, false
	}
	updated := make([]int, 0, len(thresholds)-1)
	updated = append(updated, thresholds[:index]...)
	updated = append(updated, thresholds[index+1:]...)
	return updated, true
}

// SortForActivation returns an ascending copy of thresholds.
func SortForActivation(thresholds []int) []int {
	sorted := slices.Clone(thresholds)
	slices.Sort(sorted)
	return sorted
}

// Sanitize repairs settings that did not come through the edit functions,
// such as values read from a config file.
func Sanitize(settings model.Settings) model.Settings {
	result := model.Settings{LimitMinutes: settings.LimitMinutes}
	if result.LimitMinutes <= 0 || int64(result.LimitMinutes) > maxMinutes {
		result.LimitMinutes = model.DefaultLimitMinutes
	}

	for _, threshold := range settings.AlertThresholds {
		if threshold < 0 || int64(threshold) > maxMinutes {
			continue
		}
		if len(result.AlertThresholds) == model.MaxThresholds {
			break
		}
		result.AlertThresholds = append(result.AlertThresholds, threshold)
	}
	if len(result.AlertThresholds) == 0 {
		result.AlertThresholds = []int{0}
	}
	return result
}
