// Package alert maps remaining countdown time to an alert level.
package alert

import "time"

// None means no threshold has been crossed.
const None = 0

// Max is the most escalated level, reached through the third threshold.
const Max = 3

// Level returns the alert level for remaining time against thresholds
// given in minutes. Thresholds are scanned from the last entry backward and
// the first enabled one (t > 0) with remaining < t minutes decides the
// level as its position plus one. Disabled thresholds never match.
func Level(remaining time.Duration, thresholds []int) int {
	for index := len(thresholds) - 1; index >= 0; index-- {
		minutes := thresholds[index]
		if minutes <= 0 {
			continue
		}
		if remaining < time.Duration(minutes)*time.Minute {
			return index + 1
		}
	}
	return None
}

// Tightest returns the position plus one of the first enabled threshold
// whose window contains remaining. With ascending thresholds the slot
// moves toward 1 as time runs out, so it drives the escalating colors.
func Tightest(remaining time.Duration, thresholds []int) int {
	for index, minutes := range thresholds {
		if minutes <= 0 {
			continue
		}
		if remaining < time.Duration(minutes)*time.Minute {
			return index + 1
		}
	}
	return None
}

// Escalated reports whether moving from slot previous to slot next
// raises urgency: entering any slot, or moving to a tighter one.
func Escalated(previous, next int) bool {
	if next == None {
		return false
	}
	return previous == None || next < previous
}
