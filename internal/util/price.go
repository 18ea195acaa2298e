// Package util provides common utility functions for price calculations.
package util

import (
	"fmt"
	"math"
)

// RoundToTick rounds x to the nearest tick increment.
// For example, with tick=0.01, 1.2345 becomes 1.23 or 1.24 depending on rounding.
func RoundToTick(x, tick float64) float64 {
	if tick <= 0 {
		return x
	}
	return math.Round(x/tick) * tick
}

// Round3 rounds x to 3 decimal places, the precision used for spread
// credits and simulated fill prices.
func Round3(x float64) float64 {
	return RoundToTick(x, 0.001)
}

// Round2 rounds x to 2 decimal places, the precision used for reported
// profit figures.
func Round2(x float64) float64 {
	return RoundToTick(x, 0.01)
}

// FormatClock renders an intraday timestamp (HHMMSS scaled by 1000,
// e.g. 93000000 for 09:30:00.000) as "HH:MM:SS".
func FormatClock(ts int32) string {
	hhmmss := ts / 1000
	return fmt.Sprintf("%02d:%02d:%02d", hhmmss/10000, (hhmmss/100)%100, hhmmss%100)
}
