// Package model holds the calendar projection rules.
package model

import "math"

const (
	MarkerCheckIn  = "check-in"
	MarkerCheckOut = "check-out"

	MarkerCheckInColor  = "#d4edda"
	MarkerCheckOutColor = "#f8d7da"

	DisplayBlock      = "block"
	DisplayBackground = "background"
)

// OccupancyRate returns occupied over capacity as a percentage rounded to one decimal.
func OccupancyRate(occupied, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}

	return math.Round(float64(occupied)/float64(capacity)*1000) / 10
}
