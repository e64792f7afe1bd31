package exporter

import "strconv"

// formatFloat renders a monetary value with two decimal places.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatInt renders an integer value.
func formatInt(v int) string {
	return strconv.Itoa(v)
}
