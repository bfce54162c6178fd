package exporter

import (
	"math"
	"strconv"
)

// formatFloat formats a value with exactly 2 decimal places so columns line
// up in spreadsheets. NaN and infinities become empty cells.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatPercent renders a 0..1 fraction as a percentage with 2 decimals
func formatPercent(f float64) string {
	return formatFloat(f * 100)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}
