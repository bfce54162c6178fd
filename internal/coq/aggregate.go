package coq

import (
	"math"
	"sort"
	"time"

	"coqboard/internal/normalize"
	"coqboard/pkg/contracts/domain"
)

// RecentAverages returns the per-category mean of the last window points.
// A window below one covers every point; no points yields zeros.
func RecentAverages(points []domain.RatioPoint, window int) domain.CategoryValues {
	return mean(lastN(points, window))
}

// PercentChange returns (current-reference)/|reference|*100, or 0 when the
// reference is zero or either value is not finite
func PercentChange(reference, current float64) float64 {
	if reference == 0 || !isFinite(reference) || !isFinite(current) {
		return 0
	}
	change := (current - reference) / math.Abs(reference) * 100
	if !isFinite(change) {
		return 0
	}
	return change
}

// Summarize builds the KPI summary.
//
// The window averages come from recentRows when given, else from the last
// window points of the series. Deltas compare those averages with the window
// points right before the latest window. Summary-sheet rows replace the
// average and delta of their category. The pie always shows the window mix.
func Summarize(points []domain.RatioPoint, window int, recentRows []domain.RatioPoint, ref Reference) domain.RecentSummary {
	if window < 1 {
		window = 1
	}

	current := RecentAverages(points, window)
	if len(recentRows) > 0 {
		current = mean(recentRows)
	}

	var prior []domain.RatioPoint
	if end := len(points) - window; end > 0 {
		prior = points[max(0, end-window):end]
	}

	summary := domain.RecentSummary{
		Window:    window,
		Averages:  current,
		Reference: domain.ReferenceComputed,
	}
	if len(prior) > 0 {
		base := mean(prior)
		for _, c := range domain.Categories {
			summary.DeltaPct.Set(c, PercentChange(base.Get(c), current.Get(c)))
		}
	}

	summary.Pie = make([]domain.PieSlice, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		summary.Pie = append(summary.Pie, domain.PieSlice{Name: c.DisplayName(), Value: current.Get(c)})
	}

	overridden := 0
	for _, c := range domain.Categories {
		row, ok := ref[c]
		if !ok {
			continue
		}
		summary.Averages.Set(c, row.Average)
		summary.DeltaPct.Set(c, row.Trend)
		overridden++
	}
	switch {
	case overridden == len(domain.Categories):
		summary.Reference = domain.ReferenceSummarySheet
	case overridden > 0:
		summary.Reference = domain.ReferencePartial
	}
	return summary
}

// YearTicks returns one label per calendar year present (its January, else
// its first month) followed by the last month's label, without duplicates
func YearTicks(months []time.Time) []string {
	if len(months) == 0 {
		return []string{}
	}

	sorted := make([]time.Time, len(months))
	copy(sorted, months)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	ticks := make([]string, 0, len(sorted)/12+2)
	seen := make(map[string]bool)
	add := func(label string) {
		if !seen[label] {
			seen[label] = true
			ticks = append(ticks, label)
		}
	}

	// the earliest month of each year is its January when present
	lastYear := -1
	for _, m := range sorted {
		if m.Year() != lastYear {
			lastYear = m.Year()
			add(normalize.MonthLabel(m))
		}
	}
	add(normalize.MonthLabel(sorted[len(sorted)-1]))
	return ticks
}

// RatioMonths extracts the months of a ratio series
func RatioMonths(points []domain.RatioPoint) []time.Time {
	months := make([]time.Time, len(points))
	for i, p := range points {
		months[i] = p.Month
	}
	return months
}

// EfficiencyMonths extracts the months of an efficiency series
func EfficiencyMonths(points []domain.EfficiencyPoint) []time.Time {
	months := make([]time.Time, len(points))
	for i, p := range points {
		months[i] = p.Month
	}
	return months
}

func lastN(points []domain.RatioPoint, n int) []domain.RatioPoint {
	if n < 1 || n >= len(points) {
		return points
	}
	return points[len(points)-n:]
}

func mean(points []domain.RatioPoint) domain.CategoryValues {
	var avg domain.CategoryValues
	if len(points) == 0 {
		return avg
	}
	for _, p := range points {
		avg.Prevention += p.Prevention
		avg.Appraisal += p.Appraisal
		avg.Failure += p.Failure
	}
	n := float64(len(points))
	avg.Prevention /= n
	avg.Appraisal /= n
	avg.Failure /= n
	return avg
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
