package coq

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coqboard/internal/normalize"
	"coqboard/internal/shared/testutil"
	"coqboard/pkg/contracts/domain"
)

func point(year int, month time.Month, p, a, f float64) domain.RatioPoint {
	m := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return domain.RatioPoint{Month: m, Label: normalize.MonthLabel(m), Prevention: p, Appraisal: a, Failure: f}
}

func TestRecentAverages(t *testing.T) {
	points := []domain.RatioPoint{
		point(2024, time.January, 0.9, 0.9, 0.9),
		point(2024, time.February, 0.1, 0.4, 0.3),
		point(2024, time.March, 0.2, 0.5, 0.2),
		point(2024, time.April, 0.3, 0.3, 0.1),
	}

	avg := RecentAverages(points, 3)
	assert.InDelta(t, 0.2, avg.Prevention, 1e-12)
	assert.InDelta(t, 0.4, avg.Appraisal, 1e-12)
	assert.InDelta(t, 0.2, avg.Failure, 1e-12)

	// window larger than the series averages everything
	all := RecentAverages(points[:2], 3)
	assert.InDelta(t, 0.5, all.Prevention, 1e-12)
}

func TestRecentAverages_Empty(t *testing.T) {
	assert.Equal(t, domain.CategoryValues{}, RecentAverages(nil, 3))
	assert.Equal(t, domain.CategoryValues{}, RecentAverages([]domain.RatioPoint{}, 0))
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name      string
		reference float64
		current   float64
		want      float64
	}{
		{"increase", 0.2, 0.25, 25},
		{"decrease", 0.4, 0.3, -25},
		{"negative reference uses magnitude", -2, -1, 50},
		{"zero reference", 0, 0.3, 0},
		{"nan current", 0.2, math.NaN(), 0},
		{"infinite reference", math.Inf(1), 0.3, 0},
		{"unchanged", 0.3, 0.3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PercentChange(tt.reference, tt.current), 1e-9)
		})
	}
}

func TestPercentChange_ScaleInvariant(t *testing.T) {
	pairs := [][2]float64{{0.2, 0.25}, {0.162, 0.17}, {3, 1.5}, {-0.4, 0.1}}
	for _, pair := range pairs {
		for _, k := range []float64{2, 10, 0.001} {
			assert.InDelta(t, PercentChange(pair[0], pair[1]), PercentChange(pair[0]*k, pair[1]*k), 1e-9)
		}
	}
}

func TestSummarize_Computed(t *testing.T) {
	points := []domain.RatioPoint{
		point(2024, time.January, 0.1, 0.4, 0.4),
		point(2024, time.February, 0.1, 0.4, 0.4),
		point(2024, time.March, 0.1, 0.4, 0.4),
		point(2024, time.April, 0.2, 0.4, 0.2),
		point(2024, time.May, 0.2, 0.4, 0.2),
		point(2024, time.June, 0.2, 0.4, 0.2),
	}

	s := Summarize(points, 3, nil, nil)
	assert.Equal(t, 3, s.Window)
	assert.Equal(t, domain.ReferenceComputed, s.Reference)
	assert.InDelta(t, 0.2, s.Averages.Prevention, 1e-12)
	assert.InDelta(t, 100, s.DeltaPct.Prevention, 1e-9)
	assert.InDelta(t, 0, s.DeltaPct.Appraisal, 1e-9)
	assert.InDelta(t, -50, s.DeltaPct.Failure, 1e-9)

	require.Len(t, s.Pie, 3)
	assert.Equal(t, "Prevention (P)", s.Pie[0].Name)
	assert.Equal(t, "Appraisal (A)", s.Pie[1].Name)
	assert.Equal(t, "Failure (F)", s.Pie[2].Name)
	assert.InDelta(t, 0.2, s.Pie[2].Value, 1e-12)
}

func TestSummarize_NoPriorWindow(t *testing.T) {
	points := []domain.RatioPoint{
		point(2024, time.January, 0.1, 0.4, 0.4),
		point(2024, time.February, 0.3, 0.4, 0.2),
	}

	s := Summarize(points, 3, nil, nil)
	assert.InDelta(t, 0.2, s.Averages.Prevention, 1e-12)
	assert.Equal(t, domain.CategoryValues{}, s.DeltaPct)
}

func TestSummarize_RecentRowsAndReference(t *testing.T) {
	points := []domain.RatioPoint{
		point(2024, time.January, 0.1, 0.4, 0.4),
		point(2024, time.February, 0.1, 0.4, 0.4),
	}
	recent := []domain.RatioPoint{
		{Prevention: 0.3, Appraisal: 0.3, Failure: 0.3},
		{Prevention: 0.1, Appraisal: 0.5, Failure: 0.1},
	}
	ref := Reference{domain.CategoryAppraisal: {Average: 0.45, Trend: -4.7}}

	s := Summarize(points, 1, recent, ref)
	assert.Equal(t, domain.ReferencePartial, s.Reference)
	assert.InDelta(t, 0.2, s.Averages.Prevention, 1e-12)
	assert.InDelta(t, 0.45, s.Averages.Appraisal, 1e-12)
	assert.InDelta(t, -4.7, s.DeltaPct.Appraisal, 1e-12)
	// prior window is January against the recent-sheet mix
	assert.InDelta(t, 100, s.DeltaPct.Prevention, 1e-9)
	// the pie keeps the window mix
	assert.InDelta(t, 0.4, s.Pie[1].Value, 1e-12)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 3, nil, nil)
	assert.Equal(t, domain.CategoryValues{}, s.Averages)
	assert.Equal(t, domain.CategoryValues{}, s.DeltaPct)
	assert.Len(t, s.Pie, 3)
	for _, slice := range s.Pie {
		assert.Zero(t, slice.Value)
	}
}

func TestYearTicks(t *testing.T) {
	want := []string{"Jan 20", "Jan 21", "Jan 22", "Jan 23", "Jan 24", "Jan 25", "Apr 25"}
	assert.Equal(t, want, YearTicks(testutil.COQMonths()))
}

func TestYearTicks_FirstMonthWhenNoJanuary(t *testing.T) {
	months := []time.Time{
		time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.July, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, []string{"Mar 20", "Jan 21", "Jun 21"}, YearTicks(months))

	single := []time.Time{time.Date(2022, time.May, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, []string{"May 22"}, YearTicks(single))

	assert.Empty(t, YearTicks(nil))
}

func TestYearTicks_Idempotent(t *testing.T) {
	months := testutil.COQMonths()
	first := YearTicks(months)
	second := YearTicks(months)
	assert.Equal(t, first, second)

	// ticks parsed back into months give the same ticks
	var tickMonths []time.Time
	for _, label := range first {
		m, ok := normalize.ParseMonth(label)
		require.True(t, ok, label)
		tickMonths = append(tickMonths, m)
	}
	assert.Equal(t, first, YearTicks(tickMonths))
}
