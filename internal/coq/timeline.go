package coq

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"coqboard/internal/config"
	"coqboard/internal/normalize"
	"coqboard/internal/workbook"
	"coqboard/pkg/contracts/domain"
)

// Classify buckets a yearly efficiency average. Lower is better.
func Classify(avg float64) domain.TimelineStatus {
	switch {
	case !isFinite(avg):
		return domain.StatusNeutral
	case avg <= config.TimelineQ33:
		return domain.StatusImproved
	case avg <= config.TimelineQ66:
		return domain.StatusNeutral
	default:
		return domain.StatusStable
	}
}

var statusWords = []struct {
	words  []string
	status domain.TimelineStatus
}{
	{[]string{"개선", "improve"}, domain.StatusImproved},
	{[]string{"중립", "neutral"}, domain.StatusNeutral},
	{[]string{"안정", "stable"}, domain.StatusStable},
}

// ParseStatus reads a status label in Korean or English
func ParseStatus(v any) (domain.TimelineStatus, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	for _, sw := range statusWords {
		for _, w := range sw.words {
			if strings.Contains(s, w) {
				return sw.status, true
			}
		}
	}
	return "", false
}

// Timeline reads the yearly timeline sheet. An explicit status wins;
// otherwise the yearly average is classified. A sheet with no usable rows
// yields the placeholder timeline.
func Timeline(t *workbook.Table, format normalize.NumberFormat) (domain.Timeline, []domain.RowIssue) {
	var items []domain.TimelineItem
	var issues []domain.RowIssue

	for _, rec := range t.Rows() {
		year, ok := normalize.ParseYear(rec.Value(config.FieldYear))
		if !ok {
			issues = append(issues, rowIssue(t, rec, "unreadable year %q", fmt.Sprint(rec.Value(config.FieldYear))))
			continue
		}

		item := domain.TimelineItem{Year: year}
		avg := math.NaN()
		if v, err := normalize.ParseNumber(rec.Value(config.FieldAverage), format); err == nil {
			avg = v
			item.Average = &v
		} else if !errors.Is(err, normalize.ErrEmpty) {
			issues = append(issues, rowIssue(t, rec, "average: %v", err))
		}

		if status, ok := ParseStatus(rec.Value(config.FieldStatus)); ok {
			item.Status = status
		} else {
			item.Status = Classify(avg)
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return FallbackTimeline(), issues
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Year < items[j].Year })
	return domain.Timeline{Source: domain.DataSourceLive, Items: items}, issues
}

// FallbackTimeline is the placeholder strip shown without a usable timeline sheet
func FallbackTimeline() domain.Timeline {
	return domain.Timeline{
		Source: domain.DataSourceFallback,
		Items: []domain.TimelineItem{
			{Year: 2020, Status: domain.StatusStable},
			{Year: 2021, Status: domain.StatusStable},
			{Year: 2022, Status: domain.StatusNeutral},
			{Year: 2023, Status: domain.StatusImproved},
			{Year: 2024, Status: domain.StatusNeutral},
			{Year: 2025, Status: domain.StatusImproved},
		},
	}
}
