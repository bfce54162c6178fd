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

// ratioFields follows domain.Categories order
var ratioFields = []string{config.FieldPrevention, config.FieldAppraisal, config.FieldFailure}

// SummaryRow is one pre-computed line of the summary sheet
type SummaryRow struct {
	Average float64
	Trend   float64
}

// Reference holds the summary-sheet rows found for each category
type Reference map[domain.Category]SummaryRow

// RatioSeries reads the ratio sheet into month-ordered points.
// Rows with no parseable month or an invalid mix are dropped.
func RatioSeries(t *workbook.Table, format normalize.NumberFormat) ([]domain.RatioPoint, []domain.RowIssue) {
	var points []domain.RatioPoint
	var issues []domain.RowIssue

	for _, rec := range t.Rows() {
		month, ok := normalize.ParseMonth(rec.Value(config.FieldMonth))
		if !ok {
			issues = append(issues, rowIssue(t, rec, "%s", monthReason(rec.Value(config.FieldMonth))))
			continue
		}
		point, reason := ratioPoint(rec, format)
		if reason != "" {
			issues = append(issues, rowIssue(t, rec, "%s", reason))
			continue
		}
		point.Month = month
		point.Label = normalize.MonthLabel(month)
		points = append(points, point)
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Month.Before(points[j].Month) })
	return points, issues
}

// RecentRows reads the recent-window sheet. The month column is optional;
// when present and parseable it labels the point.
func RecentRows(t *workbook.Table, format normalize.NumberFormat) ([]domain.RatioPoint, []domain.RowIssue) {
	var points []domain.RatioPoint
	var issues []domain.RowIssue

	for _, rec := range t.Rows() {
		point, reason := ratioPoint(rec, format)
		if reason != "" {
			issues = append(issues, rowIssue(t, rec, "%s", reason))
			continue
		}
		if month, ok := normalize.ParseMonth(rec.Value(config.FieldMonth)); ok {
			point.Month = month
			point.Label = normalize.MonthLabel(month)
		}
		points = append(points, point)
	}
	return points, issues
}

// ratioPoint validates the three fractions of a row. A blank component reads
// as zero; the row is rejected when a component is not a number, negative,
// or the sum is not positive.
func ratioPoint(rec workbook.Record, format normalize.NumberFormat) (domain.RatioPoint, string) {
	var values [3]float64
	for i, field := range ratioFields {
		v, err := normalize.ParseNumber(rec.Value(field), format)
		switch {
		case errors.Is(err, normalize.ErrEmpty):
			v = 0
		case err != nil:
			return domain.RatioPoint{}, fmt.Sprintf("%s: %v", field, err)
		case v < 0:
			return domain.RatioPoint{}, fmt.Sprintf("%s: negative fraction %g", field, v)
		}
		values[i] = v
	}

	p := domain.RatioPoint{Prevention: values[0], Appraisal: values[1], Failure: values[2]}
	if sum := p.Total(); math.IsNaN(sum) || math.IsInf(sum, 0) || sum <= 0 {
		return domain.RatioPoint{}, "fractions do not sum to a positive value"
	}
	return p, ""
}

// SummaryReference reads the P, A and F rows of the summary sheet.
// Rows with other keys are ignored; rows with unreadable numbers are reported.
func SummaryReference(t *workbook.Table, format normalize.NumberFormat) (Reference, []domain.RowIssue) {
	ref := make(Reference)
	var issues []domain.RowIssue

	for _, rec := range t.Rows() {
		category, ok := parseCategory(rec.Value(config.FieldCategory))
		if !ok {
			continue
		}
		if _, seen := ref[category]; seen {
			continue
		}
		avg, err := normalize.ParseNumber(rec.Value(config.FieldAverage), format)
		if err != nil {
			issues = append(issues, rowIssue(t, rec, "%s average: %v", category, err))
			continue
		}
		trend, err := normalize.ParseNumber(rec.Value(config.FieldTrend), format)
		if err != nil {
			issues = append(issues, rowIssue(t, rec, "%s trend: %v", category, err))
			continue
		}
		ref[category] = SummaryRow{Average: avg, Trend: trend}
	}
	return ref, issues
}

func parseCategory(v any) (domain.Category, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "P", "PREVENTION":
		return domain.CategoryPrevention, true
	case "A", "APPRAISAL":
		return domain.CategoryAppraisal, true
	case "F", "FAILURE":
		return domain.CategoryFailure, true
	}
	return "", false
}

// EfficiencySeries reads the efficiency sheet into month-ordered points
func EfficiencySeries(t *workbook.Table, format normalize.NumberFormat) ([]domain.EfficiencyPoint, []domain.RowIssue) {
	var points []domain.EfficiencyPoint
	var issues []domain.RowIssue

	for _, rec := range t.Rows() {
		month, ok := normalize.ParseMonth(rec.Value(config.FieldMonth))
		if !ok {
			issues = append(issues, rowIssue(t, rec, "%s", monthReason(rec.Value(config.FieldMonth))))
			continue
		}
		eff, err := normalize.ParseNumber(rec.Value(config.FieldEfficiency), format)
		if err != nil {
			issues = append(issues, rowIssue(t, rec, "efficiency: %v", err))
			continue
		}
		points = append(points, domain.EfficiencyPoint{
			Month:      month,
			Label:      normalize.MonthLabel(month),
			Efficiency: eff,
		})
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Month.Before(points[j].Month) })
	return points, issues
}

func monthReason(v any) string {
	if v == nil {
		return "missing month"
	}
	return fmt.Sprintf("unparseable month %q", fmt.Sprint(v))
}

func rowIssue(t *workbook.Table, rec workbook.Record, format string, args ...any) domain.RowIssue {
	return domain.RowIssue{Sheet: t.Sheet, Row: rec.Line(), Reason: fmt.Sprintf(format, args...)}
}
