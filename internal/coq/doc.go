// Package coq turns bound workbook tables into the overview dataset.
//
// Series builders validate each row and drop the ones that fail, returning a
// domain.RowIssue per dropped row. Aggregation helpers are pure:
//
//	RecentAverages(points, 3)         mean of the last three points
//	PercentChange(ref, cur)           (cur-ref)/|ref|*100, 0 when ref is 0
//	Summarize(points, 3, recent, ref) averages, deltas and pie for the KPI cards
//	YearTicks(months)                 one label per year plus the last month
//
// Build runs all of them over a workbook and returns a LIVE overview;
// FallbackOverview returns the placeholder used when the workbook is unusable.
package coq
