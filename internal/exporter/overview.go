package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"coqboard/pkg/contracts/domain"
)

// Standard export file names
const (
	RatiosFile     = "ratios.csv"
	EfficiencyFile = "efficiency.csv"
	TimelineFile   = "timeline.csv"
	SummaryFile    = "summary.csv"
)

const monthLayout = "2006-01"

// Table is one CSV file worth of data
type Table struct {
	Headers []string
	Records [][]string
}

// RatioTable lists the monthly ratio series as percentages
func RatioTable(o *domain.Overview) Table {
	t := Table{Headers: []string{"month", "label", "prevention_pct", "appraisal_pct", "failure_pct"}}
	for _, p := range o.Ratios {
		t.Records = append(t.Records, []string{
			p.Month.Format(monthLayout),
			p.Label,
			formatPercent(p.Prevention),
			formatPercent(p.Appraisal),
			formatPercent(p.Failure),
		})
	}
	return t
}

// EfficiencyTable lists the monthly efficiency index
func EfficiencyTable(o *domain.Overview) Table {
	t := Table{Headers: []string{"month", "label", "efficiency"}}
	for _, p := range o.Efficiency {
		t.Records = append(t.Records, []string{
			p.Month.Format(monthLayout),
			p.Label,
			formatFloat(p.Efficiency),
		})
	}
	return t
}

// TimelineTable lists the yearly classification. Years without an average
// get an empty average cell.
func TimelineTable(o *domain.Overview) Table {
	t := Table{Headers: []string{"year", "status", "average"}}
	for _, item := range o.Timeline.Items {
		avg := ""
		if item.Average != nil {
			avg = formatFloat(*item.Average)
		}
		t.Records = append(t.Records, []string{formatInt(item.Year), string(item.Status), avg})
	}
	return t
}

// SummaryTable lists the recent-window averages and deltas per category
func SummaryTable(o *domain.Overview) Table {
	t := Table{Headers: []string{"category", "name", "recent_avg_pct", "delta_pct", "window", "reference", "source"}}
	for _, c := range domain.Categories {
		t.Records = append(t.Records, []string{
			string(c),
			c.DisplayName(),
			formatPercent(o.Recent.Averages.Get(c)),
			formatFloat(o.Recent.DeltaPct.Get(c)),
			formatInt(o.Recent.Window),
			string(o.Recent.Reference),
			string(o.Source),
		})
	}
	return t
}

// ExportOverview writes the standard files and returns their paths in
// write order. It stops at the first failure or when ctx is done.
func ExportOverview(ctx context.Context, w *CSVWriter, o *domain.Overview) ([]string, error) {
	if o == nil {
		return nil, errors.New("overview is required")
	}

	files := []struct {
		name  string
		table Table
	}{
		{RatiosFile, RatioTable(o)},
		{EfficiencyFile, EfficiencyTable(o)},
		{TimelineFile, TimelineTable(o)},
		{SummaryFile, SummaryTable(o)},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path, err := w.WriteTable(f.name, f.table)
		if err != nil {
			return written, fmt.Errorf("export %s: %w", f.name, err)
		}
		written = append(written, path)
	}

	w.logger.InfoContext(ctx, "Overview exported",
		slog.Int("files", len(written)),
		slog.String("source", string(o.Source)))
	return written, nil
}
