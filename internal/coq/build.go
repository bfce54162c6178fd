package coq

import (
	"time"

	"coqboard/internal/config"
	"coqboard/internal/normalize"
	"coqboard/internal/workbook"
	"coqboard/pkg/contracts/domain"
)

// Options controls how a workbook becomes an overview
type Options struct {
	Schema       config.SchemaConfig
	NumberFormat normalize.NumberFormat
	Window       int
	Now          func() time.Time
}

// OptionsFrom derives build options from configuration
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Schema:       cfg.Schema,
		NumberFormat: normalize.NumberFormat(cfg.Workbook.NumberFormat),
		Window:       cfg.Workbook.RecentWindow,
	}
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

func (o Options) window() int {
	if o.Window < 1 {
		return 3
	}
	return o.Window
}

// Build aggregates every declared sheet of wb into a LIVE overview.
// A missing required sheet or column is a schema error; bad rows are
// dropped and listed in SkippedRows.
func Build(wb *workbook.Workbook, opts Options) (*domain.Overview, error) {
	var skipped []domain.RowIssue

	ratioTable, _, err := workbook.BindRole(wb, opts.Schema, config.RoleRatios)
	if err != nil {
		return nil, err
	}
	ratios, issues := RatioSeries(ratioTable, opts.NumberFormat)
	skipped = append(skipped, issues...)

	var recent []domain.RatioPoint
	if t, ok, err := workbook.BindRole(wb, opts.Schema, config.RoleRecent); err != nil {
		return nil, err
	} else if ok {
		recent, issues = RecentRows(t, opts.NumberFormat)
		skipped = append(skipped, issues...)
	}

	var ref Reference
	if t, ok, err := workbook.BindRole(wb, opts.Schema, config.RoleSummary); err != nil {
		return nil, err
	} else if ok {
		ref, issues = SummaryReference(t, opts.NumberFormat)
		skipped = append(skipped, issues...)
	}

	efficiency := []domain.EfficiencyPoint{}
	if t, ok, err := workbook.BindRole(wb, opts.Schema, config.RoleEfficiency); err != nil {
		return nil, err
	} else if ok {
		efficiency, issues = EfficiencySeries(t, opts.NumberFormat)
		skipped = append(skipped, issues...)
	}

	timeline := FallbackTimeline()
	if t, ok, err := workbook.BindRole(wb, opts.Schema, config.RoleTimeline); err != nil {
		return nil, err
	} else if ok {
		timeline, issues = Timeline(t, opts.NumberFormat)
		skipped = append(skipped, issues...)
	}

	if ratios == nil {
		ratios = []domain.RatioPoint{}
	}
	if efficiency == nil {
		efficiency = []domain.EfficiencyPoint{}
	}

	return &domain.Overview{
		Source:          domain.DataSourceLive,
		LoadedAt:        opts.now(),
		Ratios:          ratios,
		RatioTicks:      YearTicks(RatioMonths(ratios)),
		Recent:          Summarize(ratios, opts.window(), recent, ref),
		Efficiency:      efficiency,
		EfficiencyTicks: YearTicks(EfficiencyMonths(efficiency)),
		Timeline:        timeline,
		SkippedRows:     skipped,
	}, nil
}

// FallbackOverview is the placeholder served when the workbook cannot be used:
// empty series, a zero summary and the placeholder timeline
func FallbackOverview(reason string, opts Options) *domain.Overview {
	return &domain.Overview{
		Source:          domain.DataSourceFallback,
		FallbackReason:  reason,
		LoadedAt:        opts.now(),
		Ratios:          []domain.RatioPoint{},
		RatioTicks:      []string{},
		Recent:          Summarize(nil, opts.window(), nil, nil),
		Efficiency:      []domain.EfficiencyPoint{},
		EfficiencyTicks: []string{},
		Timeline:        FallbackTimeline(),
	}
}
