package domain

import (
	"time"
)

// Category identifies one of the three cost-of-quality buckets
type Category string

const (
	CategoryPrevention Category = "P"
	CategoryAppraisal  Category = "A"
	CategoryFailure    Category = "F"
)

// Categories lists the buckets in display order
var Categories = []Category{CategoryPrevention, CategoryAppraisal, CategoryFailure}

// DisplayName returns the pie-slice label of a category
func (c Category) DisplayName() string {
	switch c {
	case CategoryPrevention:
		return "Prevention (P)"
	case CategoryAppraisal:
		return "Appraisal (A)"
	case CategoryFailure:
		return "Failure (F)"
	default:
		return string(c)
	}
}

// DataSource tells whether an overview came from the workbook or from placeholders
type DataSource string

const (
	DataSourceLive     DataSource = "LIVE"
	DataSourceFallback DataSource = "FALLBACK"
)

// RatioPoint is one month of prevention/appraisal/failure fractions.
// Sum of the three fractions is finite and positive.
type RatioPoint struct {
	Month      time.Time `json:"month"`
	Label      string    `json:"label"`
	Prevention float64   `json:"prevention"`
	Appraisal  float64   `json:"appraisal"`
	Failure    float64   `json:"failure"`
}

// Total returns the sum of the three fractions
func (p RatioPoint) Total() float64 {
	return p.Prevention + p.Appraisal + p.Failure
}

// Get returns the fraction of a category
func (p RatioPoint) Get(c Category) float64 {
	switch c {
	case CategoryPrevention:
		return p.Prevention
	case CategoryAppraisal:
		return p.Appraisal
	case CategoryFailure:
		return p.Failure
	}
	return 0
}

// CategoryValues holds one number per category
type CategoryValues struct {
	Prevention float64 `json:"P"`
	Appraisal  float64 `json:"A"`
	Failure    float64 `json:"F"`
}

// Get returns the value of a category
func (v CategoryValues) Get(c Category) float64 {
	switch c {
	case CategoryPrevention:
		return v.Prevention
	case CategoryAppraisal:
		return v.Appraisal
	case CategoryFailure:
		return v.Failure
	}
	return 0
}

// Set stores the value of a category
func (v *CategoryValues) Set(c Category, value float64) {
	switch c {
	case CategoryPrevention:
		v.Prevention = value
	case CategoryAppraisal:
		v.Appraisal = value
	case CategoryFailure:
		v.Failure = value
	}
}

// PieSlice is a named share of the recent-window composition
type PieSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// SummaryReference records where the recent averages and deltas came from
type SummaryReference string

const (
	// ReferenceSummarySheet means every category came from the pre-computed summary sheet
	ReferenceSummarySheet SummaryReference = "summary_sheet"
	// ReferencePartial means some categories came from the summary sheet
	ReferencePartial SummaryReference = "partial"
	// ReferenceComputed means averages and deltas were derived from the series
	ReferenceComputed SummaryReference = "computed"
)

// RecentSummary is derived per load and never stored
type RecentSummary struct {
	Window    int              `json:"window"`
	Averages  CategoryValues   `json:"averages"`
	DeltaPct  CategoryValues   `json:"delta_pct"`
	Pie       []PieSlice       `json:"pie"`
	Reference SummaryReference `json:"reference"`
}

// EfficiencyPoint is one month of the COQ efficiency index
type EfficiencyPoint struct {
	Month      time.Time `json:"month"`
	Label      string    `json:"label"`
	Efficiency float64   `json:"efficiency"`
}

// TimelineStatus classifies a year of efficiency
type TimelineStatus string

const (
	StatusImproved TimelineStatus = "improved"
	StatusNeutral  TimelineStatus = "neutral"
	StatusStable   TimelineStatus = "stable"
)

// TimelineItem is one year on the efficiency timeline
type TimelineItem struct {
	Year    int            `json:"year"`
	Status  TimelineStatus `json:"status"`
	Average *float64       `json:"average,omitempty"`
}

// Timeline is the yearly classification strip
type Timeline struct {
	Source DataSource     `json:"source"`
	Items  []TimelineItem `json:"items"`
}

// RowIssue describes a row dropped during aggregation
type RowIssue struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Overview is the full dataset behind the overview page
type Overview struct {
	Source          DataSource        `json:"source"`
	FallbackReason  string            `json:"fallback_reason,omitempty"`
	LoadedAt        time.Time         `json:"loaded_at"`
	Ratios          []RatioPoint      `json:"ratios"`
	RatioTicks      []string          `json:"ratio_ticks"`
	Recent          RecentSummary     `json:"recent"`
	Efficiency      []EfficiencyPoint `json:"efficiency"`
	EfficiencyTicks []string          `json:"efficiency_ticks"`
	Timeline        Timeline          `json:"timeline"`
	SkippedRows     []RowIssue        `json:"skipped_rows,omitempty"`
}

// IsLive reports whether the overview was built from the workbook
func (o *Overview) IsLive() bool {
	return o != nil && o.Source == DataSourceLive
}
