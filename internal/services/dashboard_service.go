package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"coqboard/internal/coq"
	apperrors "coqboard/internal/errors"
	"coqboard/internal/infrastructure"
	"coqboard/internal/workbook"
	"coqboard/pkg/contracts/domain"
)

const overviewKey = "overview"

// WorkbookLoader fetches the dashboard workbook
type WorkbookLoader interface {
	Load(ctx context.Context, locator string) (*workbook.Workbook, error)
}

// LoadStatus describes the most recent overview load
type LoadStatus struct {
	At       time.Time         `json:"at"`
	Source   domain.DataSource `json:"source"`
	Error    string            `json:"error,omitempty"`
	Duration time.Duration     `json:"duration"`
}

// DashboardService builds the overview dataset on every request
type DashboardService struct {
	loader        WorkbookLoader
	locator       string
	opts          coq.Options
	allowFallback bool
	metrics       *infrastructure.BusinessMetrics
	logger        *slog.Logger
	tracer        trace.Tracer

	group singleflight.Group

	mu   sync.RWMutex
	last *LoadStatus
}

// DashboardOption customizes a DashboardService
type DashboardOption func(*DashboardService)

// WithMetrics records load metrics
func WithMetrics(m *infrastructure.BusinessMetrics) DashboardOption {
	return func(s *DashboardService) { s.metrics = m }
}

// WithFallback serves placeholder data when the workbook is unusable
func WithFallback(enabled bool) DashboardOption {
	return func(s *DashboardService) { s.allowFallback = enabled }
}

// WithLocator overrides the loader's configured locator
func WithLocator(locator string) DashboardOption {
	return func(s *DashboardService) { s.locator = locator }
}

// NewDashboardService creates the overview service
func NewDashboardService(loader WorkbookLoader, opts coq.Options, logger *slog.Logger, options ...DashboardOption) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DashboardService{
		loader: loader,
		opts:   opts,
		logger: infrastructure.WithComponent(logger, "dashboard"),
		tracer: otel.Tracer(infrastructure.TracerName),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Overview loads the workbook and aggregates it. Concurrent calls share one
// load; every caller receives its own copy of the result.
func (s *DashboardService) Overview(ctx context.Context) (*domain.Overview, error) {
	ch := s.group.DoChan(overviewKey, func() (any, error) {
		// a caller leaving must not cancel the load for the others
		return s.load(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.DebugContext(ctx, "overview load shared")
		}
		return cloneOverview(res.Val.(*domain.Overview)), nil
	}
}

// LastLoad returns the status of the most recent load, or nil before the first
func (s *DashboardService) LastLoad() *LoadStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	status := *s.last
	return &status
}

func (s *DashboardService) load(ctx context.Context) (*domain.Overview, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.Overview")
	defer span.End()

	start := time.Now()
	overview, err := s.build(ctx)
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		if !s.allowFallback || !isWorkbookError(err) {
			span.SetStatus(codes.Error, err.Error())
			s.record(ctx, "", outcomeOf(err), duration, 0, err)
			s.logger.ErrorContext(ctx, "overview load failed",
				slog.String("error_type", string(apperrors.TypeOf(err))),
				slog.String("error", err.Error()),
			)
			return nil, err
		}

		reason := fallbackReason(err)
		s.logger.WarnContext(ctx, "serving fallback overview",
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		overview = coq.FallbackOverview(reason, s.opts)
		s.record(ctx, domain.DataSourceFallback, outcomeOf(err), duration, 0, err)
		span.SetAttributes(attribute.String("overview.source", string(domain.DataSourceFallback)))
		return overview, nil
	}

	for _, issue := range overview.SkippedRows {
		s.logger.DebugContext(ctx, "row skipped",
			slog.String("sheet", issue.Sheet),
			slog.Int("row", issue.Row),
			slog.String("reason", issue.Reason),
		)
	}
	if n := len(overview.SkippedRows); n > 0 {
		s.logger.WarnContext(ctx, "rows skipped during aggregation", slog.Int("count", n))
	}

	span.SetAttributes(
		attribute.String("overview.source", string(overview.Source)),
		attribute.Int("overview.ratio_points", len(overview.Ratios)),
		attribute.Int("overview.skipped_rows", len(overview.SkippedRows)),
	)
	s.record(ctx, overview.Source, "ok", duration, len(overview.SkippedRows), nil)
	s.logger.InfoContext(ctx, "overview built",
		slog.Int("ratio_points", len(overview.Ratios)),
		slog.Int("efficiency_points", len(overview.Efficiency)),
		slog.String("reference", string(overview.Recent.Reference)),
		slog.Duration("duration", duration),
	)
	return overview, nil
}

func (s *DashboardService) build(ctx context.Context) (*domain.Overview, error) {
	if s.loader == nil {
		return nil, ErrNoWorkbookSource
	}
	wb, err := s.loader.Load(ctx, s.locator)
	if err != nil {
		return nil, err
	}
	infrastructure.AddSpanEvent(ctx, "workbook.decoded",
		attribute.String("workbook.format", wb.Format),
		attribute.StringSlice("workbook.sheets", wb.SheetNames()),
	)
	return coq.Build(wb, s.opts)
}

func (s *DashboardService) record(ctx context.Context, source domain.DataSource, outcome string, d time.Duration, skipped int, err error) {
	status := &LoadStatus{At: time.Now().UTC(), Source: source, Duration: d}
	if err != nil {
		status.Error = err.Error()
	}
	s.mu.Lock()
	s.last = status
	s.mu.Unlock()

	label := string(source)
	if label == "" {
		label = "NONE"
	}
	infrastructure.RecordWorkbookLoad(ctx, s.metrics, label, outcome, d, skipped)
}

// isWorkbookError reports errors that make the workbook unusable as data
func isWorkbookError(err error) bool {
	return apperrors.IsFetch(err) || apperrors.IsParsing(err) || apperrors.IsSchema(err)
}

func outcomeOf(err error) string {
	if t := apperrors.TypeOf(err); t != "" {
		return strings.ToLower(string(t))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "error"
}

func fallbackReason(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		var colErr *apperrors.MissingColumnError
		var sheetErr *apperrors.MissingSheetError
		switch {
		case errors.As(err, &colErr):
			return fmt.Sprintf("schema: %s", colErr.Error())
		case errors.As(err, &sheetErr):
			return fmt.Sprintf("schema: %s", sheetErr.Error())
		}
		return fmt.Sprintf("%s: %s", strings.ToLower(string(appErr.Type)), appErr.Message)
	}
	return err.Error()
}

func cloneOverview(o *domain.Overview) *domain.Overview {
	c := *o
	c.Ratios = append([]domain.RatioPoint{}, o.Ratios...)
	c.RatioTicks = append([]string{}, o.RatioTicks...)
	c.Efficiency = append([]domain.EfficiencyPoint{}, o.Efficiency...)
	c.EfficiencyTicks = append([]string{}, o.EfficiencyTicks...)
	c.Recent.Pie = append([]domain.PieSlice{}, o.Recent.Pie...)
	if o.SkippedRows != nil {
		c.SkippedRows = append([]domain.RowIssue{}, o.SkippedRows...)
	}
	c.Timeline.Items = make([]domain.TimelineItem, len(o.Timeline.Items))
	for i, item := range o.Timeline.Items {
		if item.Average != nil {
			avg := *item.Average
			item.Average = &avg
		}
		c.Timeline.Items[i] = item
	}
	return &c
}
