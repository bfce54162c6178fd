package workbook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/option"

	"coqboard/internal/config"
	apperrors "coqboard/internal/errors"
	"coqboard/internal/infrastructure"
)

const gsheetsScheme = "gsheets://"

// Loader fetches and decodes the dashboard workbook
type Loader struct {
	cfg        config.WorkbookConfig
	client     *http.Client
	sheetsOpts []option.ClientOption
	logger     *slog.Logger
	tracer     trace.Tracer
}

// LoaderOption customizes a Loader
type LoaderOption func(*Loader)

// WithHTTPClient replaces the instrumented default client
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithSheetsOptions passes client options to the Google Sheets service
func WithSheetsOptions(opts ...option.ClientOption) LoaderOption {
	return func(l *Loader) { l.sheetsOpts = append(l.sheetsOpts, opts...) }
}

// NewLoader creates a loader for the given workbook settings
func NewLoader(cfg config.WorkbookConfig, logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.FetchTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: infrastructure.WithComponent(logger, "workbook"),
		tracer: otel.Tracer(infrastructure.TracerName),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches the workbook named by locator and decodes every sheet.
// An empty locator uses the configured one.
func (l *Loader) Load(ctx context.Context, locator string) (*Workbook, error) {
	if locator == "" {
		locator = l.cfg.Locator
	}
	ctx, span := l.tracer.Start(ctx, "workbook.Load",
		trace.WithAttributes(attribute.String("workbook.locator", redact(locator))))
	defer span.End()

	start := time.Now()
	wb, err := l.load(ctx, locator)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.logger.WarnContext(ctx, "workbook load failed",
			slog.String("locator", redact(locator)),
			slog.String("error_type", string(apperrors.TypeOf(err))),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("workbook.format", wb.Format),
		attribute.Int("workbook.sheets", len(wb.sheets)),
	)
	l.logger.InfoContext(ctx, "workbook loaded",
		slog.String("locator", redact(locator)),
		slog.String("format", wb.Format),
		slog.Any("sheets", wb.SheetNames()),
		slog.Duration("duration", time.Since(start)),
	)
	return wb, nil
}

func (l *Loader) load(ctx context.Context, locator string) (*Workbook, error) {
	switch {
	case strings.HasPrefix(locator, gsheetsScheme):
		return l.loadSheets(ctx, strings.TrimPrefix(locator, gsheetsScheme))
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		data, err := l.fetchHTTP(ctx, locator)
		if err != nil {
			return nil, err
		}
		return Decode(data, urlPath(locator), l.cfg.Format, l.csvSheet())
	default:
		path := strings.TrimPrefix(locator, "file://")
		data, err := l.readFile(path)
		if err != nil {
			return nil, err
		}
		return Decode(data, path, l.cfg.Format, l.csvSheet())
	}
}

func (l *Loader) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	if l.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.cfg.FetchTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.NewFetchError("invalid workbook URL", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError("workbook request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, apperrors.NewFetchError(
			fmt.Sprintf("workbook request returned HTTP %d", resp.StatusCode), nil).
			WithContext("status", resp.StatusCode)
	}

	return l.readLimited(resp.Body)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, apperrors.NewFetchError("workbook file unavailable", err)
	}
	defer f.Close()
	return l.readLimited(f)
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	limit := l.cfg.MaxBytes
	if limit <= 0 {
		return readAll(r)
	}
	data, err := readAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, apperrors.NewFetchError(fmt.Sprintf("workbook exceeds %d bytes", limit), nil)
	}
	return data, nil
}

func readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, apperrors.NewFetchError("reading workbook body", err)
	}
	return buf.Bytes(), nil
}

func (l *Loader) csvSheet() string {
	if l.cfg.CSVSheet != "" {
		return l.cfg.CSVSheet
	}
	return config.DefaultWorkbookSheet
}

// redact drops query strings and credentials, which may carry tokens
func redact(locator string) string {
	u, err := url.Parse(locator)
	if err != nil || u.Host == "" {
		return locator
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil
	return u.String()
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}
