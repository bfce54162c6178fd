package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coqboard/internal/config"
	apperrors "coqboard/internal/errors"
	mw "coqboard/internal/middleware"
	"coqboard/internal/optimization"
	"coqboard/internal/services"
	"coqboard/internal/shared/testutil"
	"coqboard/pkg/contracts/domain"
)

type mockOverviewService struct {
	mock.Mock
}

func (m *mockOverviewService) Overview(ctx context.Context) (*domain.Overview, error) {
	args := m.Called(ctx)
	if o, ok := args.Get(0).(*domain.Overview); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockChatService struct {
	mock.Mock
}

func (m *mockChatService) Ask(ctx context.Context, message string) (*domain.ChatAnswer, error) {
	args := m.Called(ctx, message)
	if a, ok := args.Get(0).(*domain.ChatAnswer); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func sampleOverview() *domain.Overview {
	jan := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Overview{
		Source:     domain.DataSourceLive,
		LoadedAt:   jan,
		Ratios:     []domain.RatioPoint{{Month: jan, Label: "Jan 25", Prevention: 0.16, Appraisal: 0.41, Failure: 0.24}},
		RatioTicks: []string{"Jan 25"},
		Recent: domain.RecentSummary{
			Window:    3,
			Averages:  domain.CategoryValues{Prevention: 0.16, Appraisal: 0.41, Failure: 0.24},
			Pie:       []domain.PieSlice{{Name: "Prevention (P)", Value: 0.16}},
			Reference: domain.ReferenceComputed,
		},
		Efficiency:      []domain.EfficiencyPoint{{Month: jan, Label: "Jan 25", Efficiency: 1.4}},
		EfficiencyTicks: []string{"Jan 25"},
		Timeline:        domain.Timeline{Source: domain.DataSourceLive, Items: []domain.TimelineItem{{Year: 2025, Status: domain.StatusImproved}}},
		SkippedRows:     []domain.RowIssue{{Sheet: "Sheet1", Row: 9, Reason: "missing month"}},
	}
}

type testServer struct {
	router   chi.Router
	overview *mockOverviewService
	chat     *mockChatService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apperrors.NewErrorHandler(logger, false)
	validator := mw.NewValidator(logger)

	ts := &testServer{overview: new(mockOverviewService), chat: new(mockChatService)}

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Route("/api", func(r chi.Router) {
		r.Mount("/overview", NewOverviewHandler(ts.overview, logger, errorHandler).Routes())
		r.Mount("/optimization", NewOptimizationHandler(validator, logger, errorHandler).Routes())
		r.Mount("/chat", NewChatHandler(ts.chat, validator, logger, errorHandler).Routes())
	})
	ts.router = r
	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestOverviewHandler_GetOverview(t *testing.T) {
	ts := newTestServer(t)
	ts.overview.On("Overview", mock.Anything).Return(sampleOverview(), nil).Once()

	rec := ts.do(http.MethodGet, "/api/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LIVE", rec.Header().Get("X-Data-Source"))

	body := decodeBody(t, rec)
	assert.Equal(t, "LIVE", body["source"])
	assert.Len(t, body["ratios"], 1)
	assert.NotContains(t, body, "skipped_rows")

	ts.overview.On("Overview", mock.Anything).Return(sampleOverview(), nil).Once()
	rec = ts.do(http.MethodGet, "/api/overview?include_skipped=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["skipped_rows"], 1)

	rec = ts.do(http.MethodGet, "/api/overview?include_skipped=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperrors.TypeValidation, decodeBody(t, rec)["type"])
}

func TestOverviewHandler_Sections(t *testing.T) {
	ts := newTestServer(t)
	ts.overview.On("Overview", mock.Anything).Return(sampleOverview(), nil)

	rec := ts.do(http.MethodGet, "/api/overview/ratios", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "LIVE", body["source"])
	assert.Equal(t, []any{"Jan 25"}, body["ticks"])
	points := body["points"].([]any)
	require.Len(t, points, 1)
	assert.InDelta(t, 0.16, points[0].(map[string]any)["prevention"], 1e-12)

	rec = ts.do(http.MethodGet, "/api/overview/recent", "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody(t, rec)["summary"].(map[string]any)
	assert.Equal(t, "computed", summary["reference"])
	assert.InDelta(t, 0.41, summary["averages"].(map[string]any)["A"], 1e-12)

	rec = ts.do(http.MethodGet, "/api/overview/efficiency", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Len(t, body["points"], 1)
	timeline := body["timeline"].(map[string]any)
	assert.Equal(t, "LIVE", timeline["source"])
}

func TestOverviewHandler_Fallback(t *testing.T) {
	ts := newTestServer(t)
	fallback := &domain.Overview{
		Source:         domain.DataSourceFallback,
		FallbackReason: "fetch: workbook request returned HTTP 503",
		Ratios:         []domain.RatioPoint{},
		RatioTicks:     []string{},
	}
	ts.overview.On("Overview", mock.Anything).Return(fallback, nil)

	rec := ts.do(http.MethodGet, "/api/overview/ratios", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "FALLBACK", rec.Header().Get("X-Data-Source"))
	body := decodeBody(t, rec)
	assert.Equal(t, "FALLBACK", body["source"])
	assert.Equal(t, []any{}, body["points"])
}

func TestOverviewHandler_Errors(t *testing.T) {
	missing := &apperrors.MissingColumnError{Sheet: "Sheet1", Field: "failure", Column: "Failure_Ratio"}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"fetch", apperrors.NewFetchError("workbook request returned HTTP 404", nil), http.StatusBadGateway, apperrors.TypeWorkbookFetch},
		{"parse", apperrors.NewParsingError("invalid xlsx workbook", errors.New("zip")), http.StatusUnprocessableEntity, apperrors.TypeWorkbookParse},
		{"schema", apperrors.NewSchemaError("workbook does not match declared schema", missing), http.StatusUnprocessableEntity, apperrors.TypeWorkbookSchema},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, apperrors.TypeTimeout},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, apperrors.TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.overview.On("Overview", mock.Anything).Return(nil, tt.err)

			rec := ts.do(http.MethodGet, "/api/overview", "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "/api/overview", body["instance"])
			assert.Equal(t, rec.Header().Get(mw.RequestIDHeader), body["trace_id"])
			if tt.name == "schema" {
				assert.Equal(t, "Failure_Ratio", body["column"])
				assert.Equal(t, "Sheet1", body["sheet"])
			}
		})
	}
}

func TestOptimizationHandler_Targets(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/api/optimization/targets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var targets domain.OptimizationTargets
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &targets))
	assert.Equal(t, optimization.Targets(), targets)
}

func TestOptimizationHandler_Simulate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
	}{
		{name: "valid", body: `{"prevention":0.23,"appraisal":0.42,"failure":0.34}`, wantStatus: http.StatusOK},
		{name: "zero is allowed", body: `{"prevention":0,"appraisal":0,"failure":0}`, wantStatus: http.StatusOK},
		{name: "out of range", body: `{"prevention":1.5,"appraisal":0.4,"failure":0.3}`, wantStatus: http.StatusBadRequest},
		{name: "missing field", body: `{"prevention":0.2,"appraisal":0.4}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", body: `{"prevention":`, wantStatus: http.StatusBadRequest},
		{name: "wrong content type", body: `{}`, contentType: "text/plain", wantStatus: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			req := httptest.NewRequest(http.MethodPost, "/api/optimization/simulate", strings.NewReader(tt.body))
			contentType := tt.contentType
			if contentType == "" {
				contentType = "application/json"
			}
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			ts.router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			var result domain.SimulationResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
			assert.Len(t, result.Radar, 3)
			assert.InDelta(t, result.Input.Total(), result.Total, 1e-12)
		})
	}
}

func TestOptimizationHandler_ValidationDetails(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodPost, "/api/optimization/simulate", `{"prevention":1.5,"appraisal":0.4,"failure":0.3}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	details := body["details"].(map[string]any)["errors"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "prevention", details[0].(map[string]any)["field"])
	assert.Equal(t, "prevention must be at most 1", details[0].(map[string]any)["message"])
}

func TestChatHandler(t *testing.T) {
	t.Run("answer", func(t *testing.T) {
		ts := newTestServer(t)
		answer := &domain.ChatAnswer{
			Answer:         "Prevention spend is trending up.",
			SentimentChart: []domain.SentimentPoint{{Topic: "quality", Score: 0.7}},
		}
		ts.chat.On("Ask", mock.Anything, "how is prevention?").Return(answer, nil)

		rec := ts.do(http.MethodPost, "/api/chat", `{"message":"how is prevention?"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, answer.Answer, body["answer"])
		assert.Len(t, body["sentimentChart"], 1)
		ts.chat.AssertExpectations(t)
	})

	t.Run("blank message", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(http.MethodPost, "/api/chat", `{"message":"   "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		ts.chat.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
	})

	t.Run("not configured", func(t *testing.T) {
		ts := newTestServer(t)
		ts.chat.On("Ask", mock.Anything, "hi").Return(nil, services.ErrChatUnavailable)
		rec := ts.do(http.MethodPost, "/api/chat", `{"message":"hi"}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, apperrors.TypeServiceDown, decodeBody(t, rec)["type"])
	})

	t.Run("backend down", func(t *testing.T) {
		ts := newTestServer(t)
		ts.chat.On("Ask", mock.Anything, "hi").Return(nil, apperrors.NewNetworkError("chat backend returned HTTP 500", nil))
		rec := ts.do(http.MethodPost, "/api/chat", `{"message":"hi"}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, apperrors.TypeUpstream, decodeBody(t, rec)["type"])
	})
}

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	serve := func(h *HealthHandler, fn http.HandlerFunc) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		fn(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		return rec
	}

	ready := NewHealthHandler(services.NewHealthService(config.Default(), nil, logger), logger)
	rec := serve(ready, ready.ReadinessCheck)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, services.StatusReady, decodeBody(t, rec)["status"])

	notReady := NewHealthHandler(services.NewHealthService(nil, nil, logger), logger)
	rec = serve(notReady, notReady.ReadinessCheck)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, services.StatusNotReady, decodeBody(t, rec)["status"])

	rec = serve(ready, ready.HealthCheck)
	assert.Equal(t, services.StatusOK, decodeBody(t, rec)["status"])

	rec = serve(ready, ready.LivenessCheck)
	assert.Equal(t, services.StatusAlive, decodeBody(t, rec)["status"])

	rec = serve(ready, ready.Version)
	assert.NotEmpty(t, decodeBody(t, rec)["version"])
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMetricsHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
