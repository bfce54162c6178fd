package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coqboard/internal/config"
	apperrors "coqboard/internal/errors"
	customMiddleware "coqboard/internal/middleware"
	"coqboard/internal/services"
	"coqboard/internal/shared/testutil"
	"coqboard/pkg/contracts/domain"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Workbook.Locator = testutil.WriteWorkbook(t, t.TempDir(), "coq.xlsx", testutil.COQSheets()...)
	cfg.Telemetry.EnableTracing = false
	cfg.Chat.Endpoint = ""
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...Option) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	a, err := New(cfg, logger, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.OTelProviders.Shutdown(context.Background()) })
	return a
}

func get(t *testing.T, a *Application, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestApplication_OverviewFromWorkbook(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	rec := get(t, a, "/api/overview")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "LIVE", rec.Header().Get("X-Data-Source"))
	assert.NotEmpty(t, rec.Header().Get(customMiddleware.RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	var overview domain.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, domain.DataSourceLive, overview.Source)
	assert.Len(t, overview.Ratios, len(testutil.COQMonths()))
	assert.Equal(t, "Apr 25", overview.RatioTicks[len(overview.RatioTicks)-1])
	assert.Equal(t, domain.ReferenceSummarySheet, overview.Recent.Reference)
}

func TestApplication_FallbackWhenWorkbookMissing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workbook.Locator = filepath.Join(t.TempDir(), "missing.xlsx")
	a := newTestApp(t, cfg)

	rec := get(t, a, "/api/overview/efficiency")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "FALLBACK", rec.Header().Get("X-Data-Source"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "FALLBACK", body["source"])
	assert.Len(t, body["timeline"].(map[string]any)["items"], 6)

	// readiness stays up while the workbook entry degrades
	rec = get(t, a, "/api/health/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	workbookHealth := body["services"].(map[string]any)["workbook"].(map[string]any)
	assert.Equal(t, services.StatusDegraded, workbookHealth["status"])
}

func TestApplication_NoFallbackReturnsProblem(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workbook.Locator = filepath.Join(t.TempDir(), "missing.xlsx")
	cfg.Workbook.AllowFallback = false
	a := newTestApp(t, cfg)

	rec := get(t, a, "/api/overview")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/workbook/fetch-failed", problem["type"])
}

func TestApplication_Metrics(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	require.Equal(t, http.StatusOK, get(t, a, "/api/overview/ratios").Code)

	rec := get(t, a, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "workbook_loads_total")
	assert.Contains(t, string(body), "http_requests_total")
}

func TestApplication_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	a := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, get(t, a, "/api/health").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, a, "/api/health").Code)

	// scrapes are not limited
	assert.Equal(t, http.StatusOK, get(t, a, "/metrics").Code)
	assert.Equal(t, http.StatusOK, get(t, a, "/metrics").Code)
}

func TestApplication_Chat(t *testing.T) {
	backend := new(services.MockChatBackend)
	backend.On("Ask", mock.Anything, "summarise failure costs").
		Return(&domain.ChatAnswer{Answer: "Failure costs fell 3%."}, nil)
	a := newTestApp(t, testConfig(t), WithChatBackend(backend))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"summarise failure costs"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Failure costs fell 3%.")
	backend.AssertExpectations(t)
}

func TestApplication_ChatMalformedResponse(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":`))
	}))
	defer backend.Close()

	cfg := testConfig(t)
	cfg.Chat.Endpoint = backend.URL
	a := newTestApp(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())
	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apperrors.TypeUpstream, problem["type"])
	assert.NotContains(t, problem["title"], "Workbook")
}

func TestApplication_ChatDisabled(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestApplication_Routing(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	rec := get(t, a, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "/errors/not-found")

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/overview/ratios", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = get(t, a, "/api/version")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"api_version":"v1"`)

	rec = get(t, a, "/api/optimization/targets")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"steps"`)
}

func TestApplication_CORS(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	req := httptest.NewRequest(http.MethodOptions, "/api/optimization/simulate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplication_StopWithoutStart(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	assert.NoError(t, a.Stop(context.Background()))
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}
