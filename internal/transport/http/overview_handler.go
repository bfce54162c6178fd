package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "coqboard/internal/errors"
	mw "coqboard/internal/middleware"
	api "coqboard/pkg/contracts/api/v1"
	"coqboard/pkg/contracts/domain"
)

// OverviewHandler serves the overview page datasets
type OverviewHandler struct {
	service      OverviewService
	query        *mw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewOverviewHandler creates a new overview handler
func NewOverviewHandler(service OverviewService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *OverviewHandler {
	return &OverviewHandler{
		service:      service,
		query:        mw.NewQueryParamValidator(logger),
		logger:       logger.With(slog.String("component", "overview_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the overview routes
func (h *OverviewHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetOverview)
	r.Get("/ratios", h.GetRatios)
	r.Get("/recent", h.GetRecent)
	r.Get("/efficiency", h.GetEfficiency)
	return r
}

// GetOverview handles GET /api/overview
func (h *OverviewHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	var req api.OverviewRequest
	includeSkipped, err := h.query.Bool(r, "include_skipped", false)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	req.IncludeSkipped = includeSkipped

	overview, ok := h.load(w, r)
	if !ok {
		return
	}
	if !req.IncludeSkipped {
		overview.SkippedRows = nil
	}
	render.JSON(w, r, overview)
}

// GetRatios handles GET /api/overview/ratios
func (h *OverviewHandler) GetRatios(w http.ResponseWriter, r *http.Request) {
	overview, ok := h.load(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, api.RatiosResponse{
		Source: overview.Source,
		Points: overview.Ratios,
		Ticks:  overview.RatioTicks,
	})
}

// GetRecent handles GET /api/overview/recent
func (h *OverviewHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	overview, ok := h.load(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, api.RecentResponse{
		Source:  overview.Source,
		Summary: overview.Recent,
	})
}

// GetEfficiency handles GET /api/overview/efficiency
func (h *OverviewHandler) GetEfficiency(w http.ResponseWriter, r *http.Request) {
	overview, ok := h.load(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, api.EfficiencyResponse{
		Source:   overview.Source,
		Points:   overview.Efficiency,
		Ticks:    overview.EfficiencyTicks,
		Timeline: overview.Timeline,
	})
}

// load fetches the overview and writes the error response on failure
func (h *OverviewHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Overview, bool) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build overview",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	w.Header().Set("X-Data-Source", string(overview.Source))
	return overview, true
}
