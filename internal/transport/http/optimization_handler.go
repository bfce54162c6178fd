package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "coqboard/internal/errors"
	mw "coqboard/internal/middleware"
	"coqboard/internal/optimization"
	api "coqboard/pkg/contracts/api/v1"
)

// OptimizationHandler serves the ratio simulator
type OptimizationHandler struct {
	validator    *mw.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewOptimizationHandler creates a new optimization handler
func NewOptimizationHandler(validator *mw.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *OptimizationHandler {
	return &OptimizationHandler{
		validator:    validator,
		logger:       logger.With(slog.String("component", "optimization_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the optimization routes
func (h *OptimizationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/targets", h.GetTargets)
	r.With(mw.ContentTypeValidator("application/json")).Post("/simulate", h.Simulate)
	return r
}

// GetTargets handles GET /api/optimization/targets
func (h *OptimizationHandler) GetTargets(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, optimization.Targets())
}

// Simulate handles POST /api/optimization/simulate
func (h *OptimizationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req api.SimulateRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result := optimization.Simulate(req.Ratio())
	h.logger.DebugContext(r.Context(), "ratio simulated",
		slog.Float64("total", result.Total),
		slog.Float64("improvement_pct", result.ImprovementPct),
	)
	render.JSON(w, r, result)
}
