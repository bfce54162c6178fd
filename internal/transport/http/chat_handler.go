package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "coqboard/internal/errors"
	mw "coqboard/internal/middleware"
	"coqboard/internal/services"
	api "coqboard/pkg/contracts/api/v1"
)

// ChatHandler forwards chat messages to the backend
type ChatHandler struct {
	service      ChatService
	validator    *mw.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service ChatService, validator *mw.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChatHandler {
	return &ChatHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "chat_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the chat routes
func (h *ChatHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(mw.ContentTypeValidator("application/json")).Post("/", h.Ask)
	return r
}

// Ask handles POST /api/chat
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	answer, err := h.service.Ask(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, services.ErrChatUnavailable) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusServiceUnavailable,
				"SERVICE_UNAVAILABLE",
				"Chat is not configured",
				err.Error(),
			))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, answer)
}
