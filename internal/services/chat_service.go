package services

import (
	"context"
	"log/slog"

	apperrors "coqboard/internal/errors"
	"coqboard/internal/infrastructure"
	"coqboard/pkg/contracts/domain"
)

// ChatBackend answers chat messages
type ChatBackend interface {
	Ask(ctx context.Context, message string) (*domain.ChatAnswer, error)
}

// ChatService passes messages through to the chat backend and records outcomes
type ChatService struct {
	backend ChatBackend
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewChatService creates the chat pass-through. A nil backend disables chat.
func NewChatService(backend ChatBackend, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		backend: backend,
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "chat"),
	}
}

// Ask forwards message and returns the backend answer
func (s *ChatService) Ask(ctx context.Context, message string) (*domain.ChatAnswer, error) {
	if s.backend == nil {
		infrastructure.RecordChatRequest(ctx, s.metrics, "disabled")
		return nil, ErrChatUnavailable
	}

	answer, err := s.backend.Ask(ctx, message)
	if err != nil {
		outcome := "error"
		if t := apperrors.TypeOf(err); t != "" {
			outcome = string(t)
		}
		infrastructure.RecordChatRequest(ctx, s.metrics, outcome)
		s.logger.WarnContext(ctx, "chat request failed",
			slog.String("outcome", outcome),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	infrastructure.RecordChatRequest(ctx, s.metrics, "ok")
	return answer, nil
}
