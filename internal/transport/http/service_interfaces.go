package http

import (
	"context"

	"coqboard/pkg/contracts/domain"
)

// OverviewService builds the dashboard dataset
type OverviewService interface {
	Overview(ctx context.Context) (*domain.Overview, error)
}

// ChatService answers chat messages
type ChatService interface {
	Ask(ctx context.Context, message string) (*domain.ChatAnswer, error)
}
