// Package chat forwards questions to the dashboard chat backend.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"coqboard/internal/config"
	apperrors "coqboard/internal/errors"
	"coqboard/internal/infrastructure"
	"coqboard/pkg/contracts/domain"
)

// maxResponseBytes bounds the backend answer
const maxResponseBytes = 1 << 20

// Client posts messages to the chat backend
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a client for cfg.Endpoint. A nil httpClient gets an
// instrumented client with cfg.Timeout.
func NewClient(cfg config.ChatConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: cfg.Endpoint,
		http:     httpClient,
		logger:   infrastructure.WithComponent(logger, "chat"),
	}
}

type askRequest struct {
	Message string `json:"message"`
}

// Ask sends one message and returns the backend's answer
func (c *Client) Ask(ctx context.Context, message string) (*domain.ChatAnswer, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewAppValidationError("message must not be empty")
	}
	if c.endpoint == "" {
		return nil, apperrors.NewConfigError("chat endpoint is not configured", nil)
	}

	body, err := json.Marshal(askRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewConfigError("invalid chat endpoint", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("chat backend unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.NewNetworkError("reading chat response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnContext(ctx, "chat backend returned error status",
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", time.Since(start)),
		)
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("chat backend returned HTTP %d", resp.StatusCode), nil).
			WithContext("status", resp.StatusCode)
	}

	var answer domain.ChatAnswer
	if err := json.Unmarshal(data, &answer); err != nil {
		return nil, apperrors.NewNetworkError("malformed chat response", err)
	}

	c.logger.DebugContext(ctx, "chat answered",
		slog.Int("message_length", len(message)),
		slog.Int("sentiment_points", len(answer.SentimentChart)),
		slog.Duration("duration", time.Since(start)),
	)
	return &answer, nil
}
