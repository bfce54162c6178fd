package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "coqboard/internal/errors"
	"coqboard/internal/shared/testutil"
	"coqboard/pkg/contracts/domain"
)

func TestChatService_Ask(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	backend := new(MockChatBackend)
	backend.On("Ask", mock.Anything, "hello").Return(&domain.ChatAnswer{Answer: "hi"}, nil)

	answer, err := NewChatService(backend, nil, logger).Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", answer.Answer)
	backend.AssertExpectations(t)
}

func TestChatService_Errors(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)

	_, err := NewChatService(nil, nil, logger).Ask(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrChatUnavailable)

	backend := new(MockChatBackend)
	backend.On("Ask", mock.Anything, "hello").Return(nil, apperrors.NewNetworkError("chat backend unreachable", nil))

	_, err = NewChatService(backend, nil, logger).Ask(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, apperrors.IsNetwork(err))
	assert.True(t, handler.ContainsMessage("chat request failed"))
}
