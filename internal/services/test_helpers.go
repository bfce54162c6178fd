package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coqboard/internal/workbook"
	"coqboard/pkg/contracts/domain"
)

// MockWorkbookLoader is a mock for WorkbookLoader
type MockWorkbookLoader struct {
	mock.Mock
}

func (m *MockWorkbookLoader) Load(ctx context.Context, locator string) (*workbook.Workbook, error) {
	args := m.Called(ctx, locator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workbook.Workbook), args.Error(1)
}

// MockChatBackend is a mock for ChatBackend
type MockChatBackend struct {
	mock.Mock
}

func (m *MockChatBackend) Ask(ctx context.Context, message string) (*domain.ChatAnswer, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatAnswer), args.Error(1)
}
