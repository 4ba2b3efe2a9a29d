package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medibill/internal/port"
)

// MockNotificationSender is a mock implementation of port.NotificationSender.
type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) SendApprovalNotice(ctx context.Context, notice port.ApprovalNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}
