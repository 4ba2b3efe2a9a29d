package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medibill/internal/domain"
)

// MockBillingRepo is a mock implementation of port.BillingRepository.
type MockBillingRepo struct {
	mock.Mock
}

func (m *MockBillingRepo) Create(ctx context.Context, rec *domain.BillingRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockBillingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillingRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingRecord), args.Error(1)
}

func (m *MockBillingRepo) Update(ctx context.Context, rec *domain.BillingRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockBillingRepo) ListActive(ctx context.Context) ([]domain.BillingRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillingRecord), args.Error(1)
}

func (m *MockBillingRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
