package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medibill/internal/domain"
)

// MockMeasurementRepo is a mock implementation of port.MeasurementRepository.
type MockMeasurementRepo struct {
	mock.Mock
}

func (m *MockMeasurementRepo) Create(ctx context.Context, meas *domain.Measurement) error {
	args := m.Called(ctx, meas)
	return args.Error(0)
}

func (m *MockMeasurementRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Measurement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Measurement), args.Error(1)
}

func (m *MockMeasurementRepo) List(ctx context.Context, status domain.MeasurementStatus, offset, limit int) ([]domain.Measurement, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Measurement), args.Int(1), args.Error(2)
}

func (m *MockMeasurementRepo) Update(ctx context.Context, meas *domain.Measurement) error {
	args := m.Called(ctx, meas)
	return args.Error(0)
}

func (m *MockMeasurementRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MeasurementStatus, billing domain.BillingStatus) error {
	args := m.Called(ctx, id, status, billing)
	return args.Error(0)
}

func (m *MockMeasurementRepo) ListApprovedUnclaimed(ctx context.Context) ([]domain.Measurement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Measurement), args.Error(1)
}
