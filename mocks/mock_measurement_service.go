package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medibill/internal/domain"
	"medibill/internal/service"
)

// MockMeasurementService is a mock implementation of service.MeasurementService.
type MockMeasurementService struct {
	mock.Mock
}

func (m *MockMeasurementService) Process(ctx context.Context, input *service.ProcessMeasurementInput) (*domain.Measurement, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Measurement), args.Error(1)
}

func (m *MockMeasurementService) Create(ctx context.Context, input *service.ProcessMeasurementInput) (*domain.Measurement, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Measurement), args.Error(1)
}

func (m *MockMeasurementService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Measurement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Measurement), args.Error(1)
}

func (m *MockMeasurementService) List(ctx context.Context, status domain.MeasurementStatus, offset, limit int) ([]domain.Measurement, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Measurement), args.Int(1), args.Error(2)
}

func (m *MockMeasurementService) Update(ctx context.Context, input *service.UpdateMeasurementInput) (*domain.Measurement, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Measurement), args.Error(1)
}

func (m *MockMeasurementService) ReapplyGuarantee(ctx context.Context, id uuid.UUID, minGuarantee float64) (*domain.Measurement, error) {
	args := m.Called(ctx, id, minGuarantee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Measurement), args.Error(1)
}

func (m *MockMeasurementService) Approve(ctx context.Context, id uuid.UUID) (*domain.Measurement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Measurement), args.Error(1)
}
