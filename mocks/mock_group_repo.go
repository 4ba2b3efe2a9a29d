package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medibill/internal/domain"
)

// MockGroupRepo is a mock implementation of port.MeasurementGroupRepository.
type MockGroupRepo struct {
	mock.Mock
}

func (m *MockGroupRepo) Create(ctx context.Context, g *domain.MeasurementGroup) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGroupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MeasurementGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MeasurementGroup), args.Error(1)
}

func (m *MockGroupRepo) List(ctx context.Context, offset, limit int) ([]domain.MeasurementGroup, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.MeasurementGroup), args.Int(1), args.Error(2)
}

func (m *MockGroupRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MeasurementStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockGroupRepo) ListApproved(ctx context.Context) ([]domain.MeasurementGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MeasurementGroup), args.Error(1)
}

func (m *MockGroupRepo) IsMemberOfApprovedGroup(ctx context.Context, measurementID uuid.UUID) (bool, error) {
	args := m.Called(ctx, measurementID)
	return args.Bool(0), args.Error(1)
}
