package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medibill/internal/domain"
)

// MockDailyReportRepo is a mock implementation of port.DailyReportRepository.
type MockDailyReportRepo struct {
	mock.Mock
}

func (m *MockDailyReportRepo) Create(ctx context.Context, report *domain.DailyReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockDailyReportRepo) ListByJobAndRange(ctx context.Context, jobID uuid.UUID, from, to time.Time) ([]domain.DailyReport, error) {
	args := m.Called(ctx, jobID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyReport), args.Error(1)
}
