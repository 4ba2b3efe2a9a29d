package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medibill/internal/domain"
	"medibill/internal/ledger"
	"medibill/internal/service"
)

// MockBillingService is a mock implementation of service.BillingService.
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) Ledger(ctx context.Context, sortField ledger.SortField, dir domain.SortDirection) ([]domain.MonthBucket, error) {
	args := m.Called(ctx, sortField, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthBucket), args.Error(1)
}

func (m *MockBillingService) UpsertRow(ctx context.Context, input *service.UpsertBillingInput) (*domain.BillingRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingRecord), args.Error(1)
}

func (m *MockBillingService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBillingService) ImportSpreadsheet(ctx context.Context, r io.Reader) ([]domain.BillingRecord, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillingRecord), args.Error(1)
}

func (m *MockBillingService) ExportCSV(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockBillingService) ExportXLSX(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockBillingService) AddAttachment(ctx context.Context, recordID uuid.UUID, fileName, contentType string, size int64, body io.Reader) (string, error) {
	args := m.Called(ctx, recordID, fileName, contentType, size, body)
	return args.String(0), args.Error(1)
}

func (m *MockBillingService) AttachmentURL(ctx context.Context, recordID uuid.UUID, key string) (string, error) {
	args := m.Called(ctx, recordID, key)
	return args.String(0), args.Error(1)
}
