package port

import (
	"context"

	"github.com/google/uuid"

	"medibill/internal/domain"
)

// MeasurementRepository defines the contract for measurement persistence.
// Detail lines are owned by their measurement and rewritten on update.
type MeasurementRepository interface {
	Create(ctx context.Context, m *domain.Measurement) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Measurement, error)
	List(ctx context.Context, status domain.MeasurementStatus, offset, limit int) ([]domain.Measurement, int, error)
	Update(ctx context.Context, m *domain.Measurement) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MeasurementStatus, billing domain.BillingStatus) error
	// ListApprovedUnclaimed returns approved measurements not claimed by any
	// approved group, the individual-measurement source of the billing ledger.
	ListApprovedUnclaimed(ctx context.Context) ([]domain.Measurement, error)
}

// MeasurementGroupRepository defines the contract for group persistence.
type MeasurementGroupRepository interface {
	Create(ctx context.Context, g *domain.MeasurementGroup) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MeasurementGroup, error)
	List(ctx context.Context, offset, limit int) ([]domain.MeasurementGroup, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MeasurementStatus) error
	ListApproved(ctx context.Context) ([]domain.MeasurementGroup, error)
	// IsMemberOfApprovedGroup reports whether the measurement is already
	// claimed by an approved group.
	IsMemberOfApprovedGroup(ctx context.Context, measurementID uuid.UUID) (bool, error)
}
