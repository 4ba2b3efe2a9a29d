package port

import (
	"context"

	"github.com/google/uuid"

	"medibill/internal/domain"
)

// BillingRepository defines the contract for billing metadata persistence.
// Records are soft-deleted via is_active, never hard-deleted.
type BillingRepository interface {
	Create(ctx context.Context, rec *domain.BillingRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BillingRecord, error)
	Update(ctx context.Context, rec *domain.BillingRecord) error
	ListActive(ctx context.Context) ([]domain.BillingRecord, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
