package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"medibill/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// DailyReportRepository stores operator time-entry records. Reports are
// entered from the field and never mutated after creation.
type DailyReportRepository interface {
	Create(ctx context.Context, report *domain.DailyReport) error
	ListByJobAndRange(ctx context.Context, jobID uuid.UUID, from, to time.Time) ([]domain.DailyReport, error)
}

// ProposalRepository defines the contract for proposal persistence.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *domain.Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)
	List(ctx context.Context, offset, limit int) ([]domain.Proposal, int, error)
	Update(ctx context.Context, proposal *domain.Proposal) error
	ListNumbers(ctx context.Context) ([]string, error)
}
