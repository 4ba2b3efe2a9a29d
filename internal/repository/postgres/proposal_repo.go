package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"medibill/internal/domain"
	"medibill/internal/port"
)

type proposalRepo struct {
	db *sqlx.DB
}

// NewProposalRepo creates a new PostgreSQL-backed ProposalRepository.
func NewProposalRepo(db *sqlx.DB) port.ProposalRepository {
	return &proposalRepo{db: db}
}

func (r *proposalRepo) Create(ctx context.Context, p *domain.Proposal) error {
	p.ID = uuid.New()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO proposals (id, number, client_name, description, status,
		mobilization, demobilization, min_hours_guarantee, hour_value, extra_hour_value,
		periods_quantity, discount, ignore_lunch_break, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Number, p.ClientName, p.Description, p.Status,
		p.Mobilization, p.Demobilization, p.MinHoursGuarantee, p.HourValue, p.ExtraHourValue,
		p.PeriodsQuantity, p.Discount, p.IgnoreLunchBreak, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrProposalNumberTaken
		}
		return fmt.Errorf("proposalRepo.Create: %w", err)
	}
	return nil
}

func (r *proposalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	var p domain.Proposal
	err := r.db.GetContext(ctx, &p, "SELECT * FROM proposals WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("proposalRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *proposalRepo) List(ctx context.Context, offset, limit int) ([]domain.Proposal, int, error) {
	proposals := []domain.Proposal{}
	err := r.db.SelectContext(ctx, &proposals,
		"SELECT * FROM proposals ORDER BY created_at DESC OFFSET $1 LIMIT $2", offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("proposalRepo.List: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM proposals"); err != nil {
		return nil, 0, fmt.Errorf("proposalRepo.List count: %w", err)
	}
	return proposals, total, nil
}

func (r *proposalRepo) Update(ctx context.Context, p *domain.Proposal) error {
	p.UpdatedAt = time.Now().UTC()

	query := `UPDATE proposals SET client_name = $1, description = $2, status = $3,
		mobilization = $4, demobilization = $5, min_hours_guarantee = $6,
		hour_value = $7, extra_hour_value = $8, periods_quantity = $9,
		discount = $10, ignore_lunch_break = $11, updated_at = $12
		WHERE id = $13`

	result, err := r.db.ExecContext(ctx, query,
		p.ClientName, p.Description, p.Status,
		p.Mobilization, p.Demobilization, p.MinHoursGuarantee,
		p.HourValue, p.ExtraHourValue, p.PeriodsQuantity,
		p.Discount, p.IgnoreLunchBreak, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("proposalRepo.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("proposalRepo.Update rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *proposalRepo) ListNumbers(ctx context.Context) ([]string, error) {
	numbers := []string{}
	if err := r.db.SelectContext(ctx, &numbers, "SELECT number FROM proposals"); err != nil {
		return nil, fmt.Errorf("proposalRepo.ListNumbers: %w", err)
	}
	return numbers, nil
}
