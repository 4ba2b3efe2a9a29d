package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"medibill/internal/domain"
	"medibill/internal/port"
)

type groupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo creates a new PostgreSQL-backed MeasurementGroupRepository.
func NewGroupRepo(db *sqlx.DB) port.MeasurementGroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, g *domain.MeasurementGroup) error {
	g.ID = uuid.New()
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	if g.Status == "" {
		g.Status = domain.MeasurementStatusOpen
	}

	query := `INSERT INTO measurement_groups (id, name, status, total_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query,
		g.ID, g.Name, g.Status, g.TotalValue, g.CreatedAt, g.UpdatedAt); err != nil {
		return fmt.Errorf("groupRepo.Create: %w", err)
	}

	for _, measurementID := range g.MemberIDs {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO measurement_group_members (group_id, measurement_id, added_at) VALUES ($1, $2, $3)",
			g.ID, measurementID, now)
		if err != nil {
			return fmt.Errorf("groupRepo.Create member: %w", err)
		}
	}
	return nil
}

func (r *groupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MeasurementGroup, error) {
	var g domain.MeasurementGroup
	err := r.db.GetContext(ctx, &g, "SELECT * FROM measurement_groups WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("groupRepo.GetByID: %w", err)
	}

	memberIDs := []uuid.UUID{}
	err = r.db.SelectContext(ctx, &memberIDs,
		"SELECT measurement_id FROM measurement_group_members WHERE group_id = $1 ORDER BY added_at ASC", id)
	if err != nil {
		return nil, fmt.Errorf("groupRepo.GetByID members: %w", err)
	}
	g.MemberIDs = memberIDs
	return &g, nil
}

func (r *groupRepo) List(ctx context.Context, offset, limit int) ([]domain.MeasurementGroup, int, error) {
	groups := []domain.MeasurementGroup{}
	err := r.db.SelectContext(ctx, &groups,
		"SELECT * FROM measurement_groups ORDER BY created_at DESC OFFSET $1 LIMIT $2", offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("groupRepo.List: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM measurement_groups"); err != nil {
		return nil, 0, fmt.Errorf("groupRepo.List count: %w", err)
	}
	return groups, total, nil
}

func (r *groupRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MeasurementStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE measurement_groups SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("groupRepo.UpdateStatus: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("groupRepo.UpdateStatus rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *groupRepo) ListApproved(ctx context.Context) ([]domain.MeasurementGroup, error) {
	groups := []domain.MeasurementGroup{}
	err := r.db.SelectContext(ctx, &groups,
		"SELECT * FROM measurement_groups WHERE status = 'approved' ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("groupRepo.ListApproved: %w", err)
	}
	return groups, nil
}

func (r *groupRepo) IsMemberOfApprovedGroup(ctx context.Context, measurementID uuid.UUID) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM measurement_group_members gm
		JOIN measurement_groups g ON g.id = gm.group_id
		WHERE gm.measurement_id = $1 AND g.status = 'approved'`,
		measurementID)
	if err != nil {
		return false, fmt.Errorf("groupRepo.IsMemberOfApprovedGroup: %w", err)
	}
	return count > 0, nil
}
