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

type measurementRepo struct {
	db *sqlx.DB
}

// NewMeasurementRepo creates a new PostgreSQL-backed MeasurementRepository.
func NewMeasurementRepo(db *sqlx.DB) port.MeasurementRepository {
	return &measurementRepo{db: db}
}

// measurementRow is the flat scan target for measurements; the proposal
// snapshot lives in dedicated columns on the same row.
type measurementRow struct {
	ID            uuid.UUID                `db:"id"`
	JobID         uuid.UUID                `db:"job_id"`
	ProposalID    *uuid.UUID               `db:"proposal_id"`
	ClientName    string                   `db:"client_name"`
	StartDate     time.Time                `db:"start_date"`
	EndDate       time.Time                `db:"end_date"`
	Status        domain.MeasurementStatus `db:"status"`
	BillingStatus domain.BillingStatus     `db:"billing_status"`
	TotalValue    float64                  `db:"total_value"`
	CreatedAt     time.Time                `db:"created_at"`
	UpdatedAt     time.Time                `db:"updated_at"`

	Mobilization      float64 `db:"mobilization"`
	Demobilization    float64 `db:"demobilization"`
	MinHoursGuarantee float64 `db:"min_hours_guarantee"`
	HourValue         float64 `db:"hour_value"`
	ExtraHourValue    float64 `db:"extra_hour_value"`
	PeriodsQuantity   int     `db:"periods_quantity"`
	ConsideredHours   float64 `db:"considered_hours"`
	Discount          float64 `db:"discount"`
	IgnoreLunchBreak  bool    `db:"ignore_lunch_break"`
}

func (row *measurementRow) toDomain() domain.Measurement {
	return domain.Measurement{
		ID:            row.ID,
		JobID:         row.JobID,
		ProposalID:    row.ProposalID,
		ClientName:    row.ClientName,
		StartDate:     row.StartDate,
		EndDate:       row.EndDate,
		Status:        row.Status,
		BillingStatus: row.BillingStatus,
		TotalValue:    row.TotalValue,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		Snapshot: domain.ProposalSnapshot{
			Mobilization:      row.Mobilization,
			Demobilization:    row.Demobilization,
			MinHoursGuarantee: row.MinHoursGuarantee,
			HourValue:         row.HourValue,
			ExtraHourValue:    row.ExtraHourValue,
			PeriodsQuantity:   row.PeriodsQuantity,
			ConsideredHours:   row.ConsideredHours,
			Discount:          row.Discount,
			IgnoreLunchBreak:  row.IgnoreLunchBreak,
		},
	}
}

func (r *measurementRepo) Create(ctx context.Context, m *domain.Measurement) error {
	m.ID = uuid.New()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Status == "" {
		m.Status = domain.MeasurementStatusOpen
	}
	if m.BillingStatus == "" {
		m.BillingStatus = domain.BillingStatusPending
	}

	query := `INSERT INTO measurements (id, job_id, proposal_id, client_name,
		start_date, end_date, status, billing_status, total_value,
		mobilization, demobilization, min_hours_guarantee, hour_value, extra_hour_value,
		periods_quantity, considered_hours, discount, ignore_lunch_break,
		created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.JobID, m.ProposalID, m.ClientName,
		m.StartDate, m.EndDate, m.Status, m.BillingStatus, m.TotalValue,
		m.Snapshot.Mobilization, m.Snapshot.Demobilization, m.Snapshot.MinHoursGuarantee,
		m.Snapshot.HourValue, m.Snapshot.ExtraHourValue, m.Snapshot.PeriodsQuantity,
		m.Snapshot.ConsideredHours, m.Snapshot.Discount, m.Snapshot.IgnoreLunchBreak,
		m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("measurementRepo.Create: %w", err)
	}

	if err := r.insertDetails(ctx, m.ID, m.Details); err != nil {
		return err
	}
	for i := range m.Details {
		m.Details[i].MeasurementID = m.ID
	}
	return nil
}

func (r *measurementRepo) insertDetails(ctx context.Context, measurementID uuid.UUID, details []domain.MeasurementDetail) error {
	query := `INSERT INTO measurement_details (id, measurement_id, report_id,
		report_number, operator_name, report_date, downtime_hours, total_hours,
		guarantee_hours, overtime_hours, balance_hours, hour_value, extra_hour_value, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	for i := range details {
		d := &details[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.Position = i
		_, err := r.db.ExecContext(ctx, query,
			d.ID, measurementID, d.ReportID,
			d.ReportNumber, d.OperatorName, d.ReportDate, d.DowntimeHours, d.TotalHours,
			d.GuaranteeHours, d.OvertimeHours, d.BalanceHours, d.HourValue, d.ExtraHourValue, d.Position)
		if err != nil {
			return fmt.Errorf("measurementRepo.insertDetails: %w", err)
		}
	}
	return nil
}

func (r *measurementRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Measurement, error) {
	var row measurementRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM measurements WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("measurementRepo.GetByID: %w", err)
	}

	m := row.toDomain()
	details := []domain.MeasurementDetail{}
	err = r.db.SelectContext(ctx, &details,
		"SELECT * FROM measurement_details WHERE measurement_id = $1 ORDER BY position ASC", id)
	if err != nil {
		return nil, fmt.Errorf("measurementRepo.GetByID details: %w", err)
	}
	m.Details = details
	return &m, nil
}

func (r *measurementRepo) List(ctx context.Context, status domain.MeasurementStatus, offset, limit int) ([]domain.Measurement, int, error) {
	clause := ""
	args := []interface{}{}
	argN := 1
	if status != "" {
		clause = fmt.Sprintf("WHERE status = $%d", argN)
		args = append(args, status)
		argN++
	}

	dataQuery := fmt.Sprintf(
		"SELECT * FROM measurements %s ORDER BY end_date DESC OFFSET $%d LIMIT $%d",
		clause, argN, argN+1)
	dataArgs := append(append([]interface{}{}, args...), offset, limit)

	var rows []measurementRow
	if err := r.db.SelectContext(ctx, &rows, dataQuery, dataArgs...); err != nil {
		return nil, 0, fmt.Errorf("measurementRepo.List: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM measurements %s", clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("measurementRepo.List count: %w", err)
	}

	measurements := make([]domain.Measurement, len(rows))
	for i := range rows {
		measurements[i] = rows[i].toDomain()
	}
	return measurements, total, nil
}

func (r *measurementRepo) Update(ctx context.Context, m *domain.Measurement) error {
	m.UpdatedAt = time.Now().UTC()

	query := `UPDATE measurements SET client_name = $1, start_date = $2, end_date = $3,
		total_value = $4, mobilization = $5, demobilization = $6, min_hours_guarantee = $7,
		hour_value = $8, extra_hour_value = $9, periods_quantity = $10,
		considered_hours = $11, discount = $12, ignore_lunch_break = $13, updated_at = $14
		WHERE id = $15`

	result, err := r.db.ExecContext(ctx, query,
		m.ClientName, m.StartDate, m.EndDate,
		m.TotalValue, m.Snapshot.Mobilization, m.Snapshot.Demobilization, m.Snapshot.MinHoursGuarantee,
		m.Snapshot.HourValue, m.Snapshot.ExtraHourValue, m.Snapshot.PeriodsQuantity,
		m.Snapshot.ConsideredHours, m.Snapshot.Discount, m.Snapshot.IgnoreLunchBreak, m.UpdatedAt,
		m.ID)
	if err != nil {
		return fmt.Errorf("measurementRepo.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("measurementRepo.Update rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	// Detail lines are rewritten wholesale on every update.
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM measurement_details WHERE measurement_id = $1", m.ID); err != nil {
		return fmt.Errorf("measurementRepo.Update clear details: %w", err)
	}
	return r.insertDetails(ctx, m.ID, m.Details)
}

func (r *measurementRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MeasurementStatus, billing domain.BillingStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE measurements SET status = $1, billing_status = $2, updated_at = $3 WHERE id = $4",
		status, billing, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("measurementRepo.UpdateStatus: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("measurementRepo.UpdateStatus rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *measurementRepo) ListApprovedUnclaimed(ctx context.Context) ([]domain.Measurement, error) {
	query := `SELECT m.* FROM measurements m
		WHERE m.status = 'approved'
		AND m.id NOT IN (
			SELECT gm.measurement_id FROM measurement_group_members gm
			JOIN measurement_groups g ON g.id = gm.group_id
			WHERE g.status = 'approved'
		)
		ORDER BY m.end_date ASC`

	var rows []measurementRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("measurementRepo.ListApprovedUnclaimed: %w", err)
	}

	measurements := make([]domain.Measurement, len(rows))
	for i := range rows {
		measurements[i] = rows[i].toDomain()
	}
	return measurements, nil
}
