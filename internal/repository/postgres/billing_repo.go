package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"medibill/internal/domain"
	"medibill/internal/port"
)

type billingRepo struct {
	db *sqlx.DB
}

// NewBillingRepo creates a new PostgreSQL-backed BillingRepository.
func NewBillingRepo(db *sqlx.DB) port.BillingRepository {
	return &billingRepo{db: db}
}

// billingRow is the flat scan target; the imported snapshot lives in
// dedicated columns on the same row.
type billingRow struct {
	ID            uuid.UUID       `db:"id"`
	MeasurementID *uuid.UUID      `db:"measurement_id"`
	GroupID       *uuid.UUID      `db:"group_id"`
	IsImported    bool            `db:"is_imported"`
	InvoiceNumber string          `db:"invoice_number"`
	DueDate       *time.Time      `db:"due_date"`
	PaymentDate   *time.Time      `db:"payment_date"`
	ISSValue      float64         `db:"iss_value"`
	INSSValue     float64         `db:"inss_value"`
	PaymentMethod string          `db:"payment_method"`
	Attachments   json.RawMessage `db:"attachments"`
	IsActive      bool            `db:"is_active"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`

	ImportedServiceDate *time.Time `db:"imported_service_date"`
	ImportedIssueDate   *time.Time `db:"imported_issue_date"`
	ImportedDueDate     *time.Time `db:"imported_due_date"`
	ImportedCompanyName string     `db:"imported_company_name"`
	ImportedGrossValue  float64    `db:"imported_gross_value"`
}

func (row *billingRow) toDomain() domain.BillingRecord {
	return domain.BillingRecord{
		ID:            row.ID,
		MeasurementID: row.MeasurementID,
		GroupID:       row.GroupID,
		IsImported:    row.IsImported,
		InvoiceNumber: row.InvoiceNumber,
		DueDate:       row.DueDate,
		PaymentDate:   row.PaymentDate,
		ISSValue:      row.ISSValue,
		INSSValue:     row.INSSValue,
		PaymentMethod: row.PaymentMethod,
		Attachments:   row.Attachments,
		IsActive:      row.IsActive,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		Imported: domain.ImportedBillingData{
			ServiceDate: row.ImportedServiceDate,
			IssueDate:   row.ImportedIssueDate,
			DueDate:     row.ImportedDueDate,
			CompanyName: row.ImportedCompanyName,
			GrossValue:  row.ImportedGrossValue,
		},
	}
}

func (r *billingRepo) Create(ctx context.Context, rec *domain.BillingRecord) error {
	rec.ID = uuid.New()
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.IsActive = true
	if len(rec.Attachments) == 0 {
		rec.Attachments = json.RawMessage("[]")
	}

	query := `INSERT INTO billing_records (id, measurement_id, group_id, is_imported,
		invoice_number, due_date, payment_date, iss_value, inss_value, payment_method,
		attachments, is_active,
		imported_service_date, imported_issue_date, imported_due_date,
		imported_company_name, imported_gross_value,
		created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.MeasurementID, rec.GroupID, rec.IsImported,
		rec.InvoiceNumber, rec.DueDate, rec.PaymentDate, rec.ISSValue, rec.INSSValue, rec.PaymentMethod,
		rec.Attachments, rec.IsActive,
		rec.Imported.ServiceDate, rec.Imported.IssueDate, rec.Imported.DueDate,
		rec.Imported.CompanyName, rec.Imported.GrossValue,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("billingRepo.Create: %w", err)
	}
	return nil
}

func (r *billingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillingRecord, error) {
	var row billingRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM billing_records WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("billingRepo.GetByID: %w", err)
	}
	rec := row.toDomain()
	return &rec, nil
}

func (r *billingRepo) Update(ctx context.Context, rec *domain.BillingRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	if len(rec.Attachments) == 0 {
		rec.Attachments = json.RawMessage("[]")
	}

	query := `UPDATE billing_records SET invoice_number = $1, due_date = $2,
		payment_date = $3, iss_value = $4, inss_value = $5, payment_method = $6,
		attachments = $7,
		imported_service_date = $8, imported_issue_date = $9, imported_due_date = $10,
		imported_company_name = $11, imported_gross_value = $12,
		updated_at = $13
		WHERE id = $14`

	result, err := r.db.ExecContext(ctx, query,
		rec.InvoiceNumber, rec.DueDate,
		rec.PaymentDate, rec.ISSValue, rec.INSSValue, rec.PaymentMethod,
		rec.Attachments,
		rec.Imported.ServiceDate, rec.Imported.IssueDate, rec.Imported.DueDate,
		rec.Imported.CompanyName, rec.Imported.GrossValue,
		rec.UpdatedAt, rec.ID)
	if err != nil {
		return fmt.Errorf("billingRepo.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("billingRepo.Update rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *billingRepo) ListActive(ctx context.Context) ([]domain.BillingRecord, error) {
	var rows []billingRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM billing_records WHERE is_active = TRUE ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("billingRepo.ListActive: %w", err)
	}

	records := make([]domain.BillingRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].toDomain()
	}
	return records, nil
}

func (r *billingRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE billing_records SET is_active = FALSE, updated_at = $1 WHERE id = $2",
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("billingRepo.SoftDelete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("billingRepo.SoftDelete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
