package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"medibill/internal/domain"
	"medibill/internal/port"
)

type dailyReportRepo struct {
	db *sqlx.DB
}

// NewDailyReportRepo creates a new PostgreSQL-backed DailyReportRepository.
func NewDailyReportRepo(db *sqlx.DB) port.DailyReportRepository {
	return &dailyReportRepo{db: db}
}

func (r *dailyReportRepo) Create(ctx context.Context, report *domain.DailyReport) error {
	query := `
		INSERT INTO daily_reports (
			id, job_id, report_number, operator_name, report_date,
			start_time, end_time, lunch_start_time, lunch_end_time,
			downtime_hours, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.JobID, report.ReportNumber, report.OperatorName,
		report.ReportDate, report.StartTime, report.EndTime,
		report.LunchStartTime, report.LunchEndTime, report.DowntimeHours,
		report.CreatedAt)
	if err != nil {
		return fmt.Errorf("dailyReportRepo.Create: %w", err)
	}
	return nil
}

func (r *dailyReportRepo) ListByJobAndRange(ctx context.Context, jobID uuid.UUID, from, to time.Time) ([]domain.DailyReport, error) {
	reports := []domain.DailyReport{}
	err := r.db.SelectContext(ctx, &reports,
		`SELECT * FROM daily_reports
		WHERE job_id = $1 AND report_date >= $2 AND report_date <= $3
		ORDER BY report_date ASC, report_number ASC`,
		jobID, from, to)
	if err != nil {
		return nil, fmt.Errorf("dailyReportRepo.ListByJobAndRange: %w", err)
	}
	return reports, nil
}
