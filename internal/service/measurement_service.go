package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"medibill/internal/calc"
	"medibill/internal/domain"
	"medibill/internal/port"
)

// ProcessMeasurementInput is the DTO for running the reconciliation pipeline
// over a job's daily reports.
type ProcessMeasurementInput struct {
	JobID      uuid.UUID
	ClientName string
	ProposalID *uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	Snapshot   domain.ProposalSnapshot
}

// EditDetailInput is one manual correction to a detail line.
type EditDetailInput struct {
	DetailID       uuid.UUID `json:"detail_id"`
	TotalHours     *float64  `json:"total_hours"`
	GuaranteeHours *float64  `json:"guarantee_hours"`
	DowntimeHours  *float64  `json:"downtime_hours"`
}

// UpdateMeasurementInput is the DTO for editing an open measurement.
type UpdateMeasurementInput struct {
	MeasurementID uuid.UUID
	Snapshot      *domain.ProposalSnapshot
	DetailEdits   []EditDetailInput
}

// MeasurementService orchestrates the measurement pipeline: reconciliation
// of daily reports, guarantee re-application, manual detail edits, and
// approval into billing.
type MeasurementService interface {
	Process(ctx context.Context, input *ProcessMeasurementInput) (*domain.Measurement, error)
	Create(ctx context.Context, input *ProcessMeasurementInput) (*domain.Measurement, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Measurement, error)
	List(ctx context.Context, status domain.MeasurementStatus, offset, limit int) ([]domain.Measurement, int, error)
	Update(ctx context.Context, input *UpdateMeasurementInput) (*domain.Measurement, error)
	ReapplyGuarantee(ctx context.Context, id uuid.UUID, minGuarantee float64) (*domain.Measurement, error)
	Approve(ctx context.Context, id uuid.UUID) (*domain.Measurement, error)
}

type measurementService struct {
	reportRepo      port.DailyReportRepository
	measurementRepo port.MeasurementRepository
	groupRepo       port.MeasurementGroupRepository
	notifier        port.NotificationSender
}

// NewMeasurementService creates a new MeasurementService implementation.
func NewMeasurementService(
	reportRepo port.DailyReportRepository,
	measurementRepo port.MeasurementRepository,
	groupRepo port.MeasurementGroupRepository,
	notifier port.NotificationSender,
) MeasurementService {
	return &measurementService{
		reportRepo:      reportRepo,
		measurementRepo: measurementRepo,
		groupRepo:       groupRepo,
		notifier:        notifier,
	}
}

// Process runs the reconciliation pipeline without persisting anything,
// returning the would-be measurement for preview. An empty report range is
// not an error; the caller decides how to present "nothing found".
func (s *measurementService) Process(ctx context.Context, input *ProcessMeasurementInput) (*domain.Measurement, error) {
	if input.JobID == uuid.Nil || input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, domain.ErrValidation
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, domain.ErrValidation
	}

	reports, err := s.reportRepo.ListByJobAndRange(ctx, input.JobID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	details := calc.ReconcileReports(reports, calc.GuaranteeConfig{
		MinHoursGuarantee: input.Snapshot.MinHoursGuarantee,
		IgnoreLunchBreak:  input.Snapshot.IgnoreLunchBreak,
	})
	for i := range details {
		details[i].HourValue = input.Snapshot.HourValue
		details[i].ExtraHourValue = input.Snapshot.ExtraHourValue
	}

	m := &domain.Measurement{
		JobID:         input.JobID,
		ProposalID:    input.ProposalID,
		ClientName:    input.ClientName,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Status:        domain.MeasurementStatusOpen,
		BillingStatus: domain.BillingStatusPending,
		Snapshot:      input.Snapshot,
		Details:       details,
	}
	s.recompute(m)
	return m, nil
}

func (s *measurementService) Create(ctx context.Context, input *ProcessMeasurementInput) (*domain.Measurement, error) {
	m, err := s.Process(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.measurementRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *measurementService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Measurement, error) {
	m, err := s.measurementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.recompute(m)
	return m, nil
}

func (s *measurementService) List(ctx context.Context, status domain.MeasurementStatus, offset, limit int) ([]domain.Measurement, int, error) {
	return s.measurementRepo.List(ctx, status, offset, limit)
}

// Update applies manual corrections to an open measurement. Edits to a
// line's total or guarantee hours re-derive its overtime and balance; totals
// always come back out of the details and snapshot, never from the request.
func (s *measurementService) Update(ctx context.Context, input *UpdateMeasurementInput) (*domain.Measurement, error) {
	m, err := s.measurementRepo.GetByID(ctx, input.MeasurementID)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.MeasurementStatusOpen {
		return nil, domain.ErrMeasurementNotOpen
	}

	if input.Snapshot != nil {
		m.Snapshot = *input.Snapshot
	}

	byID := make(map[uuid.UUID]int, len(m.Details))
	for i := range m.Details {
		byID[m.Details[i].ID] = i
	}
	for _, edit := range input.DetailEdits {
		idx, ok := byID[edit.DetailID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		d := m.Details[idx]
		if edit.DowntimeHours != nil {
			d.DowntimeHours = *edit.DowntimeHours
		}
		if edit.TotalHours != nil {
			d.TotalHours = *edit.TotalHours
		}
		if edit.GuaranteeHours != nil {
			d.GuaranteeHours = *edit.GuaranteeHours
		}
		if edit.TotalHours != nil || edit.GuaranteeHours != nil {
			d = calc.RederiveDetail(d)
		}
		m.Details[idx] = d
	}

	s.recompute(m)
	if err := s.measurementRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ReapplyGuarantee recomputes overtime for an edited contractual guarantee
// without re-fetching the raw reports.
func (s *measurementService) ReapplyGuarantee(ctx context.Context, id uuid.UUID, minGuarantee float64) (*domain.Measurement, error) {
	m, err := s.measurementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.MeasurementStatusOpen {
		return nil, domain.ErrMeasurementNotOpen
	}

	m.Snapshot.MinHoursGuarantee = minGuarantee
	m.Details = calc.ReapplyGuarantee(m.Details, minGuarantee)
	s.recompute(m)

	if err := s.measurementRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Approve moves an open measurement into individual billing. A measurement
// claimed by an approved group is billed through the group and cannot be
// approved on its own.
func (s *measurementService) Approve(ctx context.Context, id uuid.UUID) (*domain.Measurement, error) {
	m, err := s.measurementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.MeasurementStatusOpen {
		return nil, domain.ErrMeasurementNotOpen
	}
	claimed, err := s.groupRepo.IsMemberOfApprovedGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, domain.ErrMeasurementGrouped
	}

	if err := s.measurementRepo.UpdateStatus(ctx, id, domain.MeasurementStatusApproved, domain.BillingStatusPending); err != nil {
		return nil, err
	}
	m.Status = domain.MeasurementStatusApproved
	s.recompute(m)

	if s.notifier != nil {
		notice := port.ApprovalNotice{
			Subject:     "Measurement approved",
			CompanyName: m.ClientName,
			Reference:   m.ID.String(),
			TotalValue:  m.TotalValue,
		}
		if err := s.notifier.SendApprovalNotice(ctx, notice); err != nil {
			log.Printf("approval notice for measurement %s failed: %v", m.ID, err)
		}
	}
	return m, nil
}

// recompute restores the derived state: totals are always a pure function of
// details + snapshot.
func (s *measurementService) recompute(m *domain.Measurement) {
	totals := calc.AggregateTotals(m.Details, m.Snapshot)
	m.Totals = &totals
	m.TotalValue = totals.TotalValue
}
