package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medibill/internal/domain"
	"medibill/internal/service"
	"medibill/mocks"
)

// 2025-06-03 is a Tuesday.
var tuesday = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

func testSnapshot() domain.ProposalSnapshot {
	return domain.ProposalSnapshot{
		MinHoursGuarantee: 8,
		HourValue:         100,
		ExtraHourValue:    150,
		PeriodsQuantity:   1,
	}
}

func testReport(jobID uuid.UUID, date time.Time) domain.DailyReport {
	return domain.DailyReport{
		ID:             uuid.New(),
		JobID:          jobID,
		ReportNumber:   "BDE-042",
		OperatorName:   "J. Silva",
		ReportDate:     date,
		StartTime:      "08:00",
		EndTime:        "18:00",
		LunchStartTime: "12:00",
		LunchEndTime:   "13:00",
	}
}

func openMeasurement() *domain.Measurement {
	return &domain.Measurement{
		ID:         uuid.New(),
		JobID:      uuid.New(),
		ClientName: "Construtora Alfa",
		StartDate:  tuesday,
		EndDate:    tuesday.AddDate(0, 1, 0),
		Status:     domain.MeasurementStatusOpen,
		Snapshot:   testSnapshot(),
		Details: []domain.MeasurementDetail{
			{
				ID:             uuid.New(),
				ReportNumber:   "BDE-042",
				ReportDate:     tuesday,
				TotalHours:     9,
				GuaranteeHours: 8,
				OvertimeHours:  1,
				BalanceHours:   9,
				Position:       0,
			},
		},
	}
}

func newMeasurementService(
	reportRepo *mocks.MockDailyReportRepo,
	measurementRepo *mocks.MockMeasurementRepo,
	groupRepo *mocks.MockGroupRepo,
	notifier *mocks.MockNotificationSender,
) service.MeasurementService {
	if groupRepo == nil {
		groupRepo = new(mocks.MockGroupRepo)
	}
	return service.NewMeasurementService(reportRepo, measurementRepo, groupRepo, notifier)
}

func TestMeasurementService_Process_Validation(t *testing.T) {
	reportRepo := new(mocks.MockDailyReportRepo)
	svc := newMeasurementService(reportRepo, new(mocks.MockMeasurementRepo), nil, nil)

	jobID := uuid.New()
	cases := []struct {
		name  string
		input service.ProcessMeasurementInput
	}{
		{"missing job", service.ProcessMeasurementInput{StartDate: tuesday, EndDate: tuesday}},
		{"zero start", service.ProcessMeasurementInput{JobID: jobID, EndDate: tuesday}},
		{"zero end", service.ProcessMeasurementInput{JobID: jobID, StartDate: tuesday}},
		{"inverted range", service.ProcessMeasurementInput{
			JobID: jobID, StartDate: tuesday, EndDate: tuesday.AddDate(0, 0, -1),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Process(context.Background(), &tc.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	reportRepo.AssertNotCalled(t, "ListByJobAndRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMeasurementService_Process_ReconcilesWithoutPersisting(t *testing.T) {
	reportRepo := new(mocks.MockDailyReportRepo)
	measurementRepo := new(mocks.MockMeasurementRepo)
	svc := newMeasurementService(reportRepo, measurementRepo, nil, nil)

	jobID := uuid.New()
	from := tuesday
	to := tuesday.AddDate(0, 0, 7)
	reports := []domain.DailyReport{
		testReport(jobID, tuesday),
		testReport(jobID, tuesday.AddDate(0, 0, 1)),
	}
	reportRepo.On("ListByJobAndRange", mock.Anything, jobID, from, to).Return(reports, nil)

	m, err := svc.Process(context.Background(), &service.ProcessMeasurementInput{
		JobID:      jobID,
		ClientName: "Construtora Alfa",
		StartDate:  from,
		EndDate:    to,
		Snapshot:   testSnapshot(),
	})
	require.NoError(t, err)

	require.Len(t, m.Details, 2)
	// 10h shift minus 1h lunch, guarantee met exactly.
	assert.Equal(t, 9.0, m.Details[0].TotalHours)
	assert.Equal(t, 8.0, m.Details[0].GuaranteeHours)
	assert.Equal(t, 1.0, m.Details[0].OvertimeHours)
	assert.Equal(t, 100.0, m.Details[0].HourValue)
	assert.Equal(t, 150.0, m.Details[0].ExtraHourValue)

	assert.Equal(t, domain.MeasurementStatusOpen, m.Status)
	assert.Equal(t, domain.BillingStatusPending, m.BillingStatus)

	require.NotNil(t, m.Totals)
	assert.Equal(t, 18.0, m.Totals.TotalBalanceHours)
	assert.Equal(t, 1800.0, m.Totals.TotalBaseValue)
	assert.Equal(t, 300.0, m.Totals.TotalOvertimeValue)
	assert.Equal(t, 2100.0, m.TotalValue)

	measurementRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMeasurementService_Process_EmptyRange(t *testing.T) {
	reportRepo := new(mocks.MockDailyReportRepo)
	svc := newMeasurementService(reportRepo, new(mocks.MockMeasurementRepo), nil, nil)

	jobID := uuid.New()
	reportRepo.On("ListByJobAndRange", mock.Anything, jobID, mock.Anything, mock.Anything).
		Return([]domain.DailyReport{}, nil)

	m, err := svc.Process(context.Background(), &service.ProcessMeasurementInput{
		JobID:     jobID,
		StartDate: tuesday,
		EndDate:   tuesday.AddDate(0, 0, 7),
		Snapshot:  testSnapshot(),
	})
	require.NoError(t, err)
	assert.Empty(t, m.Details)
	// The guarantee floor still bills the contractual minimum.
	assert.Equal(t, 8.0, m.Totals.TotalBalanceHours)
	assert.Equal(t, 800.0, m.TotalValue)
}

func TestMeasurementService_Create_Persists(t *testing.T) {
	reportRepo := new(mocks.MockDailyReportRepo)
	measurementRepo := new(mocks.MockMeasurementRepo)
	svc := newMeasurementService(reportRepo, measurementRepo, nil, nil)

	jobID := uuid.New()
	reportRepo.On("ListByJobAndRange", mock.Anything, jobID, mock.Anything, mock.Anything).
		Return([]domain.DailyReport{testReport(jobID, tuesday)}, nil)
	measurementRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Measurement")).Return(nil)

	m, err := svc.Create(context.Background(), &service.ProcessMeasurementInput{
		JobID:     jobID,
		StartDate: tuesday,
		EndDate:   tuesday.AddDate(0, 0, 7),
		Snapshot:  testSnapshot(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MeasurementStatusOpen, m.Status)

	measurementRepo.AssertExpectations(t)
}

func TestMeasurementService_Update_NotOpen(t *testing.T) {
	measurementRepo := new(mocks.MockMeasurementRepo)
	svc := newMeasurementService(new(mocks.MockDailyReportRepo), measurementRepo, nil, nil)

	m := openMeasurement()
	m.Status = domain.MeasurementStatusApproved
	measurementRepo.On("GetByID", mock.Anything, m.ID).Return(m, nil)

	_, err := svc.Update(context.Background(), &service.UpdateMeasurementInput{MeasurementID: m.ID})
	assert.ErrorIs(t, err, domain.ErrMeasurementNotOpen)
	measurementRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMeasurementService_Update_UnknownDetail(t *testing.T) {
	measurementRepo := new(mocks.MockMeasurementRepo)
	svc := newMeasurementService(new(mocks.MockDailyReportRepo), measurementRepo, nil, nil)

	m := openMeasurement()
	measurementRepo.On("GetByID", mock.Anything, m.ID).Return(m, nil)

	_, err := svc.Update(context.Background(), &service.UpdateMeasurementInput{
		MeasurementID: m.ID,
		DetailEdits:   []service.EditDetailInput{{DetailID: uuid.New()}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	measurementRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMeasurementService_Update_RederivesEditedLine(t *testing.T) {
	measurementRepo := new(mocks.MockMeasurementRepo)
	svc := newMeasurementService(new(mocks.MockDailyReportRepo), measurementRepo, nil, nil)

	m := openMeasurement()
	measurementRepo.On("GetByID", mock.Anything, m.ID).Return(m, nil)
	measurementRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Measurement")).Return(nil)

	newTotal := 11.0
	updated, err := svc.Update(context.Background(), &service.UpdateMeasurementInput{
		MeasurementID: m.ID,
		DetailEdits: []service.EditDetailInput{
			{DetailID: m.Details[0].ID, TotalHours: &newTotal},
		},
	})
	require.NoError(t, err)

	d := updated.Details[0]
	assert.Equal(t, 11.0, d.TotalHours)
	assert.Equal(t, 3.0, d.OvertimeHours)
	assert.Equal(t, 11.0, d.BalanceHours)
	// Totals follow the edit, never the request body.
	assert.Equal(t, 11.0, updated.Totals.TotalBalanceHours)
	assert.Equal(t, 1100.0+3*150.0, updated.TotalValue)

	measurementRepo.AssertExpectations(t)
}

func TestMeasurementService_ReapplyGuarantee_Success(t *testing.T) {
	measurementRepo := new(mocks.MockMeasurementRepo)
	svc := newMeasurementService(new(mocks.MockDailyReportRepo), measurementRepo, nil, nil)

	m := openMeasurement()
	measurementRepo.On("GetByID", mock.Anything, m.ID).Return(m, nil)
	measurementRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Measurement")).Return(nil)

	updated, err := svc.ReapplyGuarantee(context.Background(), m.ID, 6)
	require.NoError(t, err)

	assert.Equal(t, 6.0, updated.Snapshot.MinHoursGuarantee)
	assert.Equal(t, 6.0, updated.Details[0].GuaranteeHours)
	assert.Equal(t, 3.0, updated.Details[0].OvertimeHours)
	assert.Equal(t, 9.0, updated.Details[0].TotalHours)

	measurementRepo.AssertExpectations(t)
}

func TestMeasurementService_ReapplyGuarantee_NotOpen(t *testing.T) {
	measurementRepo := new(mocks.MockMeasurementRepo)
	svc := newMeasurementService(new(mocks.MockDailyReportRepo), measurementRepo, nil, nil)

	m := openMeasurement()
	m.Status = domain.MeasurementStatusApproved
	measurementRepo.On("GetByID", mock.Anything, m.ID).Return(m, nil)

	_, err := svc.ReapplyGuarantee(context.Background(), m.ID, 6)
	assert.ErrorIs(t, err, domain.ErrMeasurementNotOpen)
}

func TestMeasurementService_Approve_Success(t *testing.T) {
	measurementRepo := new(mocks.MockMeasurementRepo)
	groupRepo := new(mocks.MockGroupRepo)
	notifier := new(mocks.MockNotificationSender)
	svc := newMeasurementService(new(mocks.MockDailyReportRepo), measurementRepo, groupRepo, notifier)

	m := openMeasurement()
	measurementRepo.On("GetByID", mock.Anything, m.ID).Return(m, nil)
	groupRepo.On("IsMemberOfApprovedGroup", mock.Anything, m.ID).Return(false, nil)
	measurementRepo.On("UpdateStatus", mock.Anything, m.ID,
		domain.MeasurementStatusApproved, domain.BillingStatusPending).Return(nil)
	notifier.On("SendApprovalNotice", mock.Anything, mock.AnythingOfType("port.ApprovalNotice")).Return(nil)

	approved, err := svc.Approve(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MeasurementStatusApproved, approved.Status)

	measurementRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestMeasurementService_Approve_NotifierFailureIgnored(t *testing.T) {
	measurementRepo := new(mocks.MockMeasurementRepo)
	groupRepo := new(mocks.MockGroupRepo)
	notifier := new(mocks.MockNotificationSender)
	svc := newMeasurementService(new(mocks.MockDailyReportRepo), measurementRepo, groupRepo, notifier)

	m := openMeasurement()
	measurementRepo.On("GetByID", mock.Anything, m.ID).Return(m, nil)
	groupRepo.On("IsMemberOfApprovedGroup", mock.Anything, m.ID).Return(false, nil)
	measurementRepo.On("UpdateStatus", mock.Anything, m.ID,
		domain.MeasurementStatusApproved, domain.BillingStatusPending).Return(nil)
	notifier.On("SendApprovalNotice", mock.Anything, mock.AnythingOfType("port.ApprovalNotice")).
		Return(errors.New("smtp down"))

	approved, err := svc.Approve(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MeasurementStatusApproved, approved.Status)
}

func TestMeasurementService_Approve_GroupedMeasurementRejected(t *testing.T) {
	measurementRepo := new(mocks.MockMeasurementRepo)
	groupRepo := new(mocks.MockGroupRepo)
	svc := newMeasurementService(new(mocks.MockDailyReportRepo), measurementRepo, groupRepo, nil)

	m := openMeasurement()
	measurementRepo.On("GetByID", mock.Anything, m.ID).Return(m, nil)
	groupRepo.On("IsMemberOfApprovedGroup", mock.Anything, m.ID).Return(true, nil)

	_, err := svc.Approve(context.Background(), m.ID)
	assert.ErrorIs(t, err, domain.ErrMeasurementGrouped)
	measurementRepo.AssertNotCalled(t, "UpdateStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMeasurementService_Approve_NotOpen(t *testing.T) {
	measurementRepo := new(mocks.MockMeasurementRepo)
	svc := newMeasurementService(new(mocks.MockDailyReportRepo), measurementRepo, nil, nil)

	m := openMeasurement()
	m.Status = domain.MeasurementStatusApproved
	measurementRepo.On("GetByID", mock.Anything, m.ID).Return(m, nil)

	_, err := svc.Approve(context.Background(), m.ID)
	assert.ErrorIs(t, err, domain.ErrMeasurementNotOpen)
	measurementRepo.AssertNotCalled(t, "UpdateStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
