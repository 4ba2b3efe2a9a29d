package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medibill/internal/domain"
	"medibill/internal/port"
	"medibill/internal/service"
	"medibill/mocks"
)

type groupFixture struct {
	groupRepo       *mocks.MockGroupRepo
	measurementRepo *mocks.MockMeasurementRepo
	billingRepo     *mocks.MockBillingRepo
	notifier        *mocks.MockNotificationSender
	svc             service.GroupService
}

func newGroupFixture() *groupFixture {
	f := &groupFixture{
		groupRepo:       new(mocks.MockGroupRepo),
		measurementRepo: new(mocks.MockMeasurementRepo),
		billingRepo:     new(mocks.MockBillingRepo),
		notifier:        new(mocks.MockNotificationSender),
	}
	f.svc = service.NewGroupService(f.groupRepo, f.measurementRepo, f.billingRepo, f.notifier)
	return f
}

func openGroupMember(totalValue float64) *domain.Measurement {
	return &domain.Measurement{
		ID:         uuid.New(),
		JobID:      uuid.New(),
		ClientName: "Construtora Alfa",
		Status:     domain.MeasurementStatusOpen,
		TotalValue: totalValue,
	}
}

func TestGroupService_Create_Validation(t *testing.T) {
	f := newGroupFixture()

	_, err := f.svc.Create(context.Background(), &service.CreateGroupInput{
		Name: "  ", MeasurementIDs: []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Create(context.Background(), &service.CreateGroupInput{Name: "June batch"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGroupService_Create_MemberNotOpen(t *testing.T) {
	f := newGroupFixture()

	m := openGroupMember(1000)
	m.Status = domain.MeasurementStatusApproved
	f.measurementRepo.On("GetByID", mock.Anything, m.ID).Return(m, nil)

	_, err := f.svc.Create(context.Background(), &service.CreateGroupInput{
		Name: "June batch", MeasurementIDs: []uuid.UUID{m.ID},
	})
	assert.ErrorIs(t, err, domain.ErrGroupMemberNotOpen)
	f.groupRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGroupService_Create_MemberAlreadyClaimed(t *testing.T) {
	f := newGroupFixture()

	m := openGroupMember(1000)
	f.measurementRepo.On("GetByID", mock.Anything, m.ID).Return(m, nil)
	f.groupRepo.On("IsMemberOfApprovedGroup", mock.Anything, m.ID).Return(true, nil)

	_, err := f.svc.Create(context.Background(), &service.CreateGroupInput{
		Name: "June batch", MeasurementIDs: []uuid.UUID{m.ID},
	})
	assert.ErrorIs(t, err, domain.ErrMeasurementGrouped)
	f.groupRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGroupService_Create_SumsMemberTotals(t *testing.T) {
	f := newGroupFixture()

	a := openGroupMember(1200.50)
	b := openGroupMember(799.50)
	f.measurementRepo.On("GetByID", mock.Anything, a.ID).Return(a, nil)
	f.measurementRepo.On("GetByID", mock.Anything, b.ID).Return(b, nil)
	f.groupRepo.On("IsMemberOfApprovedGroup", mock.Anything, mock.Anything).Return(false, nil)
	f.groupRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.MeasurementGroup")).Return(nil)

	group, err := f.svc.Create(context.Background(), &service.CreateGroupInput{
		Name: "June batch", MeasurementIDs: []uuid.UUID{a.ID, b.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, group.TotalValue)
	assert.Equal(t, domain.MeasurementStatusOpen, group.Status)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, group.MemberIDs)

	f.groupRepo.AssertExpectations(t)
}

func TestGroupService_Approve_NotOpen(t *testing.T) {
	f := newGroupFixture()

	group := &domain.MeasurementGroup{
		ID:     uuid.New(),
		Status: domain.MeasurementStatusApproved,
	}
	f.groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)

	_, err := f.svc.Approve(context.Background(), group.ID)
	assert.ErrorIs(t, err, domain.ErrGroupNotOpen)
}

func TestGroupService_Approve_Sequence(t *testing.T) {
	f := newGroupFixture()

	memberA := uuid.New()
	memberB := uuid.New()
	group := &domain.MeasurementGroup{
		ID:         uuid.New(),
		Name:       "June batch",
		Status:     domain.MeasurementStatusOpen,
		TotalValue: 2000,
		MemberIDs:  []uuid.UUID{memberA, memberB},
	}
	f.groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	for _, id := range group.MemberIDs {
		member := openGroupMember(1000)
		member.ID = id
		f.measurementRepo.On("GetByID", mock.Anything, id).Return(member, nil)
		f.groupRepo.On("IsMemberOfApprovedGroup", mock.Anything, id).Return(false, nil)
	}
	f.measurementRepo.On("UpdateStatus", mock.Anything, memberA,
		domain.MeasurementStatusApproved, domain.BillingStatusGrouped).Return(nil)
	f.measurementRepo.On("UpdateStatus", mock.Anything, memberB,
		domain.MeasurementStatusApproved, domain.BillingStatusGrouped).Return(nil)
	f.groupRepo.On("UpdateStatus", mock.Anything, group.ID, domain.MeasurementStatusApproved).Return(nil)
	f.billingRepo.On("Create", mock.Anything, mock.MatchedBy(func(rec *domain.BillingRecord) bool {
		return rec.GroupID != nil && *rec.GroupID == group.ID && rec.MeasurementID == nil
	})).Return(nil)
	f.notifier.On("SendApprovalNotice", mock.Anything, mock.MatchedBy(func(n port.ApprovalNotice) bool {
		return n.CompanyName == "June batch" && n.TotalValue == 2000
	})).Return(nil)

	approved, err := f.svc.Approve(context.Background(), group.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MeasurementStatusApproved, approved.Status)

	f.measurementRepo.AssertExpectations(t)
	f.groupRepo.AssertExpectations(t)
	f.billingRepo.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestGroupService_Approve_SharedMemberAlreadyApproved(t *testing.T) {
	f := newGroupFixture()

	// The same open measurement joined two open groups; approving the first
	// group flipped it to approved. Approving the second group must refuse
	// the stale member before writing anything.
	shared := openGroupMember(1000)
	shared.Status = domain.MeasurementStatusApproved
	group := &domain.MeasurementGroup{
		ID:        uuid.New(),
		Name:      "July batch",
		Status:    domain.MeasurementStatusOpen,
		MemberIDs: []uuid.UUID{shared.ID},
	}
	f.groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	f.measurementRepo.On("GetByID", mock.Anything, shared.ID).Return(shared, nil)

	_, err := f.svc.Approve(context.Background(), group.ID)
	assert.ErrorIs(t, err, domain.ErrGroupMemberNotOpen)

	f.measurementRepo.AssertNotCalled(t, "UpdateStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.groupRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	f.billingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGroupService_Approve_SharedMemberClaimedByApprovedGroup(t *testing.T) {
	f := newGroupFixture()

	shared := openGroupMember(1000)
	group := &domain.MeasurementGroup{
		ID:        uuid.New(),
		Name:      "July batch",
		Status:    domain.MeasurementStatusOpen,
		MemberIDs: []uuid.UUID{shared.ID},
	}
	f.groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	f.measurementRepo.On("GetByID", mock.Anything, shared.ID).Return(shared, nil)
	f.groupRepo.On("IsMemberOfApprovedGroup", mock.Anything, shared.ID).Return(true, nil)

	_, err := f.svc.Approve(context.Background(), group.ID)
	assert.ErrorIs(t, err, domain.ErrMeasurementGrouped)

	f.measurementRepo.AssertNotCalled(t, "UpdateStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.billingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGroupService_Approve_StopsAtFailingMember(t *testing.T) {
	f := newGroupFixture()

	memberA := uuid.New()
	memberB := uuid.New()
	group := &domain.MeasurementGroup{
		ID:        uuid.New(),
		Name:      "June batch",
		Status:    domain.MeasurementStatusOpen,
		MemberIDs: []uuid.UUID{memberA, memberB},
	}
	f.groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	for _, id := range group.MemberIDs {
		member := openGroupMember(1000)
		member.ID = id
		f.measurementRepo.On("GetByID", mock.Anything, id).Return(member, nil)
		f.groupRepo.On("IsMemberOfApprovedGroup", mock.Anything, id).Return(false, nil)
	}
	f.measurementRepo.On("UpdateStatus", mock.Anything, memberA,
		domain.MeasurementStatusApproved, domain.BillingStatusGrouped).Return(nil)
	f.measurementRepo.On("UpdateStatus", mock.Anything, memberB,
		domain.MeasurementStatusApproved, domain.BillingStatusGrouped).
		Return(errors.New("db down"))

	_, err := f.svc.Approve(context.Background(), group.ID)
	assert.Error(t, err)

	// The sequence halts at the failing member; nothing past it runs.
	f.groupRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	f.billingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "SendApprovalNotice", mock.Anything, mock.Anything)
}

func TestGroupService_Approve_StopsBeforeBillingRecord(t *testing.T) {
	f := newGroupFixture()

	member := uuid.New()
	group := &domain.MeasurementGroup{
		ID:        uuid.New(),
		Name:      "June batch",
		Status:    domain.MeasurementStatusOpen,
		MemberIDs: []uuid.UUID{member},
	}
	f.groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	m := openGroupMember(1000)
	m.ID = member
	f.measurementRepo.On("GetByID", mock.Anything, member).Return(m, nil)
	f.groupRepo.On("IsMemberOfApprovedGroup", mock.Anything, member).Return(false, nil)
	f.measurementRepo.On("UpdateStatus", mock.Anything, member,
		domain.MeasurementStatusApproved, domain.BillingStatusGrouped).Return(nil)
	f.groupRepo.On("UpdateStatus", mock.Anything, group.ID, domain.MeasurementStatusApproved).
		Return(errors.New("db down"))

	_, err := f.svc.Approve(context.Background(), group.ID)
	assert.Error(t, err)

	f.billingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
