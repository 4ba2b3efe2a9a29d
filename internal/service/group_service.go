package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"medibill/internal/domain"
	"medibill/internal/port"
)

// CreateGroupInput is the DTO for consolidating measurements into a group.
type CreateGroupInput struct {
	Name           string      `json:"name" binding:"required"`
	MeasurementIDs []uuid.UUID `json:"measurement_ids" binding:"required"`
}

// GroupService manages measurement groups and their approval sequence.
type GroupService interface {
	Create(ctx context.Context, input *CreateGroupInput) (*domain.MeasurementGroup, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MeasurementGroup, error)
	List(ctx context.Context, offset, limit int) ([]domain.MeasurementGroup, int, error)
	Approve(ctx context.Context, id uuid.UUID) (*domain.MeasurementGroup, error)
}

type groupService struct {
	groupRepo       port.MeasurementGroupRepository
	measurementRepo port.MeasurementRepository
	billingRepo     port.BillingRepository
	notifier        port.NotificationSender
}

// NewGroupService creates a new GroupService implementation.
func NewGroupService(
	groupRepo port.MeasurementGroupRepository,
	measurementRepo port.MeasurementRepository,
	billingRepo port.BillingRepository,
	notifier port.NotificationSender,
) GroupService {
	return &groupService{
		groupRepo:       groupRepo,
		measurementRepo: measurementRepo,
		billingRepo:     billingRepo,
		notifier:        notifier,
	}
}

// Create consolidates measurements into a new open group. All members must
// be open, and none may already belong to an approved group.
func (s *groupService) Create(ctx context.Context, input *CreateGroupInput) (*domain.MeasurementGroup, error) {
	if strings.TrimSpace(input.Name) == "" || len(input.MeasurementIDs) == 0 {
		return nil, domain.ErrValidation
	}

	var totalValue float64
	for _, id := range input.MeasurementIDs {
		m, err := s.measurementRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if m.Status != domain.MeasurementStatusOpen {
			return nil, domain.ErrGroupMemberNotOpen
		}
		claimed, err := s.groupRepo.IsMemberOfApprovedGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		if claimed {
			return nil, domain.ErrMeasurementGrouped
		}
		totalValue += m.TotalValue
	}

	group := &domain.MeasurementGroup{
		Name:       input.Name,
		Status:     domain.MeasurementStatusOpen,
		TotalValue: totalValue,
		MemberIDs:  input.MeasurementIDs,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) GetByID(ctx context.Context, id uuid.UUID) (*domain.MeasurementGroup, error) {
	return s.groupRepo.GetByID(ctx, id)
}

func (s *groupService) List(ctx context.Context, offset, limit int) ([]domain.MeasurementGroup, int, error) {
	return s.groupRepo.List(ctx, offset, limit)
}

// Approve runs the three-step approval sequence: approve each member
// measurement, approve the group, then insert the group's billing metadata
// row. The steps are independent writes; on failure the sequence stops at
// the failing step and earlier writes stand. No rollback is attempted.
func (s *groupService) Approve(ctx context.Context, id uuid.UUID) (*domain.MeasurementGroup, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group.Status != domain.MeasurementStatusOpen {
		return nil, domain.ErrGroupNotOpen
	}

	// A measurement may sit in several open groups at once, but only one
	// approved group can claim it. Re-verify every member before the first
	// write so a competing approval cannot double-bill a shared member.
	for _, measurementID := range group.MemberIDs {
		m, err := s.measurementRepo.GetByID(ctx, measurementID)
		if err != nil {
			return nil, err
		}
		if m.Status != domain.MeasurementStatusOpen {
			return nil, domain.ErrGroupMemberNotOpen
		}
		claimed, err := s.groupRepo.IsMemberOfApprovedGroup(ctx, measurementID)
		if err != nil {
			return nil, err
		}
		if claimed {
			return nil, domain.ErrMeasurementGrouped
		}
	}

	for _, measurementID := range group.MemberIDs {
		err := s.measurementRepo.UpdateStatus(ctx, measurementID,
			domain.MeasurementStatusApproved, domain.BillingStatusGrouped)
		if err != nil {
			return nil, err
		}
	}

	if err := s.groupRepo.UpdateStatus(ctx, id, domain.MeasurementStatusApproved); err != nil {
		return nil, err
	}
	group.Status = domain.MeasurementStatusApproved

	groupID := group.ID
	rec := &domain.BillingRecord{GroupID: &groupID}
	if err := s.billingRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		notice := port.ApprovalNotice{
			Subject:     "Measurement group approved",
			CompanyName: group.Name,
			Reference:   group.ID.String(),
			TotalValue:  group.TotalValue,
		}
		if err := s.notifier.SendApprovalNotice(ctx, notice); err != nil {
			log.Printf("approval notice for group %s failed: %v", group.ID, err)
		}
	}
	return group, nil
}
