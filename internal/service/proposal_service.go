package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"medibill/internal/domain"
	"medibill/internal/port"
)

// CreateProposalInput is the DTO for creating a proposal.
type CreateProposalInput struct {
	ClientName        string  `json:"client_name" binding:"required"`
	Description       string  `json:"description"`
	Mobilization      float64 `json:"mobilization"`
	Demobilization    float64 `json:"demobilization"`
	MinHoursGuarantee float64 `json:"min_hours_guarantee"`
	HourValue         float64 `json:"hour_value"`
	ExtraHourValue    float64 `json:"extra_hour_value"`
	PeriodsQuantity   int     `json:"periods_quantity"`
	Discount          float64 `json:"discount"`
	IgnoreLunchBreak  bool    `json:"ignore_lunch_break"`
}

// ProposalService defines the proposal management contract.
type ProposalService interface {
	Create(ctx context.Context, input *CreateProposalInput) (*domain.Proposal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)
	List(ctx context.Context, offset, limit int) ([]domain.Proposal, int, error)
	Update(ctx context.Context, proposal *domain.Proposal) error
	NextNumber(ctx context.Context) (string, error)
}

type proposalService struct {
	proposalRepo port.ProposalRepository
	now          func() time.Time
}

// NewProposalService creates a new ProposalService implementation.
func NewProposalService(proposalRepo port.ProposalRepository) ProposalService {
	return &proposalService{proposalRepo: proposalRepo, now: time.Now}
}

func (s *proposalService) Create(ctx context.Context, input *CreateProposalInput) (*domain.Proposal, error) {
	if strings.TrimSpace(input.ClientName) == "" {
		return nil, domain.ErrValidation
	}

	number, err := s.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	proposal := &domain.Proposal{
		Number:            number,
		ClientName:        input.ClientName,
		Description:       input.Description,
		Status:            domain.ProposalStatusDraft,
		Mobilization:      input.Mobilization,
		Demobilization:    input.Demobilization,
		MinHoursGuarantee: input.MinHoursGuarantee,
		HourValue:         input.HourValue,
		ExtraHourValue:    input.ExtraHourValue,
		PeriodsQuantity:   input.PeriodsQuantity,
		Discount:          input.Discount,
		IgnoreLunchBreak:  input.IgnoreLunchBreak,
	}
	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

func (s *proposalService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	return s.proposalRepo.GetByID(ctx, id)
}

func (s *proposalService) List(ctx context.Context, offset, limit int) ([]domain.Proposal, int, error) {
	return s.proposalRepo.List(ctx, offset, limit)
}

func (s *proposalService) Update(ctx context.Context, proposal *domain.Proposal) error {
	return s.proposalRepo.Update(ctx, proposal)
}

func (s *proposalService) NextNumber(ctx context.Context) (string, error) {
	numbers, err := s.proposalRepo.ListNumbers(ctx)
	if err != nil {
		return "", fmt.Errorf("proposalService.NextNumber: %w", err)
	}
	return NextProposalNumber(numbers, s.now().Year()), nil
}

// NextProposalNumber computes the next sequential "N/YYYY" proposal number
// for the given year. Numbers from other years are ignored unless no number
// matches the current year at all, in which case the scan falls back to the
// highest numeric prefix regardless of year. Numbers are never reused within
// a year.
func NextProposalNumber(existing []string, year int) string {
	suffix := "/" + strconv.Itoa(year)

	maxCurrent := 0
	matchedCurrent := false
	maxAny := 0
	for _, number := range existing {
		prefix, _, found := strings.Cut(number, "/")
		if !found {
			prefix = number
		}
		n, err := strconv.Atoi(strings.TrimSpace(prefix))
		if err != nil || n <= 0 {
			continue
		}
		if n > maxAny {
			maxAny = n
		}
		if strings.HasSuffix(number, suffix) {
			matchedCurrent = true
			if n > maxCurrent {
				maxCurrent = n
			}
		}
	}

	next := maxCurrent + 1
	if !matchedCurrent && maxAny > 0 {
		next = maxAny + 1
	}
	return fmt.Sprintf("%d/%d", next, year)
}
