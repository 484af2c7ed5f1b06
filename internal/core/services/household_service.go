package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/homebalance/home_balance_app/internal/core/domain"
	portsrepo "github.com/homebalance/home_balance_app/internal/core/ports/repositories"
	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/dto"
	"github.com/homebalance/home_balance_app/internal/middleware"
)

// householdService manages household settings, members and monthly incomes.
type householdService struct {
	householdRepo   portsrepo.HouseholdRepositoryWithTx
	periodRepo      portsrepo.PeriodReader
	contributionSvc portssvc.ContributionSvcFacade
}

// NewHouseholdService creates a new HouseholdService.
func NewHouseholdService(
	householdRepo portsrepo.HouseholdRepositoryWithTx,
	periodRepo portsrepo.PeriodReader,
	contributionSvc portssvc.ContributionSvcFacade,
) portssvc.HouseholdSvcFacade {
	return &householdService{
		householdRepo:   householdRepo,
		periodRepo:      periodRepo,
		contributionSvc: contributionSvc,
	}
}

var _ portssvc.HouseholdSvcFacade = (*householdService)(nil)

// GetHousehold retrieves a household with its live settings.
func (s *householdService) GetHousehold(ctx context.Context, householdID string) (*domain.Household, error) {
	return s.householdRepo.FindHouseholdByID(ctx, householdID)
}

// UpdateSettings writes the live contribution configuration. Periods locked
// before the change keep the snapshot they were locked with.
func (s *householdService) UpdateSettings(ctx context.Context, householdID string, req dto.UpdateSettingsRequest, actorID string) (*domain.Household, error) {
	method, err := domain.ParseCalculationMethod(req.Method)
	if err != nil {
		return nil, err
	}
	if req.MonthlyGoal.IsNegative() {
		return nil, fmt.Errorf("%w: monthly goal cannot be negative", apperrors.ErrValidation)
	}

	settings := domain.HouseholdSettings{Method: method, MonthlyGoal: req.MonthlyGoal}
	if err := s.householdRepo.UpdateHouseholdSettings(ctx, householdID, settings, actorID, time.Now().UTC()); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Household settings updated",
		slog.String("household_id", householdID),
		slog.String("method", string(method)),
		slog.String("monthly_goal", req.MonthlyGoal.String()),
	)
	return s.householdRepo.FindHouseholdByID(ctx, householdID)
}

// UpsertMemberIncome declares a member's income for one month. Once the
// owning period is locked the declaration window is over.
func (s *householdService) UpsertMemberIncome(ctx context.Context, householdID string, req dto.UpsertIncomeRequest, actorID string) error {
	if req.Amount.IsNegative() {
		return fmt.Errorf("%w: income cannot be negative", apperrors.ErrValidation)
	}

	members, err := s.householdRepo.ListMembers(ctx, householdID)
	if err != nil {
		return err
	}
	var isMember bool
	for _, m := range members {
		if m.MemberID == req.MemberID && m.IsActive {
			isMember = true
			break
		}
	}
	if !isMember {
		return fmt.Errorf("%w: member %s does not belong to this household", apperrors.ErrValidation, req.MemberID)
	}

	month := time.Month(req.Month)
	period, err := s.periodRepo.FindPeriodByMonth(ctx, householdID, req.Year, month)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if period != nil {
		switch period.Phase {
		case domain.PhasePreparing, domain.PhaseValidation:
		default:
			return fmt.Errorf("%w: incomes of a %s period are locked", apperrors.ErrPhaseViolation, period.Phase)
		}
	}

	income := domain.MemberIncome{
		IncomeID:    uuid.NewString(),
		HouseholdID: householdID,
		MemberID:    req.MemberID,
		Year:        req.Year,
		Month:       month,
		Amount:      req.Amount,
		AuditFields: domain.NewAuditFields(actorID, time.Now().UTC()),
	}
	if err := s.householdRepo.UpsertMemberIncome(ctx, income); err != nil {
		return err
	}

	if period != nil && period.Phase.AllowsRecalculation() {
		if _, err := s.contributionSvc.Recalculate(ctx, householdID, req.Year, month, actorID); err != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Recalculation after income change failed",
				slog.String("period_id", period.PeriodID),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// ListMembers retrieves a household's members.
func (s *householdService) ListMembers(ctx context.Context, householdID string) ([]domain.HouseholdMember, error) {
	return s.householdRepo.ListMembers(ctx, householdID)
}

// GetSavingsFund retrieves the household's savings fund balance.
func (s *householdService) GetSavingsFund(ctx context.Context, householdID string) (*domain.SavingsFund, error) {
	return s.householdRepo.GetSavingsFund(ctx, householdID)
}
