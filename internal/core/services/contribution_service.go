package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/homebalance/home_balance_app/internal/core/domain"
	portsrepo "github.com/homebalance/home_balance_app/internal/core/ports/repositories"
	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/middleware"
	"github.com/homebalance/home_balance_app/internal/utils/money"
)

// contributionService computes each member's expected/paid/pending share.
type contributionService struct {
	periodRepo       portsrepo.PeriodRepositoryFacade
	movementRepo     portsrepo.MovementRepositoryFacade
	adjustmentRepo   portsrepo.AdjustmentRepositoryFacade
	creditRepo       portsrepo.CreditRepositoryFacade
	householdRepo    portsrepo.HouseholdRepositoryFacade
	contributionRepo portsrepo.ContributionRepositoryWithTx
}

// NewContributionService creates a new ContributionService.
func NewContributionService(
	periodRepo portsrepo.PeriodRepositoryFacade,
	movementRepo portsrepo.MovementRepositoryFacade,
	adjustmentRepo portsrepo.AdjustmentRepositoryFacade,
	creditRepo portsrepo.CreditRepositoryFacade,
	householdRepo portsrepo.HouseholdRepositoryFacade,
	contributionRepo portsrepo.ContributionRepositoryWithTx,
) portssvc.ContributionSvcFacade {
	return &contributionService{
		periodRepo:       periodRepo,
		movementRepo:     movementRepo,
		adjustmentRepo:   adjustmentRepo,
		creditRepo:       creditRepo,
		householdRepo:    householdRepo,
		contributionRepo: contributionRepo,
	}
}

var _ portssvc.ContributionSvcFacade = (*contributionService)(nil)

// shareFractions computes each member's share of the goal in member order.
// All-zero incomes under the proportional method fall back to an equal split.
func shareFractions(method domain.CalculationMethod, members []domain.HouseholdMember, incomes map[string]decimal.Decimal) []decimal.Decimal {
	n := int64(len(members))
	fractions := make([]decimal.Decimal, len(members))

	if method == domain.MethodProportional {
		total := decimal.Zero
		for _, m := range members {
			total = total.Add(incomes[m.MemberID])
		}
		if total.IsPositive() {
			for i, m := range members {
				fractions[i] = incomes[m.MemberID].Div(total)
			}
			return fractions
		}
		// No declared income anywhere: proportional degrades to equal.
	}

	equal := decimal.NewFromInt(1).Div(decimal.NewFromInt(n))
	for i := range fractions {
		fractions[i] = equal
	}
	return fractions
}

// Calculate computes contribution rows for one period. Pure: it never touches
// the store, and recomputing an unchanged input yields identical amounts.
func (s *contributionService) Calculate(input domain.CalculationInput) ([]domain.Contribution, error) {
	if len(input.Members) == 0 {
		return nil, fmt.Errorf("%w: household has no members", apperrors.ErrValidation)
	}

	// Deterministic member order so the rounding residual always lands on
	// the same member.
	members := make([]domain.HouseholdMember, len(input.Members))
	copy(members, input.Members)
	sort.Slice(members, func(i, j int) bool { return members[i].MemberID < members[j].MemberID })

	incomes := make(map[string]decimal.Decimal, len(input.Incomes))
	hasIncome := make(map[string]bool, len(input.Incomes))
	for _, inc := range input.Incomes {
		incomes[inc.MemberID] = inc.Amount
		hasIncome[inc.MemberID] = true
	}

	directExpenses := make(map[string]decimal.Decimal)
	paid := make(map[string]decimal.Decimal)
	for _, mv := range input.Movements {
		if mv.Voided {
			continue
		}
		switch {
		case mv.Flow == domain.FlowDirect && mv.Type == domain.ExpenseDirect:
			payer := mv.RealPayerID
			if payer == "" {
				payer = mv.PayerID
			}
			directExpenses[payer] = directExpenses[payer].Add(mv.Amount)
		case mv.Flow == domain.FlowCommon && mv.Type == domain.Income:
			paid[mv.PayerID] = paid[mv.PayerID].Add(mv.Amount)
		}
	}

	approvedAdjustments := make(map[string]decimal.Decimal)
	for _, adj := range input.Adjustments {
		if adj.State == domain.AdjustmentApproved {
			approvedAdjustments[adj.MemberID] = approvedAdjustments[adj.MemberID].Add(adj.Amount)
		}
	}

	reservedCredits := make(map[string]decimal.Decimal)
	for _, cr := range input.ReservedCredits {
		reservedCredits[cr.MemberID] = reservedCredits[cr.MemberID].Add(cr.Amount)
	}

	fractions := shareFractions(input.Snapshot.Method, members, incomes)
	baseParts := money.SplitByFractions(input.Snapshot.MonthlyGoal, fractions)

	rows := make([]domain.Contribution, len(members))
	for i, m := range members {
		base := baseParts[i]
		direct := money.Round2(directExpenses[m.MemberID])
		afterDirect := money.Max0(base.Sub(direct))
		afterAdjustments := money.Max0(afterDirect.Add(money.Round2(approvedAdjustments[m.MemberID])))

		credit := reservedCredits[m.MemberID]
		applied := decimal.Min(afterAdjustments, credit)
		expected := afterAdjustments.Sub(applied)
		// Credit beyond the expected amount is not forfeited: it rolls into
		// the member's surplus, and the close mints it as a fresh credit.
		creditExcess := credit.Sub(applied)

		paidAmount := money.Round2(paid[m.MemberID])
		pending := money.Max0(expected.Sub(paidAmount))
		overpaid := money.Max0(paidAmount.Sub(expected)).Add(creditExcess)

		var status domain.ContributionStatus
		switch {
		case !hasIncome[m.MemberID]:
			status = domain.StatusPendingConfiguration
		case overpaid.IsPositive():
			status = domain.StatusOverpaid
		case pending.IsZero():
			status = domain.StatusPaid
		case paidAmount.IsPositive():
			status = domain.StatusPartial
		default:
			status = domain.StatusPending
		}

		rows[i] = domain.Contribution{
			ContributionID:      uuid.NewString(),
			PeriodID:            input.Period.PeriodID,
			HouseholdID:         input.Period.HouseholdID,
			MemberID:            m.MemberID,
			IncomeShare:         fractions[i],
			BaseExpected:        base,
			DirectExpenses:      direct,
			ExpectedAfterDirect: afterDirect,
			ExpectedAmount:      expected,
			CreditApplied:       applied,
			PaidAmount:          paidAmount,
			PendingAmount:       pending,
			OverpaidAmount:      overpaid,
			Status:              status,
			AuditFields:         domain.NewAuditFields(input.ActorID, input.Now),
		}
	}

	return rows, nil
}

// Recalculate loads a period's inputs, recomputes contribution rows and
// persists them together with the consumption of any reserved credits, in
// one atomic unit.
func (s *contributionService) Recalculate(ctx context.Context, householdID string, year int, month time.Month, actorID string) ([]domain.Contribution, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByMonth(ctx, householdID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to find period for %d-%02d: %w", year, month, err)
	}
	if !period.Phase.AllowsRecalculation() {
		return nil, fmt.Errorf("%w: contributions of a %s period are immutable", apperrors.ErrPhaseViolation, period.Phase)
	}

	input, err := s.loadCalculationInput(ctx, *period, actorID)
	if err != nil {
		return nil, err
	}

	rows, err := s.Calculate(input)
	if err != nil {
		return nil, err
	}

	tx, err := s.contributionRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.contributionRepo.Rollback(ctx, tx)

	if err := s.contributionRepo.ReplaceContributionsInTx(ctx, tx, period.PeriodID, rows); err != nil {
		logger.Error("Failed to replace contribution rows", slog.String("period_id", period.PeriodID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to store contributions: %w", err)
	}

	// Reserved credits applied above become consumed in the same unit so
	// the reduction and the status change land together.
	now := input.Now
	for _, cr := range input.ReservedCredits {
		if cr.Status != domain.CreditReserved {
			continue
		}
		cr.Status = domain.CreditConsumed
		cr.Touch(actorID, now)
		if err := s.creditRepo.UpdateCreditInTx(ctx, tx, cr, domain.CreditReserved); err != nil {
			return nil, fmt.Errorf("failed to consume credit %s: %w", cr.CreditID, err)
		}
	}

	if err := s.contributionRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Debug("Contributions recalculated",
		slog.String("period_id", period.PeriodID),
		slog.Int("rows", len(rows)),
	)
	return rows, nil
}

// loadCalculationInput gathers everything Calculate needs for a period.
func (s *contributionService) loadCalculationInput(ctx context.Context, period domain.Period, actorID string) (domain.CalculationInput, error) {
	var input domain.CalculationInput

	members, err := s.householdRepo.ListMembers(ctx, period.HouseholdID)
	if err != nil {
		return input, fmt.Errorf("failed to list members: %w", err)
	}
	active := members[:0]
	for _, m := range members {
		if m.IsActive {
			active = append(active, m)
		}
	}

	incomes, err := s.householdRepo.FindIncomesForMonth(ctx, period.HouseholdID, period.Year, period.Month)
	if err != nil {
		return input, fmt.Errorf("failed to load incomes: %w", err)
	}

	movements, err := s.movementRepo.FindMovementsByPeriod(ctx, period.PeriodID, false)
	if err != nil {
		return input, fmt.Errorf("failed to load movements: %w", err)
	}

	adjustments, err := s.adjustmentRepo.FindAdjustmentsByPeriod(ctx, period.PeriodID)
	if err != nil {
		return input, fmt.Errorf("failed to load adjustments: %w", err)
	}

	// Credits targeting this month: still-reserved ones plus the ones a
	// previous recalculation already consumed, so recomputation stays
	// idempotent.
	credits, err := s.creditRepo.FindReservedCreditsForMonth(ctx, period.HouseholdID, period.Year, period.Month)
	if err != nil {
		return input, fmt.Errorf("failed to load reserved credits: %w", err)
	}

	snapshot, err := s.effectiveSnapshot(ctx, period)
	if err != nil {
		return input, err
	}

	input = domain.CalculationInput{
		Period:          period,
		Snapshot:        snapshot,
		Members:         active,
		Incomes:         incomes,
		Movements:       movements,
		Adjustments:     adjustments,
		ReservedCredits: credits,
		ActorID:         actorID,
		Now:             time.Now().UTC(),
	}
	return input, nil
}

// effectiveSnapshot returns the period's locked snapshot, or the live
// household settings while the period has not been locked yet.
func (s *contributionService) effectiveSnapshot(ctx context.Context, period domain.Period) (domain.PeriodSnapshot, error) {
	if period.Snapshot != nil {
		return *period.Snapshot, nil
	}
	household, err := s.householdRepo.FindHouseholdByID(ctx, period.HouseholdID)
	if err != nil {
		return domain.PeriodSnapshot{}, fmt.Errorf("failed to load household settings: %w", err)
	}
	return domain.PeriodSnapshot{
		Method:      household.Settings.Method,
		MonthlyGoal: household.Settings.MonthlyGoal,
	}, nil
}

// GetContributions retrieves the stored contribution rows of a period.
func (s *contributionService) GetContributions(ctx context.Context, householdID, periodID string) ([]domain.Contribution, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return s.contributionRepo.FindContributionsByPeriod(ctx, periodID)
}
