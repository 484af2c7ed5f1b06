package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/homebalance/home_balance_app/internal/core/domain"
	portsrepo "github.com/homebalance/home_balance_app/internal/core/ports/repositories"
	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/dto"
	"github.com/homebalance/home_balance_app/internal/middleware"
	"github.com/homebalance/home_balance_app/internal/utils/money"
)

// balanceService folds contribution results across periods into running
// per-member balances. It is a pure read model over stored rows.
type balanceService struct {
	periodRepo       portsrepo.PeriodReader
	contributionRepo portsrepo.ContributionReader
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(periodRepo portsrepo.PeriodReader, contributionRepo portsrepo.ContributionReader) portssvc.BalanceSvcFacade {
	return &balanceService{periodRepo: periodRepo, contributionRepo: contributionRepo}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// countsTowardBalance reports whether a period's contribution rows count
// toward running balances. Preparing and validation periods are provisional.
func countsTowardBalance(phase domain.PeriodPhase) bool {
	switch phase {
	case domain.PhaseActive, domain.PhaseClosing, domain.PhaseClosed:
		return true
	}
	return false
}

// GetMemberBalanceHistory returns a member's running balance and the
// per-period trace behind it. Periods where the member has no contribution
// row (joined later) are skipped, not zero-filled.
func (s *balanceService) GetMemberBalanceHistory(ctx context.Context, householdID, memberID string) (*dto.MemberBalanceResponse, error) {
	periods, err := s.periodRepo.ListPeriodsByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	rows, err := s.contributionRepo.ListContributionsByMember(ctx, householdID, memberID)
	if err != nil {
		return nil, err
	}
	rowByPeriod := make(map[string]domain.Contribution, len(rows))
	for _, row := range rows {
		rowByPeriod[row.PeriodID] = row
	}

	resp := &dto.MemberBalanceResponse{
		MemberID:       memberID,
		CurrentBalance: decimal.Zero,
		History:        []dto.BalanceHistoryEntry{},
	}
	running := decimal.Zero
	for _, p := range periods {
		if !countsTowardBalance(p.Phase) {
			continue
		}
		row, ok := rowByPeriod[p.PeriodID]
		if !ok {
			continue
		}
		delta := row.BalanceDelta()
		running = running.Add(delta)
		resp.History = append(resp.History, dto.BalanceHistoryEntry{
			Year:           p.Year,
			Month:          int(p.Month),
			ExpectedAmount: row.ExpectedAmount,
			PaidAmount:     row.PaidAmount,
			PendingAmount:  row.PendingAmount,
			OverpaidAmount: row.OverpaidAmount,
			Delta:          delta,
			RunningBalance: running,
		})
	}
	resp.CurrentBalance = running
	return resp, nil
}

// GetHouseholdBalances returns every member's running balance together with
// the household sum. A drifting sum is logged, never silently corrected.
func (s *balanceService) GetHouseholdBalances(ctx context.Context, householdID string) (*dto.HouseholdBalancesResponse, error) {
	balances, sum, err := s.foldBalances(ctx, householdID, false)
	if err != nil {
		return nil, err
	}
	if !money.WithinTolerance(sum) {
		middleware.GetLoggerFromCtx(ctx).Warn("Household balance sum outside tolerance",
			slog.String("household_id", householdID),
			slog.String("sum", sum.String()),
		)
	}
	return &dto.HouseholdBalancesResponse{Balances: balances, Sum: sum}, nil
}

// VerifyHouseholdBalance checks the balance-zero invariant over closed
// periods only: once every period is settled, member credits and debts must
// cancel out up to the rounding tolerance.
func (s *balanceService) VerifyHouseholdBalance(ctx context.Context, householdID string) (decimal.Decimal, error) {
	_, sum, err := s.foldBalances(ctx, householdID, true)
	if err != nil {
		return decimal.Zero, err
	}
	if !money.WithinTolerance(sum) {
		middleware.GetLoggerFromCtx(ctx).Error("Balance-zero invariant violated",
			slog.String("household_id", householdID),
			slog.String("sum", sum.String()),
		)
		return sum, fmt.Errorf("%w: closed-period balance sum is %s", apperrors.ErrIntegrity, sum.String())
	}
	return sum, nil
}

// foldBalances accumulates each member's (overpaid - pending) deltas in
// period order.
func (s *balanceService) foldBalances(ctx context.Context, householdID string, closedOnly bool) (map[string]decimal.Decimal, decimal.Decimal, error) {
	periods, err := s.periodRepo.ListPeriodsByHousehold(ctx, householdID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	rows, err := s.contributionRepo.ListContributionsByHousehold(ctx, householdID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	counting := make(map[string]bool, len(periods))
	order := make(map[string]int, len(periods))
	for i, p := range periods {
		if closedOnly {
			counting[p.PeriodID] = p.Phase == domain.PhaseClosed
		} else {
			counting[p.PeriodID] = countsTowardBalance(p.Phase)
		}
		order[p.PeriodID] = i
	}

	sort.SliceStable(rows, func(i, j int) bool { return order[rows[i].PeriodID] < order[rows[j].PeriodID] })

	balances := make(map[string]decimal.Decimal)
	sum := decimal.Zero
	for _, row := range rows {
		if !counting[row.PeriodID] {
			continue
		}
		delta := row.BalanceDelta()
		balances[row.MemberID] = balances[row.MemberID].Add(delta)
		sum = sum.Add(delta)
	}
	return balances, sum, nil
}
