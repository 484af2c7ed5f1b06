package services

import (
	"context"

	"github.com/homebalance/home_balance_app/internal/dto"
	"github.com/shopspring/decimal"
)

// BalanceSvcFacade folds contribution results across periods into running
// per-member credit/debt figures.
type BalanceSvcFacade interface {
	// GetMemberBalanceHistory returns a member's running balance and the
	// per-period trace behind it.
	GetMemberBalanceHistory(ctx context.Context, householdID, memberID string) (*dto.MemberBalanceResponse, error)

	// GetHouseholdBalances returns every member's running balance.
	GetHouseholdBalances(ctx context.Context, householdID string) (*dto.HouseholdBalancesResponse, error)

	// VerifyHouseholdBalance checks the balance-zero invariant over closed
	// periods and returns ErrIntegrity when the household sum drifts beyond
	// the rounding tolerance.
	VerifyHouseholdBalance(ctx context.Context, householdID string) (decimal.Decimal, error)
}
