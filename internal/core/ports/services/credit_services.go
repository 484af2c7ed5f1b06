package services

import (
	"context"

	"github.com/homebalance/home_balance_app/internal/core/domain"
)

// CreditSvcFacade lets a member decide the fate of an accumulated credit.
type CreditSvcFacade interface {
	// DecideCredit applies one of the monthly decisions to a credit owned
	// by the acting member and returns a human-readable outcome message.
	DecideCredit(ctx context.Context, creditID string, decision domain.CreditDecision, actorID string) (string, error)

	// ListCredits retrieves the acting member's credits in a household.
	ListCredits(ctx context.Context, householdID, memberID string) ([]domain.MemberCredit, error)
}
