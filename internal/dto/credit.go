package dto

import (
	"time"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DecideCreditRequest carries a member's decision for one active credit.
type DecideCreditRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPLY_NEXT_MONTH KEEP_ACTIVE TRANSFER_SAVINGS"`
}

// DecideCreditResponse reports the outcome of a credit decision.
type DecideCreditResponse struct {
	Message string `json:"message"`
}

// CreditResponse is the API representation of a member credit.
type CreditResponse struct {
	CreditID        string          `json:"creditID"`
	MemberID        string          `json:"memberID"`
	Amount          decimal.Decimal `json:"amount"`
	SourceYear      int             `json:"sourceYear"`
	SourceMonth     int             `json:"sourceMonth"`
	Status          string          `json:"status"`
	ReservedAt      *time.Time      `json:"reservedAt,omitempty"`
	MonthlyDecision string          `json:"monthlyDecision,omitempty"`
}

// ToCreditResponse converts a domain credit.
func ToCreditResponse(c *domain.MemberCredit) CreditResponse {
	return CreditResponse{
		CreditID:        c.CreditID,
		MemberID:        c.MemberID,
		Amount:          c.Amount,
		SourceYear:      c.SourceYear,
		SourceMonth:     int(c.SourceMonth),
		Status:          string(c.Status),
		ReservedAt:      c.ReservedAt,
		MonthlyDecision: string(c.MonthlyDecision),
	}
}

// ToCreditResponses converts a slice of domain credits.
func ToCreditResponses(credits []domain.MemberCredit) []CreditResponse {
	out := make([]CreditResponse, len(credits))
	for i := range credits {
		out[i] = ToCreditResponse(&credits[i])
	}
	return out
}
