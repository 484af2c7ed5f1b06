package dto

import (
	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ContributionResponse is the API representation of one member's computed
// share for a period.
type ContributionResponse struct {
	ContributionID      string          `json:"contributionID"`
	PeriodID            string          `json:"periodID"`
	MemberID            string          `json:"memberID"`
	IncomeShare         decimal.Decimal `json:"incomeShare"`
	BaseExpected        decimal.Decimal `json:"baseExpected"`
	DirectExpenses      decimal.Decimal `json:"directExpenses"`
	ExpectedAfterDirect decimal.Decimal `json:"expectedAfterDirect"`
	ExpectedAmount      decimal.Decimal `json:"expectedAmount"`
	CreditApplied       decimal.Decimal `json:"creditApplied"`
	PaidAmount          decimal.Decimal `json:"paidAmount"`
	PendingAmount       decimal.Decimal `json:"pendingAmount"`
	OverpaidAmount      decimal.Decimal `json:"overpaidAmount"`
	Status              string          `json:"status"`
}

// ToContributionResponse converts a domain contribution row.
func ToContributionResponse(c *domain.Contribution) ContributionResponse {
	return ContributionResponse{
		ContributionID:      c.ContributionID,
		PeriodID:            c.PeriodID,
		MemberID:            c.MemberID,
		IncomeShare:         c.IncomeShare,
		BaseExpected:        c.BaseExpected,
		DirectExpenses:      c.DirectExpenses,
		ExpectedAfterDirect: c.ExpectedAfterDirect,
		ExpectedAmount:      c.ExpectedAmount,
		CreditApplied:       c.CreditApplied,
		PaidAmount:          c.PaidAmount,
		PendingAmount:       c.PendingAmount,
		OverpaidAmount:      c.OverpaidAmount,
		Status:              string(c.Status),
	}
}

// ToContributionResponses converts a slice of contribution rows.
func ToContributionResponses(rows []domain.Contribution) []ContributionResponse {
	out := make([]ContributionResponse, len(rows))
	for i := range rows {
		out[i] = ToContributionResponse(&rows[i])
	}
	return out
}
