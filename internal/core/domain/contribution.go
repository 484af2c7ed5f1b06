package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CalculationMethod selects how the monthly goal is split across members.
type CalculationMethod string

const (
	MethodEqual        CalculationMethod = "EQUAL"
	MethodProportional CalculationMethod = "PROPORTIONAL"
)

// ParseCalculationMethod normalizes a method string.
func ParseCalculationMethod(s string) (CalculationMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EQUAL":
		return MethodEqual, nil
	case "PROPORTIONAL", "INCOME_PROPORTIONAL":
		return MethodProportional, nil
	}
	return "", fmt.Errorf("unknown calculation method %q", s)
}

// ContributionStatus summarizes how far along a member is for a period.
type ContributionStatus string

const (
	StatusPendingConfiguration ContributionStatus = "PENDING_CONFIGURATION"
	StatusPending              ContributionStatus = "PENDING"
	StatusPartial              ContributionStatus = "PARTIAL"
	StatusPaid                 ContributionStatus = "PAID"
	StatusOverpaid             ContributionStatus = "OVERPAID"
)

// Contribution is one member's computed expected/paid/pending share for a
// period. Pending and overpaid are both floored at zero, so at most one of
// them is non-zero at any time.
type Contribution struct {
	ContributionID string          `json:"contributionID"`
	PeriodID       string          `json:"periodID"`
	HouseholdID    string          `json:"householdID"`
	MemberID       string          `json:"memberID"`
	IncomeShare    decimal.Decimal `json:"incomeShare"` // fraction in [0,1]
	BaseExpected   decimal.Decimal `json:"baseExpected"`
	DirectExpenses decimal.Decimal `json:"directExpenses"`
	// ExpectedAfterDirect = max(0, BaseExpected - DirectExpenses)
	ExpectedAfterDirect decimal.Decimal `json:"expectedAfterDirect"`
	// ExpectedAmount folds in approved adjustments and applied credits.
	ExpectedAmount decimal.Decimal    `json:"expectedAmount"`
	CreditApplied  decimal.Decimal    `json:"creditApplied"`
	PaidAmount     decimal.Decimal    `json:"paidAmount"`
	PendingAmount  decimal.Decimal    `json:"pendingAmount"`
	OverpaidAmount decimal.Decimal    `json:"overpaidAmount"`
	Status         ContributionStatus `json:"status"`
	AuditFields
}

// BalanceDelta is the member's net credit(+)/debt(-) effect of this period.
func (c Contribution) BalanceDelta() decimal.Decimal {
	return c.OverpaidAmount.Sub(c.PendingAmount)
}
