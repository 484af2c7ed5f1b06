package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CreditStatus is the lifecycle of a member's banked surplus.
type CreditStatus string

const (
	CreditActive      CreditStatus = "ACTIVE"
	CreditReserved    CreditStatus = "RESERVED"
	CreditTransferred CreditStatus = "TRANSFERRED"
	CreditConsumed    CreditStatus = "CONSUMED"
)

// CreditDecision is a member's choice for the fate of an active credit.
type CreditDecision string

const (
	DecisionApplyNextMonth  CreditDecision = "APPLY_NEXT_MONTH"
	DecisionKeepActive      CreditDecision = "KEEP_ACTIVE"
	DecisionTransferSavings CreditDecision = "TRANSFER_SAVINGS"
)

// ParseCreditDecision normalizes a decision string.
func ParseCreditDecision(s string) (CreditDecision, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "APPLY_NEXT_MONTH", "APPLY":
		return DecisionApplyNextMonth, nil
	case "KEEP_ACTIVE", "KEEP":
		return DecisionKeepActive, nil
	case "TRANSFER_SAVINGS", "SAVINGS":
		return DecisionTransferSavings, nil
	}
	return "", fmt.Errorf("unknown credit decision %q", s)
}

// MemberCredit is a surplus unit owned by one member, sourced from one
// period's overpayment. Status carries the full lifecycle; ReservedAt is an
// audit timestamp only and must be non-nil exactly when status is RESERVED.
type MemberCredit struct {
	CreditID        string          `json:"creditID"`
	HouseholdID     string          `json:"householdID"`
	MemberID        string          `json:"memberID"`
	Amount          decimal.Decimal `json:"amount"`
	SourceYear      int             `json:"sourceYear"`
	SourceMonth     time.Month      `json:"sourceMonth"`
	Status          CreditStatus    `json:"status"`
	ReservedAt      *time.Time      `json:"reservedAt,omitempty"`
	MonthlyDecision CreditDecision  `json:"monthlyDecision,omitempty"`
	AuditFields
}

// TargetMonth is the period a reserved credit applies to: the month after
// its source.
func (c MemberCredit) TargetMonth() (int, time.Month) {
	if c.SourceMonth == time.December {
		return c.SourceYear + 1, time.January
	}
	return c.SourceYear, c.SourceMonth + 1
}
