package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Household groups the members sharing finances. One currency per household.
type Household struct {
	HouseholdID  string            `json:"householdID"`
	Name         string            `json:"name"`
	CurrencyCode string            `json:"currencyCode"`
	Settings     HouseholdSettings `json:"settings"`
	AuditFields
}

// HouseholdSettings is the live contribution configuration. Locked periods
// work from their snapshot instead, so edits here never rewrite history.
type HouseholdSettings struct {
	Method      CalculationMethod `json:"method"`
	MonthlyGoal decimal.Decimal   `json:"monthlyGoal"`
}

// HouseholdMember links a member profile to a household.
type HouseholdMember struct {
	HouseholdID string    `json:"householdID"`
	MemberID    string    `json:"memberID"`
	DisplayName string    `json:"displayName"`
	JoinedAt    time.Time `json:"joinedAt"`
	IsActive    bool      `json:"isActive"`
}

// MemberIncome is a member's declared income for one month, the basis of the
// proportional split.
type MemberIncome struct {
	IncomeID    string          `json:"incomeID"`
	HouseholdID string          `json:"householdID"`
	MemberID    string          `json:"memberID"`
	Year        int             `json:"year"`
	Month       time.Month      `json:"month"`
	Amount      decimal.Decimal `json:"amount"`
	AuditFields
}

// SavingsFund is the household's accumulated savings balance, credited by
// credit transfers.
type SavingsFund struct {
	HouseholdID string          `json:"householdID"`
	Balance     decimal.Decimal `json:"balance"`
	AuditFields
}
