package dto

import "github.com/shopspring/decimal"

// BalanceHistoryEntry is one period's effect on a member's running balance.
type BalanceHistoryEntry struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	ExpectedAmount decimal.Decimal `json:"expectedAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	PendingAmount  decimal.Decimal `json:"pendingAmount"`
	OverpaidAmount decimal.Decimal `json:"overpaidAmount"`
	Delta          decimal.Decimal `json:"delta"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// MemberBalanceResponse is a member's accumulated credit/debt plus the
// per-period trace behind it.
type MemberBalanceResponse struct {
	MemberID       string                `json:"memberID"`
	CurrentBalance decimal.Decimal       `json:"currentBalance"`
	History        []BalanceHistoryEntry `json:"history"`
}

// HouseholdBalancesResponse maps each member to their running balance.
type HouseholdBalancesResponse struct {
	Balances map[string]decimal.Decimal `json:"balances"`
	Sum      decimal.Decimal            `json:"sum"`
}
