package dto

import (
	"time"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest updates the live contribution configuration. Locked
// periods keep their snapshot.
type UpdateSettingsRequest struct {
	Method      string          `json:"method" binding:"required,oneof=EQUAL PROPORTIONAL"`
	MonthlyGoal decimal.Decimal `json:"monthlyGoal" binding:"dgte0"`
}

// UpsertIncomeRequest declares a member's income for one month.
type UpsertIncomeRequest struct {
	MemberID string          `json:"memberID" binding:"required"`
	Year     int             `json:"year" binding:"required,gte=2000,lte=2200"`
	Month    int             `json:"month" binding:"required,gte=1,lte=12"`
	Amount   decimal.Decimal `json:"amount" binding:"dgte0"`
}

// HouseholdResponse is the API representation of a household.
type HouseholdResponse struct {
	HouseholdID  string          `json:"householdID"`
	Name         string          `json:"name"`
	CurrencyCode string          `json:"currencyCode"`
	Method       string          `json:"method"`
	MonthlyGoal  decimal.Decimal `json:"monthlyGoal"`
}

// MemberResponse is the API representation of a household member.
type MemberResponse struct {
	MemberID    string    `json:"memberID"`
	DisplayName string    `json:"displayName"`
	JoinedAt    time.Time `json:"joinedAt"`
	IsActive    bool      `json:"isActive"`
}

// SavingsFundResponse is the API representation of the savings fund.
type SavingsFundResponse struct {
	HouseholdID string          `json:"householdID"`
	Balance     decimal.Decimal `json:"balance"`
}

// ToHouseholdResponse converts a domain household.
func ToHouseholdResponse(h *domain.Household) HouseholdResponse {
	return HouseholdResponse{
		HouseholdID:  h.HouseholdID,
		Name:         h.Name,
		CurrencyCode: h.CurrencyCode,
		Method:       string(h.Settings.Method),
		MonthlyGoal:  h.Settings.MonthlyGoal,
	}
}

// ToMemberResponses converts a slice of household members.
func ToMemberResponses(members []domain.HouseholdMember) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i, m := range members {
		out[i] = MemberResponse{
			MemberID:    m.MemberID,
			DisplayName: m.DisplayName,
			JoinedAt:    m.JoinedAt,
			IsActive:    m.IsActive,
		}
	}
	return out
}
