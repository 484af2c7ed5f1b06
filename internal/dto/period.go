package dto

import (
	"time"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StartClosingRequest carries the optional reason for freezing common flows.
type StartClosingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// ClosePeriodRequest carries optional closing notes.
type ClosePeriodRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=500"`
}

// ReopenPeriodRequest requires an audit reason of at least 10 characters.
type ReopenPeriodRequest struct {
	Reason string `json:"reason" binding:"required,min=10,max=500"`
}

// PeriodSnapshotResponse mirrors domain.PeriodSnapshot.
type PeriodSnapshotResponse struct {
	Method      string          `json:"method"`
	MonthlyGoal decimal.Decimal `json:"monthlyGoal"`
	SnapshotAt  time.Time       `json:"snapshotAt"`
}

// PeriodResponse is the API representation of a period.
type PeriodResponse struct {
	PeriodID       string                  `json:"periodID"`
	HouseholdID    string                  `json:"householdID"`
	Year           int                     `json:"year"`
	Month          int                     `json:"month"`
	Phase          string                  `json:"phase"`
	OpeningBalance decimal.Decimal         `json:"openingBalance"`
	ClosingBalance decimal.Decimal         `json:"closingBalance"`
	TotalIncome    decimal.Decimal         `json:"totalIncome"`
	TotalExpenses  decimal.Decimal         `json:"totalExpenses"`
	ReopenedCount  int                     `json:"reopenedCount"`
	Notes          string                  `json:"notes,omitempty"`
	Snapshot       *PeriodSnapshotResponse `json:"snapshot,omitempty"`
}

// ToPeriodResponse converts a domain period to its API representation.
func ToPeriodResponse(p *domain.Period) PeriodResponse {
	resp := PeriodResponse{
		PeriodID:       p.PeriodID,
		HouseholdID:    p.HouseholdID,
		Year:           p.Year,
		Month:          int(p.Month),
		Phase:          string(p.Phase),
		OpeningBalance: p.OpeningBalance,
		ClosingBalance: p.ClosingBalance,
		TotalIncome:    p.TotalIncome,
		TotalExpenses:  p.TotalExpenses,
		ReopenedCount:  p.ReopenedCount,
		Notes:          p.Notes,
	}
	if p.Snapshot != nil {
		resp.Snapshot = &PeriodSnapshotResponse{
			Method:      string(p.Snapshot.Method),
			MonthlyGoal: p.Snapshot.MonthlyGoal,
			SnapshotAt:  p.Snapshot.SnapshotAt,
		}
	}
	return resp
}

// ToPeriodResponses converts a slice of domain periods.
func ToPeriodResponses(periods []domain.Period) []PeriodResponse {
	out := make([]PeriodResponse, len(periods))
	for i := range periods {
		out[i] = ToPeriodResponse(&periods[i])
	}
	return out
}
