package dto

import (
	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProposeAdjustmentRequest creates a new adjustment in the proposed state.
type ProposeAdjustmentRequest struct {
	PeriodID string          `json:"periodID" binding:"required"`
	MemberID string          `json:"memberID" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"` // signed
	Type     string          `json:"type" binding:"required,oneof=MANUAL PREPAYMENT"`
	Reason   string          `json:"reason" binding:"required,max=500"`
}

// RejectAdjustmentRequest carries the mandatory rejection reason.
type RejectAdjustmentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// AdjustmentResponse is the API representation of an adjustment.
type AdjustmentResponse struct {
	AdjustmentID     string          `json:"adjustmentID"`
	PeriodID         string          `json:"periodID"`
	MemberID         string          `json:"memberID"`
	Amount           decimal.Decimal `json:"amount"`
	Type             string          `json:"type"`
	Reason           string          `json:"reason"`
	State            string          `json:"state"`
	RejectReason     string          `json:"rejectReason,omitempty"`
	LinkedMovementID *string         `json:"linkedMovementID,omitempty"`
}

// ToAdjustmentResponse converts a domain adjustment.
func ToAdjustmentResponse(a *domain.Adjustment) AdjustmentResponse {
	return AdjustmentResponse{
		AdjustmentID:     a.AdjustmentID,
		PeriodID:         a.PeriodID,
		MemberID:         a.MemberID,
		Amount:           a.Amount,
		Type:             string(a.Type),
		Reason:           a.Reason,
		State:            string(a.State),
		RejectReason:     a.RejectReason,
		LinkedMovementID: a.LinkedMovementID,
	}
}
