package dto

import (
	"time"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMovementRequest records a new money movement. The owning period is
// resolved from OccurredAt.
type CreateMovementRequest struct {
	Type         string          `json:"type" binding:"required,oneof=INCOME EXPENSE INCOME_DIRECT EXPENSE_DIRECT"`
	Amount       decimal.Decimal `json:"amount" binding:"required,dpositive"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	Description  string          `json:"description" binding:"required,max=255"`
	Category     string          `json:"category" binding:"omitempty,max=100"`
	PayerID      string          `json:"payerID" binding:"required"`
	// RealPayerID names who actually fronted the money on direct flows;
	// defaults to PayerID.
	RealPayerID string    `json:"realPayerID" binding:"omitempty"`
	OccurredAt  time.Time `json:"occurredAt" binding:"required"`
	// CreatesBalancePair asks for the compensating counterpart of a direct
	// movement to be created atomically with it.
	CreatesBalancePair bool   `json:"createsBalancePair"`
	IdempotencyKey     string `json:"idempotencyKey" binding:"omitempty,max=100"`
}

// CreateMovementResponse identifies the stored movement and, for balance
// pairs, the shared pair id.
type CreateMovementResponse struct {
	MovementID string  `json:"movementID"`
	PairID     *string `json:"pairID,omitempty"`
}

// MovementResponse is the API representation of a movement.
type MovementResponse struct {
	MovementID   string          `json:"movementID"`
	PeriodID     string          `json:"periodID"`
	Type         string          `json:"type"`
	Flow         string          `json:"flow"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	Description  string          `json:"description"`
	Category     string          `json:"category,omitempty"`
	PayerID      string          `json:"payerID"`
	RealPayerID  string          `json:"realPayerID,omitempty"`
	PairID       *string         `json:"pairID,omitempty"`
	OccurredAt   time.Time       `json:"occurredAt"`
	Voided       bool            `json:"voided"`
}

// ToMovementResponse converts a domain movement to its API representation.
func ToMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		MovementID:   m.MovementID,
		PeriodID:     m.PeriodID,
		Type:         string(m.Type),
		Flow:         string(m.Flow),
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		Description:  m.Description,
		Category:     m.Category,
		PayerID:      m.PayerID,
		RealPayerID:  m.RealPayerID,
		PairID:       m.PairID,
		OccurredAt:   m.OccurredAt,
		Voided:       m.Voided,
	}
}

// ToMovementResponses converts a slice of domain movements.
func ToMovementResponses(movements []domain.Movement) []MovementResponse {
	out := make([]MovementResponse, len(movements))
	for i := range movements {
		out[i] = ToMovementResponse(&movements[i])
	}
	return out
}
