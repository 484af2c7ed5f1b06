package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType indicates the economic direction of a movement.
type MovementType string

const (
	Income        MovementType = "INCOME"
	Expense       MovementType = "EXPENSE"
	IncomeDirect  MovementType = "INCOME_DIRECT"
	ExpenseDirect MovementType = "EXPENSE_DIRECT"
)

// FlowType indicates whether money moved through the shared pool or a
// member's own pocket.
type FlowType string

const (
	FlowCommon FlowType = "COMMON"
	FlowDirect FlowType = "DIRECT"
)

// IsExpense reports whether the type debits the household.
func (t MovementType) IsExpense() bool {
	return t == Expense || t == ExpenseDirect
}

// Flow returns the flow type implied by the movement type.
func (t MovementType) Flow() FlowType {
	if t == IncomeDirect || t == ExpenseDirect {
		return FlowDirect
	}
	return FlowCommon
}

// Movement represents a single recorded money movement within one period.
// Amount is always non-negative; direction comes from Type.
type Movement struct {
	MovementID   string          `json:"movementID"`
	HouseholdID  string          `json:"householdID"`
	PeriodID     string          `json:"periodID"`
	Type         MovementType    `json:"type"`
	Flow         FlowType        `json:"flow"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	Description  string          `json:"description"`
	Category     string          `json:"category,omitempty"`
	// PayerID is the member the movement is booked against. For direct
	// flows RealPayerID records who actually fronted the money.
	PayerID     string `json:"payerID"`
	RealPayerID string `json:"realPayerID,omitempty"`
	// PairID links a direct expense to its compensating direct income.
	// Both halves share the id and are created and voided together.
	PairID         *string   `json:"pairID,omitempty"`
	IdempotencyKey string    `json:"-"`
	OccurredAt     time.Time `json:"occurredAt"`
	Voided         bool      `json:"voided"`
	AuditFields
}

// SignedAmount returns the amount with the expense direction negated, for
// balance arithmetic.
func (m Movement) SignedAmount() decimal.Decimal {
	if m.Type.IsExpense() {
		return m.Amount.Neg()
	}
	return m.Amount
}

// PairedMovement is a direct expense and its compensating direct income,
// constructed and persisted as one unit. A half-created pair must never be
// visible to callers.
type PairedMovement struct {
	Primary     Movement `json:"primary"`
	Counterpart Movement `json:"counterpart"`
}

// NewBalancePair derives the compensating counterpart for a direct movement
// and links both halves under a fresh pair id. The counterpart has equal
// magnitude and the opposite direction.
func NewBalancePair(primary Movement, actorID string, now time.Time) PairedMovement {
	pairID := uuid.NewString()
	primary.PairID = &pairID

	counterpart := primary
	counterpart.MovementID = uuid.NewString()
	counterpart.IdempotencyKey = ""
	if primary.Type == ExpenseDirect {
		counterpart.Type = IncomeDirect
	} else {
		counterpart.Type = ExpenseDirect
	}
	counterpart.AuditFields = NewAuditFields(actorID, now)

	return PairedMovement{Primary: primary, Counterpart: counterpart}
}
