package domain

import "github.com/shopspring/decimal"

// AdjustmentType distinguishes manual corrections from prepayments.
type AdjustmentType string

const (
	AdjustmentManual     AdjustmentType = "MANUAL"
	AdjustmentPrepayment AdjustmentType = "PREPAYMENT"
)

// AdjustmentState is the workflow state of an adjustment.
type AdjustmentState string

const (
	AdjustmentProposed AdjustmentState = "PROPOSED"
	AdjustmentApproved AdjustmentState = "APPROVED"
	AdjustmentRejected AdjustmentState = "REJECTED"
	// AdjustmentDeleted is a terminal soft state; the row stays behind as
	// the journal of who removed what, and when.
	AdjustmentDeleted AdjustmentState = "DELETED"
)

// Adjustment is a signed correction to one member's expected contribution.
// Only approved adjustments fold into the expected amount.
type Adjustment struct {
	AdjustmentID string          `json:"adjustmentID"`
	HouseholdID  string          `json:"householdID"`
	PeriodID     string          `json:"periodID"`
	MemberID     string          `json:"memberID"`
	Amount       decimal.Decimal `json:"amount"` // signed
	Type         AdjustmentType  `json:"type"`
	Reason       string          `json:"reason"`
	State        AdjustmentState `json:"state"`
	RejectReason string          `json:"rejectReason,omitempty"`
	// LinkedMovementID points at the compensating movement created for a
	// prepayment; removed together with the adjustment.
	LinkedMovementID *string `json:"linkedMovementID,omitempty"`
	AuditFields
}
