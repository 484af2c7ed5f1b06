package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodPhase is the lifecycle state of a monthly accounting period.
type PeriodPhase string

const (
	PhasePreparing  PeriodPhase = "PREPARING"
	PhaseValidation PeriodPhase = "VALIDATION"
	PhaseActive     PeriodPhase = "ACTIVE"
	PhaseClosing    PeriodPhase = "CLOSING"
	PhaseClosed     PeriodPhase = "CLOSED"
)

// phaseOrder is the strict forward sequence of the lifecycle.
var phaseOrder = []PeriodPhase{PhasePreparing, PhaseValidation, PhaseActive, PhaseClosing, PhaseClosed}

// ParsePeriodPhase maps any known representation of a phase, including legacy
// synonyms from older data, onto the canonical enum. This is the single
// normalization boundary; nothing else should interpret phase strings.
func ParsePeriodPhase(s string) (PeriodPhase, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PREPARING", "DRAFT", "NEW":
		return PhasePreparing, nil
	case "VALIDATION", "VALIDATING", "REVIEW":
		return PhaseValidation, nil
	case "ACTIVE", "OPEN", "CURRENT":
		return PhaseActive, nil
	case "CLOSING", "PRE_CLOSE", "SETTLING":
		return PhaseClosing, nil
	case "CLOSED", "FINISHED", "ARCHIVED":
		return PhaseClosed, nil
	}
	return "", fmt.Errorf("unknown period phase %q", s)
}

// Next returns the phase one forward step ahead, or false when the period is
// already closed.
func (p PeriodPhase) Next() (PeriodPhase, bool) {
	for i, ph := range phaseOrder {
		if ph == p && i+1 < len(phaseOrder) {
			return phaseOrder[i+1], true
		}
	}
	return "", false
}

// Prev returns the phase one reverse step back, or false when the period is
// still preparing. Reopen moves back exactly one step.
func (p PeriodPhase) Prev() (PeriodPhase, bool) {
	for i, ph := range phaseOrder {
		if ph == p && i > 0 {
			return phaseOrder[i-1], true
		}
	}
	return "", false
}

// AllowsMovement is the phase/flow-type permission matrix for creating or
// voiding movements. Closing still permits direct flows so outstanding
// reimbursements can be settled before the hard close.
func (p PeriodPhase) AllowsMovement(flow FlowType) bool {
	switch p {
	case PhaseValidation:
		return flow == FlowDirect
	case PhaseActive:
		return true
	case PhaseClosing:
		return flow == FlowDirect
	default: // preparing, closed
		return false
	}
}

// AllowsAdjustmentResolution reports whether adjustments may be approved or
// rejected while the period is in this phase.
func (p PeriodPhase) AllowsAdjustmentResolution() bool {
	return p == PhaseValidation || p == PhaseActive || p == PhaseClosing
}

// AllowsRecalculation reports whether contribution rows may be recomputed.
// Closed periods are immutable.
func (p PeriodPhase) AllowsRecalculation() bool {
	return p != PhaseClosed
}

// Period is one household's monthly accounting window.
type Period struct {
	PeriodID       string          `json:"periodID"`
	HouseholdID    string          `json:"householdID"`
	Year           int             `json:"year"`
	Month          time.Month      `json:"month"`
	Phase          PeriodPhase     `json:"phase"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	ReopenedCount  int             `json:"reopenedCount"`
	Notes          string          `json:"notes"`
	// Snapshot is captured at lock time so later settings changes never
	// retroactively alter this period. Nil until the period is locked.
	Snapshot *PeriodSnapshot `json:"snapshot,omitempty"`
	AuditFields
}

// PeriodSnapshot freezes the contribution configuration for a locked period.
type PeriodSnapshot struct {
	Method      CalculationMethod `json:"method"`
	MonthlyGoal decimal.Decimal   `json:"monthlyGoal"`
	SnapshotAt  time.Time         `json:"snapshotAt"`
}

// NextMonth returns the (year, month) following this period.
func (p Period) NextMonth() (int, time.Month) {
	if p.Month == time.December {
		return p.Year + 1, time.January
	}
	return p.Year, p.Month + 1
}

// MonthKey orders periods chronologically.
func (p Period) MonthKey() int {
	return p.Year*100 + int(p.Month)
}
