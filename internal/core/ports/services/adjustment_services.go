package services

import (
	"context"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/homebalance/home_balance_app/internal/dto"
)

// AdjustmentSvcFacade drives the propose/approve/reject/delete workflow for
// contribution adjustments. Every state change triggers a recalculation of
// the owning period.
type AdjustmentSvcFacade interface {
	// Propose creates an adjustment in the proposed state.
	Propose(ctx context.Context, householdID string, req dto.ProposeAdjustmentRequest, actorID string) (*domain.Adjustment, error)

	// ListAdjustments retrieves a period's adjustments in all states.
	ListAdjustments(ctx context.Context, householdID, periodID string) ([]domain.Adjustment, error)

	// Approve folds the adjustment into the member's expected amount; a
	// prepayment also records its compensating movement.
	Approve(ctx context.Context, adjustmentID, actorID string) error

	// Reject marks the adjustment rejected and removes any linked movement.
	// The reason is mandatory.
	Reject(ctx context.Context, adjustmentID, reason, actorID string) error

	// Delete soft-deletes the adjustment regardless of prior state and
	// removes any linked movement. Irreversible; the row stays as journal.
	Delete(ctx context.Context, adjustmentID, actorID string) error
}
