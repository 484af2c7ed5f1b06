package services

import (
	"context"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/homebalance/home_balance_app/internal/dto"
)

// MovementSvcFacade classifies and records money movements, including the
// atomic creation of balance pairs for direct flows.
type MovementSvcFacade interface {
	// ClassifyAndRecord validates a movement against the owning period's
	// phase matrix and persists it, spawning the compensating counterpart
	// when a balance pair is requested.
	ClassifyAndRecord(ctx context.Context, householdID string, req dto.CreateMovementRequest, actorID string) (*dto.CreateMovementResponse, error)

	// VoidMovement voids a movement, and its paired counterpart with it.
	VoidMovement(ctx context.Context, householdID, movementID, actorID string) error

	// ListMovements retrieves the live movements of a period.
	ListMovements(ctx context.Context, householdID, periodID string) ([]domain.Movement, error)

	// ScanForOrphanedPairs runs the consistency scan for half-created or
	// half-voided balance pairs.
	ScanForOrphanedPairs(ctx context.Context, householdID string) ([]domain.Movement, error)
}
