package repositories

import (
	"context"
	"time"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// MovementReader defines read operations for movement data
type MovementReader interface {
	// FindMovementByID retrieves a specific movement by its identifier.
	FindMovementByID(ctx context.Context, movementID string) (*domain.Movement, error)

	// FindMovementsByPeriod retrieves the movements of a period. Voided
	// movements are excluded unless includeVoided is set.
	FindMovementsByPeriod(ctx context.Context, periodID string, includeVoided bool) ([]domain.Movement, error)

	// FindMovementByIdempotencyKey retrieves a movement previously recorded
	// under the given idempotency key, if any.
	FindMovementByIdempotencyKey(ctx context.Context, householdID, key string) (*domain.Movement, error)

	// FindOrphanedPairs retrieves movements whose pair id has no live
	// counterpart of equal magnitude. A non-empty result is a fatal
	// data-integrity condition.
	FindOrphanedPairs(ctx context.Context, householdID string) ([]domain.Movement, error)
}

// MovementWriter defines write operations for movement data
type MovementWriter interface {
	// SaveMovement persists a single unpaired movement.
	SaveMovement(ctx context.Context, movement domain.Movement) error

	// SavePairedMovement persists both halves of a balance pair in one
	// atomic unit.
	SavePairedMovement(ctx context.Context, pair domain.PairedMovement) error

	// VoidPair voids both halves of a pair in one atomic unit. Anything
	// other than exactly two affected rows is an integrity error.
	VoidPair(ctx context.Context, pairID string, actorID string, now time.Time) error
}

// MovementTransactionSupport defines operations used inside wider
// transactions owned by other services.
type MovementTransactionSupport interface {
	// SaveMovementInTx persists a movement within tx.
	SaveMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.Movement) error

	// VoidMovementInTx voids a single unpaired movement within tx.
	VoidMovementInTx(ctx context.Context, tx pgx.Tx, movementID string, actorID string, now time.Time) error
}

// MovementRepositoryFacade combines all movement-related repository interfaces
type MovementRepositoryFacade interface {
	MovementReader
	MovementWriter
	MovementTransactionSupport
}

// MovementRepositoryWithTx extends MovementRepositoryFacade with transaction capabilities
type MovementRepositoryWithTx interface {
	MovementRepositoryFacade
	TransactionManager
}
