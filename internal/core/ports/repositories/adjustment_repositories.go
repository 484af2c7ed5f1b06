package repositories

import (
	"context"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AdjustmentReader defines read operations for adjustments
type AdjustmentReader interface {
	// FindAdjustmentByID retrieves a specific adjustment.
	FindAdjustmentByID(ctx context.Context, adjustmentID string) (*domain.Adjustment, error)

	// FindAdjustmentsByPeriod retrieves all adjustments of a period, in all
	// workflow states.
	FindAdjustmentsByPeriod(ctx context.Context, periodID string) ([]domain.Adjustment, error)
}

// AdjustmentWriter defines write operations for adjustments
type AdjustmentWriter interface {
	// SaveAdjustment persists a new adjustment.
	SaveAdjustment(ctx context.Context, adjustment domain.Adjustment) error

	// UpdateAdjustmentInTx writes an adjustment's workflow state within tx.
	UpdateAdjustmentInTx(ctx context.Context, tx pgx.Tx, adjustment domain.Adjustment) error
}

// AdjustmentRepositoryFacade combines all adjustment repository interfaces
type AdjustmentRepositoryFacade interface {
	AdjustmentReader
	AdjustmentWriter
}

// AdjustmentRepositoryWithTx extends AdjustmentRepositoryFacade with transaction capabilities
type AdjustmentRepositoryWithTx interface {
	AdjustmentRepositoryFacade
	TransactionManager
}
