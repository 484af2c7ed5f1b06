package repositories

import (
	"context"
	"time"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PeriodReader defines read operations for period data
type PeriodReader interface {
	// FindPeriodByID retrieves a specific period by its unique identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.Period, error)

	// FindPeriodByMonth retrieves the one period for (household, year, month).
	FindPeriodByMonth(ctx context.Context, householdID string, year int, month time.Month) (*domain.Period, error)

	// ListPeriodsByHousehold retrieves all periods of a household in
	// chronological order.
	ListPeriodsByHousehold(ctx context.Context, householdID string) ([]domain.Period, error)

	// FindLatestPeriodBefore retrieves the most recent period strictly
	// before (year, month), used to chain opening balances.
	FindLatestPeriodBefore(ctx context.Context, householdID string, year int, month time.Month) (*domain.Period, error)
}

// PeriodWriter defines write operations for period data
type PeriodWriter interface {
	// SavePeriod persists a new period.
	SavePeriod(ctx context.Context, period domain.Period) error
}

// PeriodTransitionSupport defines operations used inside phase-transition
// transactions. Transitions re-read the row under lock so two concurrent
// callers cannot double-advance the same period.
type PeriodTransitionSupport interface {
	// FindPeriodByIDForUpdate selects a period and locks its row within tx.
	FindPeriodByIDForUpdate(ctx context.Context, tx pgx.Tx, periodID string) (*domain.Period, error)

	// UpdatePeriodInTx writes the full mutable state of a period within tx.
	UpdatePeriodInTx(ctx context.Context, tx pgx.Tx, period domain.Period) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
	PeriodTransitionSupport
}

// PeriodRepositoryWithTx extends PeriodRepositoryFacade with transaction capabilities
type PeriodRepositoryWithTx interface {
	PeriodRepositoryFacade
	TransactionManager
}
