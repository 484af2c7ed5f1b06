package pgsql

import (
	"time"

	portsrepo "github.com/homebalance/home_balance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx repositories. timeout bounds every
// store round-trip; zero disables the client-side deadline.
func NewRepositoryProvider(dbPool *pgxpool.Pool, timeout time.Duration) portsrepo.RepositoryProvider {
	periodRepo := newPgxPeriodRepository(dbPool, timeout)
	movementRepo := newPgxMovementRepository(dbPool, timeout)
	contributionRepo := newPgxContributionRepository(dbPool, timeout)
	adjustmentRepo := newPgxAdjustmentRepository(dbPool, timeout)
	creditRepo := newPgxCreditRepository(dbPool, timeout)
	householdRepo := newPgxHouseholdRepository(dbPool, timeout)

	return portsrepo.RepositoryProvider{
		PeriodRepo:       periodRepo,
		MovementRepo:     movementRepo,
		ContributionRepo: contributionRepo,
		AdjustmentRepo:   adjustmentRepo,
		CreditRepo:       creditRepo,
		HouseholdRepo:    householdRepo,
	}
}
