package repositories

import (
	"context"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ContributionReader defines read operations for contribution rows
type ContributionReader interface {
	// FindContributionsByPeriod retrieves all contribution rows of a period.
	FindContributionsByPeriod(ctx context.Context, periodID string) ([]domain.Contribution, error)

	// ListContributionsByMember retrieves one member's contribution rows
	// across all of a household's periods.
	ListContributionsByMember(ctx context.Context, householdID, memberID string) ([]domain.Contribution, error)

	// ListContributionsByHousehold retrieves every contribution row of a
	// household, used by the balance accumulator.
	ListContributionsByHousehold(ctx context.Context, householdID string) ([]domain.Contribution, error)
}

// ContributionWriter defines write operations for contribution rows
type ContributionWriter interface {
	// ReplaceContributionsInTx atomically swaps the contribution rows of a
	// period for freshly computed ones within tx. Recalculation is
	// idempotent, so replacing wholesale is safe.
	ReplaceContributionsInTx(ctx context.Context, tx pgx.Tx, periodID string, rows []domain.Contribution) error
}

// ContributionRepositoryFacade combines all contribution repository interfaces
type ContributionRepositoryFacade interface {
	ContributionReader
	ContributionWriter
}

// ContributionRepositoryWithTx extends ContributionRepositoryFacade with transaction capabilities
type ContributionRepositoryWithTx interface {
	ContributionRepositoryFacade
	TransactionManager
}
