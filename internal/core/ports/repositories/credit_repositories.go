package repositories

import (
	"context"
	"time"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CreditReader defines read operations for member credits
type CreditReader interface {
	// FindCreditByID retrieves a specific credit.
	FindCreditByID(ctx context.Context, creditID string) (*domain.MemberCredit, error)

	// ListCreditsByMember retrieves all credits owned by a member in a
	// household, newest source month first.
	ListCreditsByMember(ctx context.Context, householdID, memberID string) ([]domain.MemberCredit, error)

	// FindReservedCreditsForMonth retrieves the reserved credits whose
	// target month is (year, month), ready to be consumed by that period's
	// contribution calculation.
	FindReservedCreditsForMonth(ctx context.Context, householdID string, year int, month time.Month) ([]domain.MemberCredit, error)
}

// CreditWriter defines write operations for member credits
type CreditWriter interface {
	// SaveCreditsInTx persists newly minted credits within tx.
	SaveCreditsInTx(ctx context.Context, tx pgx.Tx, credits []domain.MemberCredit) error

	// UpdateCreditInTx writes a credit's state within tx, guarded by a
	// compare-and-set on expectedStatus. A stale expectation surfaces as
	// ErrConflict so a double decision never lands twice.
	UpdateCreditInTx(ctx context.Context, tx pgx.Tx, credit domain.MemberCredit, expectedStatus domain.CreditStatus) error
}

// CreditRepositoryFacade combines all credit repository interfaces
type CreditRepositoryFacade interface {
	CreditReader
	CreditWriter
}

// CreditRepositoryWithTx extends CreditRepositoryFacade with transaction capabilities
type CreditRepositoryWithTx interface {
	CreditRepositoryFacade
	TransactionManager
}
