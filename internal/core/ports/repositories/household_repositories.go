package repositories

import (
	"context"
	"time"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// HouseholdReader defines read operations for household data
type HouseholdReader interface {
	// FindHouseholdByID retrieves a household with its live settings.
	FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error)

	// ListMembers retrieves the members of a household.
	ListMembers(ctx context.Context, householdID string) ([]domain.HouseholdMember, error)

	// FindIncomesForMonth retrieves all declared member incomes for
	// (year, month).
	FindIncomesForMonth(ctx context.Context, householdID string, year int, month time.Month) ([]domain.MemberIncome, error)

	// GetSavingsFund retrieves the household's savings fund balance.
	GetSavingsFund(ctx context.Context, householdID string) (*domain.SavingsFund, error)
}

// HouseholdWriter defines write operations for household data
type HouseholdWriter interface {
	// SaveHousehold persists a new household with its initial settings.
	SaveHousehold(ctx context.Context, household domain.Household) error

	// AddMember persists a household membership.
	AddMember(ctx context.Context, member domain.HouseholdMember) error

	// UpdateHouseholdSettings writes the live contribution settings.
	UpdateHouseholdSettings(ctx context.Context, householdID string, settings domain.HouseholdSettings, actorID string, now time.Time) error

	// UpsertMemberIncome creates or replaces a member's declared income for
	// one month.
	UpsertMemberIncome(ctx context.Context, income domain.MemberIncome) error
}

// SavingsTransactionSupport defines savings-fund operations used inside
// wider transactions.
type SavingsTransactionSupport interface {
	// AddToSavingsFundInTx credits the savings fund within tx.
	AddToSavingsFundInTx(ctx context.Context, tx pgx.Tx, householdID string, amount decimal.Decimal, actorID string, now time.Time) error
}

// HouseholdRepositoryFacade combines all household repository interfaces
type HouseholdRepositoryFacade interface {
	HouseholdReader
	HouseholdWriter
	SavingsTransactionSupport
}

// HouseholdRepositoryWithTx extends HouseholdRepositoryFacade with transaction capabilities
type HouseholdRepositoryWithTx interface {
	HouseholdRepositoryFacade
	TransactionManager
}
