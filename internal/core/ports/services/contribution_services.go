package services

import (
	"context"
	"time"

	"github.com/homebalance/home_balance_app/internal/core/domain"
)

// ContributionCalculatorSvc is the pure computation side of the calculator.
type ContributionCalculatorSvc interface {
	// Calculate computes contribution rows for a period from the given
	// input. It never touches the store, so callers can recompute
	// speculatively without side effects.
	Calculate(input domain.CalculationInput) ([]domain.Contribution, error)
}

// ContributionSvcFacade combines calculation with persistence-backed
// recalculation.
type ContributionSvcFacade interface {
	ContributionCalculatorSvc

	// Recalculate loads a period's inputs, recomputes its contribution
	// rows, consumes any reserved credits applied, and persists the result
	// in one atomic unit. It is idempotent.
	Recalculate(ctx context.Context, householdID string, year int, month time.Month, actorID string) ([]domain.Contribution, error)

	// GetContributions retrieves the stored contribution rows of a period.
	GetContributions(ctx context.Context, householdID, periodID string) ([]domain.Contribution, error)
}
