package services

import (
	portsrepo "github.com/homebalance/home_balance_app/internal/core/ports/repositories"
	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/platform/config"
)

// NewServiceContainer initializes all services with their dependencies and
// returns the container handed to the handlers.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	contributionSvc := NewContributionService(
		repos.PeriodRepo,
		repos.MovementRepo,
		repos.AdjustmentRepo,
		repos.CreditRepo,
		repos.HouseholdRepo,
		repos.ContributionRepo,
	)
	periodSvc := NewPeriodService(
		repos.PeriodRepo,
		repos.MovementRepo,
		repos.ContributionRepo,
		repos.CreditRepo,
		repos.HouseholdRepo,
		cfg.MaxPeriodReopens,
	)
	movementSvc := NewMovementService(repos.MovementRepo, periodSvc, contributionSvc)
	balanceSvc := NewBalanceService(repos.PeriodRepo, repos.ContributionRepo)
	adjustmentSvc := NewAdjustmentService(repos.AdjustmentRepo, repos.MovementRepo, repos.PeriodRepo, contributionSvc)
	creditSvc := NewCreditService(repos.CreditRepo, repos.HouseholdRepo)
	householdSvc := NewHouseholdService(repos.HouseholdRepo, repos.PeriodRepo, contributionSvc)

	return &portssvc.ServiceContainer{
		Period:       periodSvc,
		Movement:     movementSvc,
		Contribution: contributionSvc,
		Balance:      balanceSvc,
		Adjustment:   adjustmentSvc,
		Credit:       creditSvc,
		Household:    householdSvc,
	}
}
