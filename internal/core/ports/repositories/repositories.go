package repositories

// RepositoryProvider bundles the repository facades handed to the service
// layer at wiring time.
type RepositoryProvider struct {
	PeriodRepo       PeriodRepositoryWithTx
	MovementRepo     MovementRepositoryWithTx
	ContributionRepo ContributionRepositoryWithTx
	AdjustmentRepo   AdjustmentRepositoryWithTx
	CreditRepo       CreditRepositoryWithTx
	HouseholdRepo    HouseholdRepositoryWithTx
}
