package domain

import "time"

// CalculationInput bundles everything the contribution calculator needs for
// one period. The calculator is a pure function over this value; loading it
// and persisting the result belong to the caller.
type CalculationInput struct {
	Period   Period
	Snapshot PeriodSnapshot // effective method + goal (snapshot or live)
	Members  []HouseholdMember
	Incomes  []MemberIncome // declared for the period's month
	// Movements must exclude voided entries.
	Movements   []Movement
	Adjustments []Adjustment // all states; only approved ones fold in
	// ReservedCredits are the member credits reserved for this month.
	ReservedCredits []MemberCredit
	ActorID         string
	Now             time.Time
}
