package services

import (
	"context"
	"time"

	"github.com/homebalance/home_balance_app/internal/core/domain"
)

// PeriodReaderSvc exposes read access to periods.
type PeriodReaderSvc interface {
	// GetPeriod retrieves a period, scoped to a household.
	GetPeriod(ctx context.Context, householdID, periodID string) (*domain.Period, error)

	// ListPeriods retrieves a household's periods in chronological order.
	ListPeriods(ctx context.Context, householdID string) ([]domain.Period, error)

	// ResolvePeriodForDate finds the period owning the given date, creating
	// it in the preparing phase if it does not exist yet.
	ResolvePeriodForDate(ctx context.Context, householdID string, on time.Time, actorID string) (*domain.Period, error)
}

// PeriodLifecycleSvc drives the phase state machine. Every transition is a
// single atomic unit that re-reads the phase under lock.
type PeriodLifecycleSvc interface {
	// OpenPeriod moves preparing -> validation once the calculation method
	// and at least one member income are configured.
	OpenPeriod(ctx context.Context, householdID, periodID, actorID string) (*domain.Period, error)

	// LockPeriod moves validation -> active and snapshots the contribution
	// configuration onto the period.
	LockPeriod(ctx context.Context, householdID, periodID, actorID string) (*domain.Period, error)

	// StartClosing moves active -> closing, freezing common flows while
	// direct flows and adjustment resolution stay open.
	StartClosing(ctx context.Context, householdID, periodID, actorID, reason string) (*domain.Period, error)

	// ClosePeriod moves closing -> closed, stores the final closing balance
	// and mints credits for overpaid members.
	ClosePeriod(ctx context.Context, householdID, periodID, actorID, notes string) (*domain.Period, error)

	// ReopenPeriod reverses exactly one phase step, bounded by the reopen
	// limit and requiring an audit reason.
	ReopenPeriod(ctx context.Context, householdID, periodID, actorID, reason string) (*domain.Period, error)
}

// PeriodSvcFacade combines all period service interfaces.
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodLifecycleSvc
}
