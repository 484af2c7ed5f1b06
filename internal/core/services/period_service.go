package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/homebalance/home_balance_app/internal/core/domain"
	portsrepo "github.com/homebalance/home_balance_app/internal/core/ports/repositories"
	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/middleware"
)

// periodService drives the monthly period lifecycle. Every transition
// re-reads the period under a row lock so two concurrent callers cannot
// double-advance the same period.
type periodService struct {
	periodRepo       portsrepo.PeriodRepositoryWithTx
	movementRepo     portsrepo.MovementRepositoryFacade
	contributionRepo portsrepo.ContributionRepositoryFacade
	creditRepo       portsrepo.CreditRepositoryFacade
	householdRepo    portsrepo.HouseholdRepositoryFacade
	maxReopens       int
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(
	periodRepo portsrepo.PeriodRepositoryWithTx,
	movementRepo portsrepo.MovementRepositoryFacade,
	contributionRepo portsrepo.ContributionRepositoryFacade,
	creditRepo portsrepo.CreditRepositoryFacade,
	householdRepo portsrepo.HouseholdRepositoryFacade,
	maxReopens int,
) portssvc.PeriodSvcFacade {
	return &periodService{
		periodRepo:       periodRepo,
		movementRepo:     movementRepo,
		contributionRepo: contributionRepo,
		creditRepo:       creditRepo,
		householdRepo:    householdRepo,
		maxReopens:       maxReopens,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// GetPeriod retrieves a period scoped to a household. A period belonging to
// another household is reported as not found rather than forbidden.
func (s *periodService) GetPeriod(ctx context.Context, householdID, periodID string) (*domain.Period, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return period, nil
}

// ListPeriods retrieves a household's periods in chronological order.
func (s *periodService) ListPeriods(ctx context.Context, householdID string) ([]domain.Period, error) {
	return s.periodRepo.ListPeriodsByHousehold(ctx, householdID)
}

// ResolvePeriodForDate finds the period owning the given date, creating it in
// the preparing phase when it does not exist yet. The opening balance of a
// new period chains from the closing balance of the latest earlier one.
func (s *periodService) ResolvePeriodForDate(ctx context.Context, householdID string, on time.Time, actorID string) (*domain.Period, error) {
	year, month := on.Year(), on.Month()

	period, err := s.periodRepo.FindPeriodByMonth(ctx, householdID, year, month)
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	opening := decimal.Zero
	previous, err := s.periodRepo.FindLatestPeriodBefore(ctx, householdID, year, month)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if previous != nil && previous.Phase == domain.PhaseClosed {
		opening = previous.ClosingBalance
	}

	now := time.Now().UTC()
	created := domain.Period{
		PeriodID:       uuid.NewString(),
		HouseholdID:    householdID,
		Year:           year,
		Month:          month,
		Phase:          domain.PhasePreparing,
		OpeningBalance: opening,
		ClosingBalance: decimal.Zero,
		TotalIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
		AuditFields:    domain.NewAuditFields(actorID, now),
	}

	if err := s.periodRepo.SavePeriod(ctx, created); err != nil {
		// Two callers raced on the same month; the loser re-reads.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.periodRepo.FindPeriodByMonth(ctx, householdID, year, month)
		}
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Period created",
		slog.String("period_id", created.PeriodID),
		slog.Int("year", year),
		slog.Int("month", int(month)),
	)
	return &created, nil
}

// transition runs one phase step as a single atomic unit: lock the row,
// verify the expected phase, apply the mutation, write, commit.
func (s *periodService) transition(ctx context.Context, householdID, periodID, actorID string, from, to domain.PeriodPhase, mutate func(ctx context.Context, tx pgx.Tx, p *domain.Period) error) (*domain.Period, error) {
	tx, err := s.periodRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.periodRepo.Rollback(ctx, tx)

	period, err := s.periodRepo.FindPeriodByIDForUpdate(ctx, tx, periodID)
	if err != nil {
		return nil, err
	}
	if period.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	if period.Phase != from {
		return nil, fmt.Errorf("%w: period is %s, transition requires %s", apperrors.ErrPhaseViolation, period.Phase, from)
	}

	period.Phase = to
	period.Touch(actorID, time.Now().UTC())

	if mutate != nil {
		if err := mutate(ctx, tx, period); err != nil {
			return nil, err
		}
	}

	if err := s.periodRepo.UpdatePeriodInTx(ctx, tx, *period); err != nil {
		return nil, err
	}
	if err := s.periodRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Period phase changed",
		slog.String("period_id", period.PeriodID),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.String("actor_id", actorID),
	)
	return period, nil
}

// OpenPeriod moves preparing -> validation. The gate requires a configured
// calculation method and at least one declared member income for the month.
func (s *periodService) OpenPeriod(ctx context.Context, householdID, periodID, actorID string) (*domain.Period, error) {
	period, err := s.GetPeriod(ctx, householdID, periodID)
	if err != nil {
		return nil, err
	}

	household, err := s.householdRepo.FindHouseholdByID(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if household.Settings.Method == "" || !household.Settings.MonthlyGoal.IsPositive() {
		return nil, fmt.Errorf("%w: contribution method and monthly goal must be configured before opening", apperrors.ErrValidation)
	}

	incomes, err := s.householdRepo.FindIncomesForMonth(ctx, householdID, period.Year, period.Month)
	if err != nil {
		return nil, err
	}
	if len(incomes) == 0 {
		return nil, fmt.Errorf("%w: at least one member income must be declared before opening", apperrors.ErrValidation)
	}

	return s.transition(ctx, householdID, periodID, actorID, domain.PhasePreparing, domain.PhaseValidation, nil)
}

// LockPeriod moves validation -> active and snapshots the household's
// contribution configuration onto the period. Later settings changes no
// longer affect it.
func (s *periodService) LockPeriod(ctx context.Context, householdID, periodID, actorID string) (*domain.Period, error) {
	household, err := s.householdRepo.FindHouseholdByID(ctx, householdID)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, householdID, periodID, actorID, domain.PhaseValidation, domain.PhaseActive,
		func(_ context.Context, _ pgx.Tx, p *domain.Period) error {
			p.Snapshot = &domain.PeriodSnapshot{
				Method:      household.Settings.Method,
				MonthlyGoal: household.Settings.MonthlyGoal,
				SnapshotAt:  time.Now().UTC(),
			}
			return nil
		})
}

// StartClosing moves active -> closing. Common flows freeze; direct flows
// and adjustment resolution stay open until the final close.
func (s *periodService) StartClosing(ctx context.Context, householdID, periodID, actorID, reason string) (*domain.Period, error) {
	return s.transition(ctx, householdID, periodID, actorID, domain.PhaseActive, domain.PhaseClosing,
		func(_ context.Context, _ pgx.Tx, p *domain.Period) error {
			if reason != "" {
				p.Notes = appendNote(p.Notes, "closing started: "+reason)
			}
			return nil
		})
}

// ClosePeriod moves closing -> closed. The closing balance is derived from
// the opening balance and the period's movement totals, and overpaid members
// get their credit minted in the same atomic unit as the phase change.
func (s *periodService) ClosePeriod(ctx context.Context, householdID, periodID, actorID, notes string) (*domain.Period, error) {
	return s.transition(ctx, householdID, periodID, actorID, domain.PhaseClosing, domain.PhaseClosed,
		func(ctx context.Context, tx pgx.Tx, p *domain.Period) error {
			movements, err := s.movementRepo.FindMovementsByPeriod(ctx, p.PeriodID, false)
			if err != nil {
				return fmt.Errorf("failed to load movements for close: %w", err)
			}

			totalIncome, totalExpenses := decimal.Zero, decimal.Zero
			for _, mv := range movements {
				if mv.Type.IsExpense() {
					totalExpenses = totalExpenses.Add(mv.Amount)
				} else {
					totalIncome = totalIncome.Add(mv.Amount)
				}
			}

			p.TotalIncome = totalIncome
			p.TotalExpenses = totalExpenses
			p.ClosingBalance = p.OpeningBalance.Add(totalIncome).Sub(totalExpenses)
			if notes != "" {
				p.Notes = appendNote(p.Notes, notes)
			}

			rows, err := s.contributionRepo.FindContributionsByPeriod(ctx, p.PeriodID)
			if err != nil {
				return fmt.Errorf("failed to load contributions for close: %w", err)
			}

			now := time.Now().UTC()
			var minted []domain.MemberCredit
			for _, row := range rows {
				if !row.OverpaidAmount.IsPositive() {
					continue
				}
				minted = append(minted, domain.MemberCredit{
					CreditID:    uuid.NewString(),
					HouseholdID: p.HouseholdID,
					MemberID:    row.MemberID,
					Amount:      row.OverpaidAmount,
					SourceYear:  p.Year,
					SourceMonth: p.Month,
					Status:      domain.CreditActive,
					AuditFields: domain.NewAuditFields(actorID, now),
				})
			}
			if len(minted) > 0 {
				if err := s.creditRepo.SaveCreditsInTx(ctx, tx, minted); err != nil {
					return fmt.Errorf("failed to mint credits: %w", err)
				}
				middleware.GetLoggerFromCtx(ctx).Info("Credits minted at close",
					slog.String("period_id", p.PeriodID),
					slog.Int("count", len(minted)),
				)
			}
			return nil
		})
}

// ReopenPeriod reverses exactly one phase step. The reason is mandatory and
// the per-period reopen count is bounded.
func (s *periodService) ReopenPeriod(ctx context.Context, householdID, periodID, actorID, reason string) (*domain.Period, error) {
	if len(strings.TrimSpace(reason)) < 10 {
		return nil, fmt.Errorf("%w: reopen reason must be at least 10 characters", apperrors.ErrValidation)
	}

	tx, err := s.periodRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.periodRepo.Rollback(ctx, tx)

	period, err := s.periodRepo.FindPeriodByIDForUpdate(ctx, tx, periodID)
	if err != nil {
		return nil, err
	}
	if period.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}

	previous, ok := period.Phase.Prev()
	if !ok {
		return nil, fmt.Errorf("%w: a %s period has no earlier phase", apperrors.ErrPhaseViolation, period.Phase)
	}
	if period.ReopenedCount >= s.maxReopens {
		return nil, fmt.Errorf("%w: period was already reopened %d times", apperrors.ErrReopenLimitExceeded, period.ReopenedCount)
	}

	from := period.Phase
	period.Phase = previous
	period.ReopenedCount++
	period.Notes = appendNote(period.Notes, "reopened: "+reason)
	period.Touch(actorID, time.Now().UTC())

	if err := s.periodRepo.UpdatePeriodInTx(ctx, tx, *period); err != nil {
		return nil, err
	}
	if err := s.periodRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Warn("Period reopened",
		slog.String("period_id", period.PeriodID),
		slog.String("from", string(from)),
		slog.String("to", string(previous)),
		slog.Int("reopened_count", period.ReopenedCount),
		slog.String("actor_id", actorID),
		slog.String("reason", reason),
	)
	return period, nil
}

func appendNote(notes, entry string) string {
	if notes == "" {
		return entry
	}
	return notes + "\n" + entry
}
