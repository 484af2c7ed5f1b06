package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/homebalance/home_balance_app/internal/core/domain"
	portsrepo "github.com/homebalance/home_balance_app/internal/core/ports/repositories"
)

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for period data.
func newPgxPeriodRepository(pool *pgxpool.Pool, timeout time.Duration) portsrepo.PeriodRepositoryWithTx {
	return &PgxPeriodRepository{
		BaseRepository: BaseRepository{Pool: pool, Timeout: timeout},
	}
}

// Ensure implementation matches interface
var _ portsrepo.PeriodRepositoryWithTx = (*PgxPeriodRepository)(nil)

const periodColumns = `
	period_id, household_id, year, month, phase,
	opening_balance, closing_balance, total_income, total_expenses,
	reopened_count, notes,
	snapshot_method, snapshot_monthly_goal, snapshot_at,
	created_at, created_by, last_updated_at, last_updated_by`

// scanPeriod maps one row onto the domain struct, folding the nullable
// snapshot columns into the optional snapshot.
func scanPeriod(row pgx.Row) (*domain.Period, error) {
	var p domain.Period
	var month int
	var phase string
	var snapMethod *string
	var snapGoal *decimal.Decimal
	var snapAt *time.Time

	err := row.Scan(
		&p.PeriodID, &p.HouseholdID, &p.Year, &month, &phase,
		&p.OpeningBalance, &p.ClosingBalance, &p.TotalIncome, &p.TotalExpenses,
		&p.ReopenedCount, &p.Notes,
		&snapMethod, &snapGoal, &snapAt,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	p.Month = time.Month(month)
	p.Phase, err = domain.ParsePeriodPhase(phase)
	if err != nil {
		return nil, fmt.Errorf("%w: stored phase for period %s: %s", apperrors.ErrIntegrity, p.PeriodID, err)
	}
	if snapMethod != nil && snapGoal != nil && snapAt != nil {
		p.Snapshot = &domain.PeriodSnapshot{
			Method:      domain.CalculationMethod(*snapMethod),
			MonthlyGoal: *snapGoal,
			SnapshotAt:  *snapAt,
		}
	}
	return &p, nil
}

// snapshotColumns flattens the optional snapshot for writing.
func snapshotColumns(p domain.Period) (*string, *decimal.Decimal, *time.Time) {
	if p.Snapshot == nil {
		return nil, nil, nil
	}
	method := string(p.Snapshot.Method)
	return &method, &p.Snapshot.MonthlyGoal, &p.Snapshot.SnapshotAt
}

// SavePeriod persists a new period. The unique month constraint surfaces as
// ErrDuplicate so racing creators can fall back to a re-read.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.Period) error {
	query := `
		INSERT INTO periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	snapMethod, snapGoal, snapAt := snapshotColumns(period)
	_, err := r.Pool.Exec(ctx, query,
		period.PeriodID, period.HouseholdID, period.Year, int(period.Month), string(period.Phase),
		period.OpeningBalance, period.ClosingBalance, period.TotalIncome, period.TotalExpenses,
		period.ReopenedCount, period.Notes,
		snapMethod, snapGoal, snapAt,
		period.CreatedAt, period.CreatedBy, period.LastUpdatedAt, period.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: period for %d-%02d already exists", apperrors.ErrDuplicate, period.Year, int(period.Month))
		}
		return r.storeError(err, "failed to save period %s", period.PeriodID)
	}
	return nil
}

// FindPeriodByID retrieves a specific period by its unique identifier.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE period_id = $1;`
	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("period %s not found", periodID)
		}
		return nil, r.storeError(err, "failed to find period %s", periodID)
	}
	return period, nil
}

// FindPeriodByMonth retrieves the one period for (household, year, month).
func (r *PgxPeriodRepository) FindPeriodByMonth(ctx context.Context, householdID string, year int, month time.Month) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE household_id = $1 AND year = $2 AND month = $3;`
	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, householdID, year, int(month)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no period for %d-%02d", year, int(month))
		}
		return nil, r.storeError(err, "failed to find period %d-%02d", year, int(month))
	}
	return period, nil
}

// ListPeriodsByHousehold retrieves all periods of a household in
// chronological order.
func (r *PgxPeriodRepository) ListPeriodsByHousehold(ctx context.Context, householdID string) ([]domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE household_id = $1 ORDER BY year, month;`
	rows, err := r.Pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, r.storeError(err, "failed to query periods")
	}
	defer rows.Close()

	periods := []domain.Period{}
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, r.storeError(err, "failed to scan period")
		}
		periods = append(periods, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storeError(err, "failed to read periods")
	}
	return periods, nil
}

// FindLatestPeriodBefore retrieves the most recent period strictly before
// (year, month), used to chain opening balances.
func (r *PgxPeriodRepository) FindLatestPeriodBefore(ctx context.Context, householdID string, year int, month time.Month) (*domain.Period, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM periods
		WHERE household_id = $1 AND (year * 100 + month) < $2
		ORDER BY year DESC, month DESC
		LIMIT 1;
	`
	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, householdID, year*100+int(month)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no period before %d-%02d", year, int(month))
		}
		return nil, r.storeError(err, "failed to find latest period before %d-%02d", year, int(month))
	}
	return period, nil
}

// FindPeriodByIDForUpdate selects a period and locks its row within tx.
func (r *PgxPeriodRepository) FindPeriodByIDForUpdate(ctx context.Context, tx pgx.Tx, periodID string) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE period_id = $1 FOR UPDATE;`
	period, err := scanPeriod(tx.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("period %s not found", periodID)
		}
		return nil, r.storeError(err, "failed to lock period %s", periodID)
	}
	return period, nil
}

// UpdatePeriodInTx writes the full mutable state of a period within tx.
func (r *PgxPeriodRepository) UpdatePeriodInTx(ctx context.Context, tx pgx.Tx, period domain.Period) error {
	query := `
		UPDATE periods SET
			phase = $2,
			opening_balance = $3,
			closing_balance = $4,
			total_income = $5,
			total_expenses = $6,
			reopened_count = $7,
			notes = $8,
			snapshot_method = $9,
			snapshot_monthly_goal = $10,
			snapshot_at = $11,
			last_updated_at = $12,
			last_updated_by = $13
		WHERE period_id = $1;
	`
	snapMethod, snapGoal, snapAt := snapshotColumns(period)
	tag, err := tx.Exec(ctx, query,
		period.PeriodID, string(period.Phase),
		period.OpeningBalance, period.ClosingBalance, period.TotalIncome, period.TotalExpenses,
		period.ReopenedCount, period.Notes,
		snapMethod, snapGoal, snapAt,
		period.LastUpdatedAt, period.LastUpdatedBy,
	)
	if err != nil {
		return r.storeError(err, "failed to update period %s", period.PeriodID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
