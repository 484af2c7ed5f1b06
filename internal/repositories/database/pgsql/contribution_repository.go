package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	portsrepo "github.com/homebalance/home_balance_app/internal/core/ports/repositories"
)

type PgxContributionRepository struct {
	BaseRepository
}

// newPgxContributionRepository creates a new repository for contribution rows.
func newPgxContributionRepository(pool *pgxpool.Pool, timeout time.Duration) portsrepo.ContributionRepositoryWithTx {
	return &PgxContributionRepository{
		BaseRepository: BaseRepository{Pool: pool, Timeout: timeout},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ContributionRepositoryWithTx = (*PgxContributionRepository)(nil)

const contributionColumns = `
	contribution_id, period_id, household_id, member_id,
	income_share, base_expected, direct_expenses, expected_after_direct,
	expected_amount, credit_applied, paid_amount, pending_amount, overpaid_amount,
	status, created_at, created_by, last_updated_at, last_updated_by`

func scanContribution(row pgx.Row) (*domain.Contribution, error) {
	var c domain.Contribution
	var status string
	err := row.Scan(
		&c.ContributionID, &c.PeriodID, &c.HouseholdID, &c.MemberID,
		&c.IncomeShare, &c.BaseExpected, &c.DirectExpenses, &c.ExpectedAfterDirect,
		&c.ExpectedAmount, &c.CreditApplied, &c.PaidAmount, &c.PendingAmount, &c.OverpaidAmount,
		&status, &c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	c.Status = domain.ContributionStatus(status)
	return &c, nil
}

func (r *PgxContributionRepository) collectContributions(ctx context.Context, query string, args ...any) ([]domain.Contribution, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, r.storeError(err, "failed to query contributions")
	}
	defer rows.Close()

	contributions := []domain.Contribution{}
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, r.storeError(err, "failed to scan contribution")
		}
		contributions = append(contributions, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storeError(err, "failed to read contributions")
	}
	return contributions, nil
}

// FindContributionsByPeriod retrieves all contribution rows of a period.
func (r *PgxContributionRepository) FindContributionsByPeriod(ctx context.Context, periodID string) ([]domain.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions WHERE period_id = $1 ORDER BY member_id;`
	return r.collectContributions(ctx, query, periodID)
}

// ListContributionsByMember retrieves one member's contribution rows across
// all of a household's periods.
func (r *PgxContributionRepository) ListContributionsByMember(ctx context.Context, householdID, memberID string) ([]domain.Contribution, error) {
	query := `
		SELECT ` + contributionColumns + `
		FROM contributions
		WHERE household_id = $1 AND member_id = $2
		ORDER BY period_id;
	`
	return r.collectContributions(ctx, query, householdID, memberID)
}

// ListContributionsByHousehold retrieves every contribution row of a
// household.
func (r *PgxContributionRepository) ListContributionsByHousehold(ctx context.Context, householdID string) ([]domain.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions WHERE household_id = $1 ORDER BY period_id, member_id;`
	return r.collectContributions(ctx, query, householdID)
}

// ReplaceContributionsInTx atomically swaps the contribution rows of a
// period for freshly computed ones within tx.
func (r *PgxContributionRepository) ReplaceContributionsInTx(ctx context.Context, tx pgx.Tx, periodID string, contributions []domain.Contribution) error {
	if _, err := tx.Exec(ctx, `DELETE FROM contributions WHERE period_id = $1;`, periodID); err != nil {
		return r.storeError(err, "failed to clear contributions of period %s", periodID)
	}

	insertQuery := `
		INSERT INTO contributions (` + contributionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	batch := &pgx.Batch{}
	for _, c := range contributions {
		batch.Queue(insertQuery,
			c.ContributionID, c.PeriodID, c.HouseholdID, c.MemberID,
			c.IncomeShare, c.BaseExpected, c.DirectExpenses, c.ExpectedAfterDirect,
			c.ExpectedAmount, c.CreditApplied, c.PaidAmount, c.PendingAmount, c.OverpaidAmount,
			string(c.Status), c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range contributions {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return r.storeError(err, "failed to insert contribution row")
		}
	}
	if err := results.Close(); err != nil {
		return r.storeError(err, "failed to close contribution batch")
	}
	return nil
}
