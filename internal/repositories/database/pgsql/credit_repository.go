package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/homebalance/home_balance_app/internal/core/domain"
	portsrepo "github.com/homebalance/home_balance_app/internal/core/ports/repositories"
)

type PgxCreditRepository struct {
	BaseRepository
}

// newPgxCreditRepository creates a new repository for member credits.
func newPgxCreditRepository(pool *pgxpool.Pool, timeout time.Duration) portsrepo.CreditRepositoryWithTx {
	return &PgxCreditRepository{
		BaseRepository: BaseRepository{Pool: pool, Timeout: timeout},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CreditRepositoryWithTx = (*PgxCreditRepository)(nil)

const creditColumns = `
	credit_id, household_id, member_id, amount,
	source_year, source_month, status, reserved_at, monthly_decision,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCredit(row pgx.Row) (*domain.MemberCredit, error) {
	var c domain.MemberCredit
	var sourceMonth int
	var status string
	var decision *string

	err := row.Scan(
		&c.CreditID, &c.HouseholdID, &c.MemberID, &c.Amount,
		&c.SourceYear, &sourceMonth, &status, &c.ReservedAt, &decision,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	c.SourceMonth = time.Month(sourceMonth)
	c.Status = domain.CreditStatus(status)
	if decision != nil {
		c.MonthlyDecision = domain.CreditDecision(*decision)
	}
	return &c, nil
}

// FindCreditByID retrieves a specific credit.
func (r *PgxCreditRepository) FindCreditByID(ctx context.Context, creditID string) (*domain.MemberCredit, error) {
	query := `SELECT ` + creditColumns + ` FROM member_credits WHERE credit_id = $1;`
	credit, err := scanCredit(r.Pool.QueryRow(ctx, query, creditID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("credit %s not found", creditID)
		}
		return nil, r.storeError(err, "failed to find credit %s", creditID)
	}
	return credit, nil
}

// ListCreditsByMember retrieves all credits owned by a member in a
// household, newest source month first.
func (r *PgxCreditRepository) ListCreditsByMember(ctx context.Context, householdID, memberID string) ([]domain.MemberCredit, error) {
	query := `
		SELECT ` + creditColumns + `
		FROM member_credits
		WHERE household_id = $1 AND member_id = $2
		ORDER BY source_year DESC, source_month DESC;
	`
	rows, err := r.Pool.Query(ctx, query, householdID, memberID)
	if err != nil {
		return nil, r.storeError(err, "failed to query credits")
	}
	defer rows.Close()

	credits := []domain.MemberCredit{}
	for rows.Next() {
		credit, err := scanCredit(rows)
		if err != nil {
			return nil, r.storeError(err, "failed to scan credit")
		}
		credits = append(credits, *credit)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storeError(err, "failed to read credits")
	}
	return credits, nil
}

// FindReservedCreditsForMonth retrieves the credits applied to (year, month):
// still-reserved ones plus those already consumed by an earlier
// recalculation of the same period, so recomputation stays idempotent.
// Reserved credits target the month after their source.
func (r *PgxCreditRepository) FindReservedCreditsForMonth(ctx context.Context, householdID string, year int, month time.Month) ([]domain.MemberCredit, error) {
	prevYear, prevMonth := year, int(month)-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}
	query := `
		SELECT ` + creditColumns + `
		FROM member_credits
		WHERE household_id = $1
		  AND source_year = $2 AND source_month = $3
		  AND status IN ('RESERVED', 'CONSUMED')
		ORDER BY credit_id;
	`
	rows, err := r.Pool.Query(ctx, query, householdID, prevYear, prevMonth)
	if err != nil {
		return nil, r.storeError(err, "failed to query reserved credits")
	}
	defer rows.Close()

	credits := []domain.MemberCredit{}
	for rows.Next() {
		credit, err := scanCredit(rows)
		if err != nil {
			return nil, r.storeError(err, "failed to scan reserved credit")
		}
		credits = append(credits, *credit)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storeError(err, "failed to read reserved credits")
	}
	return credits, nil
}

// SaveCreditsInTx persists newly minted credits within tx. A member holds at
// most one credit per source period; a re-close after reopening refreshes
// the amount of a still-active credit instead of minting a second one.
func (r *PgxCreditRepository) SaveCreditsInTx(ctx context.Context, tx pgx.Tx, credits []domain.MemberCredit) error {
	query := `
		INSERT INTO member_credits (` + creditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (household_id, member_id, source_year, source_month) DO UPDATE SET
			amount = EXCLUDED.amount,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		WHERE member_credits.status = 'ACTIVE';
	`
	batch := &pgx.Batch{}
	for _, c := range credits {
		var decision *string
		if c.MonthlyDecision != "" {
			d := string(c.MonthlyDecision)
			decision = &d
		}
		batch.Queue(query,
			c.CreditID, c.HouseholdID, c.MemberID, c.Amount,
			c.SourceYear, int(c.SourceMonth), string(c.Status), c.ReservedAt, decision,
			c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range credits {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return r.storeError(err, "failed to save credit")
		}
	}
	if err := results.Close(); err != nil {
		return r.storeError(err, "failed to close credit batch")
	}
	return nil
}

// UpdateCreditInTx writes a credit's state within tx, guarded by a
// compare-and-set on expectedStatus. A stale expectation surfaces as
// ErrConflict so a double decision never lands twice.
func (r *PgxCreditRepository) UpdateCreditInTx(ctx context.Context, tx pgx.Tx, credit domain.MemberCredit, expectedStatus domain.CreditStatus) error {
	query := `
		UPDATE member_credits SET
			status = $2,
			reserved_at = $3,
			monthly_decision = $4,
			last_updated_at = $5,
			last_updated_by = $6
		WHERE credit_id = $1 AND status = $7;
	`
	var decision *string
	if credit.MonthlyDecision != "" {
		d := string(credit.MonthlyDecision)
		decision = &d
	}
	tag, err := tx.Exec(ctx, query,
		credit.CreditID, string(credit.Status), credit.ReservedAt, decision,
		credit.LastUpdatedAt, credit.LastUpdatedBy, string(expectedStatus),
	)
	if err != nil {
		return r.storeError(err, "failed to update credit %s", credit.CreditID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: credit %s is no longer %s", apperrors.ErrConflict, credit.CreditID, expectedStatus)
	}
	return nil
}
