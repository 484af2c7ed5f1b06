package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/homebalance/home_balance_app/internal/core/domain"
	portsrepo "github.com/homebalance/home_balance_app/internal/core/ports/repositories"
)

type PgxHouseholdRepository struct {
	BaseRepository
}

// newPgxHouseholdRepository creates a new repository for household data.
func newPgxHouseholdRepository(pool *pgxpool.Pool, timeout time.Duration) portsrepo.HouseholdRepositoryWithTx {
	return &PgxHouseholdRepository{
		BaseRepository: BaseRepository{Pool: pool, Timeout: timeout},
	}
}

// Ensure implementation matches interface
var _ portsrepo.HouseholdRepositoryWithTx = (*PgxHouseholdRepository)(nil)

// FindHouseholdByID retrieves a household with its live settings.
func (r *PgxHouseholdRepository) FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error) {
	query := `
		SELECT household_id, name, currency_code, method, monthly_goal,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM households
		WHERE household_id = $1;
	`
	var h domain.Household
	var method string
	err := r.Pool.QueryRow(ctx, query, householdID).Scan(
		&h.HouseholdID, &h.Name, &h.CurrencyCode, &method, &h.Settings.MonthlyGoal,
		&h.CreatedAt, &h.CreatedBy, &h.LastUpdatedAt, &h.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("household %s not found", householdID)
		}
		return nil, r.storeError(err, "failed to find household %s", householdID)
	}
	h.Settings.Method = domain.CalculationMethod(method)
	return &h, nil
}

// SaveHousehold persists a new household with its initial settings and
// seeds an empty savings fund in the same statement batch.
func (r *PgxHouseholdRepository) SaveHousehold(ctx context.Context, household domain.Household) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	householdQuery := `
		INSERT INTO households (household_id, name, currency_code, method, monthly_goal,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, householdQuery,
		household.HouseholdID, household.Name, household.CurrencyCode,
		string(household.Settings.Method), household.Settings.MonthlyGoal,
		household.CreatedAt, household.CreatedBy, household.LastUpdatedAt, household.LastUpdatedBy,
	)
	if err != nil {
		return r.storeError(err, "failed to save household %s", household.HouseholdID)
	}

	fundQuery := `
		INSERT INTO savings_funds (household_id, balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, 0, $2, $3, $4, $5);
	`
	_, err = tx.Exec(ctx, fundQuery,
		household.HouseholdID, household.CreatedAt, household.CreatedBy,
		household.LastUpdatedAt, household.LastUpdatedBy,
	)
	if err != nil {
		return r.storeError(err, "failed to seed savings fund for household %s", household.HouseholdID)
	}
	return r.Commit(ctx, tx)
}

// UpdateHouseholdSettings writes the live contribution settings.
func (r *PgxHouseholdRepository) UpdateHouseholdSettings(ctx context.Context, householdID string, settings domain.HouseholdSettings, actorID string, now time.Time) error {
	query := `
		UPDATE households
		SET method = $2, monthly_goal = $3, last_updated_at = $4, last_updated_by = $5
		WHERE household_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, householdID, string(settings.Method), settings.MonthlyGoal, now, actorID)
	if err != nil {
		return r.storeError(err, "failed to update settings of household %s", householdID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListMembers retrieves the members of a household.
func (r *PgxHouseholdRepository) ListMembers(ctx context.Context, householdID string) ([]domain.HouseholdMember, error) {
	query := `
		SELECT household_id, member_id, display_name, joined_at, is_active
		FROM household_members
		WHERE household_id = $1
		ORDER BY member_id;
	`
	rows, err := r.Pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, r.storeError(err, "failed to query members")
	}
	defer rows.Close()

	members := []domain.HouseholdMember{}
	for rows.Next() {
		var m domain.HouseholdMember
		if err := rows.Scan(&m.HouseholdID, &m.MemberID, &m.DisplayName, &m.JoinedAt, &m.IsActive); err != nil {
			return nil, r.storeError(err, "failed to scan member")
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storeError(err, "failed to read members")
	}
	return members, nil
}

// AddMember persists a household membership.
func (r *PgxHouseholdRepository) AddMember(ctx context.Context, member domain.HouseholdMember) error {
	query := `
		INSERT INTO household_members (household_id, member_id, display_name, joined_at, is_active)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query, member.HouseholdID, member.MemberID, member.DisplayName, member.JoinedAt, member.IsActive)
	if err != nil {
		return r.storeError(err, "failed to add member %s", member.MemberID)
	}
	return nil
}

// FindIncomesForMonth retrieves all declared member incomes for (year, month).
func (r *PgxHouseholdRepository) FindIncomesForMonth(ctx context.Context, householdID string, year int, month time.Month) ([]domain.MemberIncome, error) {
	query := `
		SELECT income_id, household_id, member_id, year, month, amount,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM member_incomes
		WHERE household_id = $1 AND year = $2 AND month = $3
		ORDER BY member_id;
	`
	rows, err := r.Pool.Query(ctx, query, householdID, year, int(month))
	if err != nil {
		return nil, r.storeError(err, "failed to query incomes")
	}
	defer rows.Close()

	incomes := []domain.MemberIncome{}
	for rows.Next() {
		var inc domain.MemberIncome
		var monthInt int
		err := rows.Scan(
			&inc.IncomeID, &inc.HouseholdID, &inc.MemberID, &inc.Year, &monthInt, &inc.Amount,
			&inc.CreatedAt, &inc.CreatedBy, &inc.LastUpdatedAt, &inc.LastUpdatedBy,
		)
		if err != nil {
			return nil, r.storeError(err, "failed to scan income")
		}
		inc.Month = time.Month(monthInt)
		incomes = append(incomes, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storeError(err, "failed to read incomes")
	}
	return incomes, nil
}

// UpsertMemberIncome creates or replaces a member's declared income for one
// month. The original income id is kept on replacement.
func (r *PgxHouseholdRepository) UpsertMemberIncome(ctx context.Context, income domain.MemberIncome) error {
	query := `
		INSERT INTO member_incomes (income_id, household_id, member_id, year, month, amount,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (household_id, member_id, year, month) DO UPDATE SET
			amount = EXCLUDED.amount,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		income.IncomeID, income.HouseholdID, income.MemberID, income.Year, int(income.Month), income.Amount,
		income.CreatedAt, income.CreatedBy, income.LastUpdatedAt, income.LastUpdatedBy,
	)
	if err != nil {
		return r.storeError(err, "failed to upsert income for member %s", income.MemberID)
	}
	return nil
}

// GetSavingsFund retrieves the household's savings fund balance.
func (r *PgxHouseholdRepository) GetSavingsFund(ctx context.Context, householdID string) (*domain.SavingsFund, error) {
	query := `
		SELECT household_id, balance, created_at, created_by, last_updated_at, last_updated_by
		FROM savings_funds
		WHERE household_id = $1;
	`
	var f domain.SavingsFund
	err := r.Pool.QueryRow(ctx, query, householdID).Scan(
		&f.HouseholdID, &f.Balance, &f.CreatedAt, &f.CreatedBy, &f.LastUpdatedAt, &f.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("savings fund of household %s not found", householdID)
		}
		return nil, r.storeError(err, "failed to find savings fund of household %s", householdID)
	}
	return &f, nil
}

// AddToSavingsFundInTx credits the savings fund within tx.
func (r *PgxHouseholdRepository) AddToSavingsFundInTx(ctx context.Context, tx pgx.Tx, householdID string, amount decimal.Decimal, actorID string, now time.Time) error {
	query := `
		UPDATE savings_funds
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE household_id = $1;
	`
	tag, err := tx.Exec(ctx, query, householdID, amount, now, actorID)
	if err != nil {
		return r.storeError(err, "failed to credit savings fund of household %s", householdID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
