package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/homebalance/home_balance_app/internal/core/domain"
	portsrepo "github.com/homebalance/home_balance_app/internal/core/ports/repositories"
)

type PgxAdjustmentRepository struct {
	BaseRepository
}

// newPgxAdjustmentRepository creates a new repository for adjustments.
func newPgxAdjustmentRepository(pool *pgxpool.Pool, timeout time.Duration) portsrepo.AdjustmentRepositoryWithTx {
	return &PgxAdjustmentRepository{
		BaseRepository: BaseRepository{Pool: pool, Timeout: timeout},
	}
}

// Ensure implementation matches interface
var _ portsrepo.AdjustmentRepositoryWithTx = (*PgxAdjustmentRepository)(nil)

const adjustmentColumns = `
	adjustment_id, household_id, period_id, member_id, amount,
	adjustment_type, reason, state, reject_reason, linked_movement_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAdjustment(row pgx.Row) (*domain.Adjustment, error) {
	var a domain.Adjustment
	var adjType, state string
	var rejectReason *string

	err := row.Scan(
		&a.AdjustmentID, &a.HouseholdID, &a.PeriodID, &a.MemberID, &a.Amount,
		&adjType, &a.Reason, &state, &rejectReason, &a.LinkedMovementID,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	a.Type = domain.AdjustmentType(adjType)
	a.State = domain.AdjustmentState(state)
	if rejectReason != nil {
		a.RejectReason = *rejectReason
	}
	return &a, nil
}

// SaveAdjustment persists a new adjustment.
func (r *PgxAdjustmentRepository) SaveAdjustment(ctx context.Context, adjustment domain.Adjustment) error {
	query := `
		INSERT INTO adjustments (` + adjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	var rejectReason *string
	if adjustment.RejectReason != "" {
		rejectReason = &adjustment.RejectReason
	}
	_, err := r.Pool.Exec(ctx, query,
		adjustment.AdjustmentID, adjustment.HouseholdID, adjustment.PeriodID, adjustment.MemberID, adjustment.Amount,
		string(adjustment.Type), adjustment.Reason, string(adjustment.State), rejectReason, adjustment.LinkedMovementID,
		adjustment.CreatedAt, adjustment.CreatedBy, adjustment.LastUpdatedAt, adjustment.LastUpdatedBy,
	)
	if err != nil {
		return r.storeError(err, "failed to save adjustment %s", adjustment.AdjustmentID)
	}
	return nil
}

// FindAdjustmentByID retrieves a specific adjustment.
func (r *PgxAdjustmentRepository) FindAdjustmentByID(ctx context.Context, adjustmentID string) (*domain.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE adjustment_id = $1;`
	adjustment, err := scanAdjustment(r.Pool.QueryRow(ctx, query, adjustmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("adjustment %s not found", adjustmentID)
		}
		return nil, r.storeError(err, "failed to find adjustment %s", adjustmentID)
	}
	return adjustment, nil
}

// FindAdjustmentsByPeriod retrieves all adjustments of a period, in all
// workflow states.
func (r *PgxAdjustmentRepository) FindAdjustmentsByPeriod(ctx context.Context, periodID string) ([]domain.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE period_id = $1 ORDER BY created_at, adjustment_id;`
	rows, err := r.Pool.Query(ctx, query, periodID)
	if err != nil {
		return nil, r.storeError(err, "failed to query adjustments")
	}
	defer rows.Close()

	adjustments := []domain.Adjustment{}
	for rows.Next() {
		adjustment, err := scanAdjustment(rows)
		if err != nil {
			return nil, r.storeError(err, "failed to scan adjustment")
		}
		adjustments = append(adjustments, *adjustment)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storeError(err, "failed to read adjustments")
	}
	return adjustments, nil
}

// UpdateAdjustmentInTx writes an adjustment's workflow state within tx.
func (r *PgxAdjustmentRepository) UpdateAdjustmentInTx(ctx context.Context, tx pgx.Tx, adjustment domain.Adjustment) error {
	query := `
		UPDATE adjustments SET
			state = $2,
			reject_reason = $3,
			linked_movement_id = $4,
			last_updated_at = $5,
			last_updated_by = $6
		WHERE adjustment_id = $1;
	`
	var rejectReason *string
	if adjustment.RejectReason != "" {
		rejectReason = &adjustment.RejectReason
	}
	tag, err := tx.Exec(ctx, query,
		adjustment.AdjustmentID, string(adjustment.State), rejectReason, adjustment.LinkedMovementID,
		adjustment.LastUpdatedAt, adjustment.LastUpdatedBy,
	)
	if err != nil {
		return r.storeError(err, "failed to update adjustment %s", adjustment.AdjustmentID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
