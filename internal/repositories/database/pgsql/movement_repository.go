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

type PgxMovementRepository struct {
	BaseRepository
}

// newPgxMovementRepository creates a new repository for movement data.
func newPgxMovementRepository(pool *pgxpool.Pool, timeout time.Duration) portsrepo.MovementRepositoryWithTx {
	return &PgxMovementRepository{
		BaseRepository: BaseRepository{Pool: pool, Timeout: timeout},
	}
}

// Ensure implementation matches interface
var _ portsrepo.MovementRepositoryWithTx = (*PgxMovementRepository)(nil)

const movementColumns = `
	movement_id, household_id, period_id, movement_type, flow, amount,
	currency_code, description, category, payer_id, real_payer_id,
	pair_id, idempotency_key, occurred_at, voided,
	created_at, created_by, last_updated_at, last_updated_by`

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var m domain.Movement
	var movementType, flow string
	var category, realPayer, idempotencyKey *string

	err := row.Scan(
		&m.MovementID, &m.HouseholdID, &m.PeriodID, &movementType, &flow, &m.Amount,
		&m.CurrencyCode, &m.Description, &category, &m.PayerID, &realPayer,
		&m.PairID, &idempotencyKey, &m.OccurredAt, &m.Voided,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	m.Type = domain.MovementType(movementType)
	m.Flow = domain.FlowType(flow)
	if category != nil {
		m.Category = *category
	}
	if realPayer != nil {
		m.RealPayerID = *realPayer
	}
	if idempotencyKey != nil {
		m.IdempotencyKey = *idempotencyKey
	}
	return &m, nil
}

func movementInsertArgs(m domain.Movement) []any {
	var category, realPayer, idempotencyKey *string
	if m.Category != "" {
		category = &m.Category
	}
	if m.RealPayerID != "" {
		realPayer = &m.RealPayerID
	}
	if m.IdempotencyKey != "" {
		idempotencyKey = &m.IdempotencyKey
	}
	return []any{
		m.MovementID, m.HouseholdID, m.PeriodID, string(m.Type), string(m.Flow), m.Amount,
		m.CurrencyCode, m.Description, category, m.PayerID, realPayer,
		m.PairID, idempotencyKey, m.OccurredAt, m.Voided,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

const movementInsertQuery = `
	INSERT INTO movements (` + movementColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
`

// SaveMovement persists a single unpaired movement.
func (r *PgxMovementRepository) SaveMovement(ctx context.Context, movement domain.Movement) error {
	if _, err := r.Pool.Exec(ctx, movementInsertQuery, movementInsertArgs(movement)...); err != nil {
		return r.storeError(err, "failed to save movement %s", movement.MovementID)
	}
	return nil
}

// SaveMovementInTx persists a movement within tx.
func (r *PgxMovementRepository) SaveMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.Movement) error {
	if _, err := tx.Exec(ctx, movementInsertQuery, movementInsertArgs(movement)...); err != nil {
		return r.storeError(err, "failed to save movement %s", movement.MovementID)
	}
	return nil
}

// SavePairedMovement persists both halves of a balance pair in one atomic
// unit. Either both rows land or neither does.
func (r *PgxMovementRepository) SavePairedMovement(ctx context.Context, pair domain.PairedMovement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	batch.Queue(movementInsertQuery, movementInsertArgs(pair.Primary)...)
	batch.Queue(movementInsertQuery, movementInsertArgs(pair.Counterpart)...)

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < 2; i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return r.storeError(err, "failed to save balance pair %s", *pair.Primary.PairID)
		}
	}
	if err := results.Close(); err != nil {
		return r.storeError(err, "failed to close batch for pair %s", *pair.Primary.PairID)
	}
	return r.Commit(ctx, tx)
}

// FindMovementByID retrieves a specific movement by its identifier.
func (r *PgxMovementRepository) FindMovementByID(ctx context.Context, movementID string) (*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE movement_id = $1;`
	movement, err := scanMovement(r.Pool.QueryRow(ctx, query, movementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("movement %s not found", movementID)
		}
		return nil, r.storeError(err, "failed to find movement %s", movementID)
	}
	return movement, nil
}

// FindMovementsByPeriod retrieves the movements of a period. Voided
// movements are excluded unless includeVoided is set.
func (r *PgxMovementRepository) FindMovementsByPeriod(ctx context.Context, periodID string, includeVoided bool) ([]domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE period_id = $1`
	if !includeVoided {
		query += ` AND voided = FALSE`
	}
	query += ` ORDER BY occurred_at, movement_id;`

	rows, err := r.Pool.Query(ctx, query, periodID)
	if err != nil {
		return nil, r.storeError(err, "failed to query movements")
	}
	defer rows.Close()

	movements := []domain.Movement{}
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, r.storeError(err, "failed to scan movement")
		}
		movements = append(movements, *movement)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storeError(err, "failed to read movements")
	}
	return movements, nil
}

// FindMovementByIdempotencyKey retrieves a movement previously recorded
// under the given idempotency key, if any.
func (r *PgxMovementRepository) FindMovementByIdempotencyKey(ctx context.Context, householdID, key string) (*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE household_id = $1 AND idempotency_key = $2;`
	movement, err := scanMovement(r.Pool.QueryRow(ctx, query, householdID, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no movement for idempotency key")
		}
		return nil, r.storeError(err, "failed to find movement by idempotency key")
	}
	return movement, nil
}

// FindOrphanedPairs retrieves movements whose pair id has no live
// counterpart of equal magnitude.
func (r *PgxMovementRepository) FindOrphanedPairs(ctx context.Context, householdID string) ([]domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements m
		WHERE m.household_id = $1
		  AND m.pair_id IS NOT NULL
		  AND m.voided = FALSE
		  AND NOT EXISTS (
			SELECT 1 FROM movements c
			WHERE c.pair_id = m.pair_id
			  AND c.movement_id <> m.movement_id
			  AND c.voided = FALSE
			  AND c.amount = m.amount
		  )
		ORDER BY m.occurred_at, m.movement_id;
	`
	rows, err := r.Pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, r.storeError(err, "failed to scan for orphaned pairs")
	}
	defer rows.Close()

	orphans := []domain.Movement{}
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, r.storeError(err, "failed to scan orphaned movement")
		}
		orphans = append(orphans, *movement)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storeError(err, "failed to read orphaned movements")
	}
	return orphans, nil
}

// VoidPair voids both halves of a pair in one atomic unit. Anything other
// than exactly two affected rows means the pair was already broken.
func (r *PgxMovementRepository) VoidPair(ctx context.Context, pairID string, actorID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE movements
		SET voided = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE pair_id = $1 AND voided = FALSE;
	`
	tag, err := tx.Exec(ctx, query, pairID, now, actorID)
	if err != nil {
		return r.storeError(err, "failed to void pair %s", pairID)
	}
	if tag.RowsAffected() != 2 {
		return fmt.Errorf("%w: voiding pair %s touched %d rows, want 2", apperrors.ErrIntegrity, pairID, tag.RowsAffected())
	}
	return r.Commit(ctx, tx)
}

// VoidMovementInTx voids a single unpaired movement within tx.
func (r *PgxMovementRepository) VoidMovementInTx(ctx context.Context, tx pgx.Tx, movementID string, actorID string, now time.Time) error {
	query := `
		UPDATE movements
		SET voided = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE movement_id = $1 AND voided = FALSE;
	`
	tag, err := tx.Exec(ctx, query, movementID, now, actorID)
	if err != nil {
		return r.storeError(err, "failed to void movement %s", movementID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
