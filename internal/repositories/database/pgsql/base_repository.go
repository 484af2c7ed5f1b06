package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides shared pool access, transaction control and store
// error classification for all repositories. Timeout bounds the client side
// of transaction control round-trips; statement execution is bounded
// server-side through the pool's statement_timeout.
type BaseRepository struct {
	Pool    *pgxpool.Pool
	Timeout time.Duration
}

// bound derives a context carrying the configured store timeout.
func (r *BaseRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.Timeout)
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	boundCtx, cancel := r.bound(ctx)
	defer cancel()
	tx, err := r.Pool.Begin(boundCtx)
	if err != nil {
		return nil, r.storeError(err, "failed to begin transaction")
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	boundCtx, cancel := r.bound(ctx)
	defer cancel()
	if err := tx.Commit(boundCtx); err != nil {
		return r.storeError(err, "failed to commit transaction")
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	boundCtx, cancel := r.bound(ctx)
	defer cancel()
	if err := tx.Rollback(boundCtx); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return r.storeError(err, "failed to rollback transaction")
	}
	return nil
}

// storeError wraps a store failure, tagging transient infrastructure errors
// so callers can tell a retryable outage from a fatal one.
func (r *BaseRepository) storeError(err error, format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	if isTransientStoreError(err) {
		return apperrors.NewAppError(503, message, fmt.Errorf("%w: %w", apperrors.ErrStoreTransient, err))
	}
	return fmt.Errorf("%s: %w", message, err)
}

// isTransientStoreError reports whether err is a transient infrastructure
// failure: a timed-out or lost connection, a cancelled statement, a
// serialization failure or deadlock, or a server out of resources.
func isTransientStoreError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch {
	case strings.HasPrefix(pgErr.Code, "08"): // connection exception class
		return true
	case strings.HasPrefix(pgErr.Code, "53"): // insufficient resources class
		return true
	case pgErr.Code == "40001" || pgErr.Code == "40P01": // serialization failure, deadlock
		return true
	case pgErr.Code == "57014" || pgErr.Code == "57P01": // statement_timeout cancel, admin shutdown
		return true
	}
	return false
}
