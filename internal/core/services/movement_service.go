package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/homebalance/home_balance_app/internal/core/domain"
	portsrepo "github.com/homebalance/home_balance_app/internal/core/ports/repositories"
	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/dto"
	"github.com/homebalance/home_balance_app/internal/middleware"
)

// movementService classifies and records money movements against the owning
// period's phase matrix.
type movementService struct {
	movementRepo    portsrepo.MovementRepositoryWithTx
	periodSvc       portssvc.PeriodSvcFacade
	contributionSvc portssvc.ContributionSvcFacade
}

// NewMovementService creates a new MovementService.
func NewMovementService(
	movementRepo portsrepo.MovementRepositoryWithTx,
	periodSvc portssvc.PeriodSvcFacade,
	contributionSvc portssvc.ContributionSvcFacade,
) portssvc.MovementSvcFacade {
	return &movementService{
		movementRepo:    movementRepo,
		periodSvc:       periodSvc,
		contributionSvc: contributionSvc,
	}
}

var _ portssvc.MovementSvcFacade = (*movementService)(nil)

// ClassifyAndRecord validates a movement against the owning period's phase
// and persists it. Direct movements flagged as balance pairs get their
// compensating counterpart in the same atomic unit. A repeated idempotency
// key returns the original result instead of recording twice.
func (s *movementService) ClassifyAndRecord(ctx context.Context, householdID string, req dto.CreateMovementRequest, actorID string) (*dto.CreateMovementResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	movementType := domain.MovementType(req.Type)
	flow := movementType.Flow()
	if req.CreatesBalancePair && flow != domain.FlowDirect {
		return nil, fmt.Errorf("%w: only direct movements can create a balance pair", apperrors.ErrValidation)
	}

	if req.IdempotencyKey != "" {
		existing, err := s.movementRepo.FindMovementByIdempotencyKey(ctx, householdID, req.IdempotencyKey)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			logger.Debug("Idempotency key replayed", slog.String("movement_id", existing.MovementID))
			return &dto.CreateMovementResponse{MovementID: existing.MovementID, PairID: existing.PairID}, nil
		}
	}

	period, err := s.periodSvc.ResolvePeriodForDate(ctx, householdID, req.OccurredAt, actorID)
	if err != nil {
		return nil, err
	}
	if !period.Phase.AllowsMovement(flow) {
		return nil, fmt.Errorf("%w: %s flow is not accepted while the period is %s", apperrors.ErrPhaseViolation, flow, period.Phase)
	}

	now := time.Now().UTC()
	realPayer := req.RealPayerID
	if realPayer == "" {
		realPayer = req.PayerID
	}
	movement := domain.Movement{
		MovementID:     uuid.NewString(),
		PeriodID:       period.PeriodID,
		HouseholdID:    householdID,
		Type:           movementType,
		Flow:           flow,
		Amount:         req.Amount,
		CurrencyCode:   req.CurrencyCode,
		Description:    req.Description,
		Category:       req.Category,
		PayerID:        req.PayerID,
		RealPayerID:    realPayer,
		IdempotencyKey: req.IdempotencyKey,
		OccurredAt:     req.OccurredAt,
		AuditFields:    domain.NewAuditFields(actorID, now),
	}

	resp := &dto.CreateMovementResponse{MovementID: movement.MovementID}
	if req.CreatesBalancePair {
		pair := domain.NewBalancePair(movement, actorID, now)
		if err := s.movementRepo.SavePairedMovement(ctx, pair); err != nil {
			return nil, err
		}
		resp.PairID = pair.Primary.PairID
	} else {
		if err := s.movementRepo.SaveMovement(ctx, movement); err != nil {
			return nil, err
		}
	}

	s.recalculateAfterChange(ctx, householdID, period, actorID)

	logger.Info("Movement recorded",
		slog.String("movement_id", movement.MovementID),
		slog.String("type", string(movementType)),
		slog.String("period_id", period.PeriodID),
	)
	return resp, nil
}

// VoidMovement voids a movement, and its paired counterpart with it. Voiding
// an already-voided movement is a no-op.
func (s *movementService) VoidMovement(ctx context.Context, householdID, movementID, actorID string) error {
	movement, err := s.movementRepo.FindMovementByID(ctx, movementID)
	if err != nil {
		return err
	}
	if movement.HouseholdID != householdID {
		return apperrors.ErrNotFound
	}
	if movement.Voided {
		return nil
	}

	period, err := s.periodSvc.GetPeriod(ctx, householdID, movement.PeriodID)
	if err != nil {
		return err
	}
	if !period.Phase.AllowsMovement(movement.Flow) {
		return fmt.Errorf("%w: %s flow cannot be voided while the period is %s", apperrors.ErrPhaseViolation, movement.Flow, period.Phase)
	}

	now := time.Now().UTC()
	if movement.PairID != nil {
		if err := s.movementRepo.VoidPair(ctx, *movement.PairID, actorID, now); err != nil {
			return err
		}
	} else {
		tx, err := s.movementRepo.Begin(ctx)
		if err != nil {
			return err
		}
		defer s.movementRepo.Rollback(ctx, tx)
		if err := s.movementRepo.VoidMovementInTx(ctx, tx, movementID, actorID, now); err != nil {
			return err
		}
		if err := s.movementRepo.Commit(ctx, tx); err != nil {
			return err
		}
	}

	s.recalculateAfterChange(ctx, householdID, period, actorID)

	middleware.GetLoggerFromCtx(ctx).Info("Movement voided",
		slog.String("movement_id", movementID),
		slog.String("actor_id", actorID),
	)
	return nil
}

// ListMovements retrieves the live movements of a period.
func (s *movementService) ListMovements(ctx context.Context, householdID, periodID string) ([]domain.Movement, error) {
	if _, err := s.periodSvc.GetPeriod(ctx, householdID, periodID); err != nil {
		return nil, err
	}
	return s.movementRepo.FindMovementsByPeriod(ctx, periodID, false)
}

// ScanForOrphanedPairs reports balance pairs missing their live counterpart.
// Any hit means pair atomicity was broken and is logged for alerting; the
// scan itself never mutates data.
func (s *movementService) ScanForOrphanedPairs(ctx context.Context, householdID string) ([]domain.Movement, error) {
	orphans, err := s.movementRepo.FindOrphanedPairs(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if len(orphans) > 0 {
		middleware.GetLoggerFromCtx(ctx).Error("Orphaned balance pairs detected",
			slog.String("household_id", householdID),
			slog.Int("count", len(orphans)),
		)
	}
	return orphans, nil
}

// recalculateAfterChange refreshes the owning period's contribution rows.
// The movement itself is already committed; a failed refresh is logged and
// repaired by the next recalculation.
func (s *movementService) recalculateAfterChange(ctx context.Context, householdID string, period *domain.Period, actorID string) {
	if !period.Phase.AllowsRecalculation() {
		return
	}
	if _, err := s.contributionSvc.Recalculate(ctx, householdID, period.Year, period.Month, actorID); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Recalculation after movement change failed",
			slog.String("period_id", period.PeriodID),
			slog.String("error", err.Error()),
		)
	}
}
