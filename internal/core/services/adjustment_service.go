package services

import (
	"context"
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

// adjustmentService drives the propose/approve/reject/delete workflow.
// Adjustments are never physically removed; their row is the journal.
type adjustmentService struct {
	adjustmentRepo  portsrepo.AdjustmentRepositoryWithTx
	movementRepo    portsrepo.MovementRepositoryFacade
	periodRepo      portsrepo.PeriodReader
	contributionSvc portssvc.ContributionSvcFacade
}

// NewAdjustmentService creates a new AdjustmentService.
func NewAdjustmentService(
	adjustmentRepo portsrepo.AdjustmentRepositoryWithTx,
	movementRepo portsrepo.MovementRepositoryFacade,
	periodRepo portsrepo.PeriodReader,
	contributionSvc portssvc.ContributionSvcFacade,
) portssvc.AdjustmentSvcFacade {
	return &adjustmentService{
		adjustmentRepo:  adjustmentRepo,
		movementRepo:    movementRepo,
		periodRepo:      periodRepo,
		contributionSvc: contributionSvc,
	}
}

var _ portssvc.AdjustmentSvcFacade = (*adjustmentService)(nil)

// Propose creates an adjustment in the proposed state. Proposed adjustments
// do not affect expected amounts until approved.
func (s *adjustmentService) Propose(ctx context.Context, householdID string, req dto.ProposeAdjustmentRequest, actorID string) (*domain.Adjustment, error) {
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: adjustment amount must be non-zero", apperrors.ErrValidation)
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, req.PeriodID)
	if err != nil {
		return nil, err
	}
	if period.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	if period.Phase == domain.PhaseClosed {
		return nil, fmt.Errorf("%w: adjustments cannot be proposed on a closed period", apperrors.ErrPhaseViolation)
	}

	adjustment := domain.Adjustment{
		AdjustmentID: uuid.NewString(),
		PeriodID:     req.PeriodID,
		HouseholdID:  householdID,
		MemberID:     req.MemberID,
		Amount:       req.Amount,
		Type:         domain.AdjustmentType(req.Type),
		Reason:       req.Reason,
		State:        domain.AdjustmentProposed,
		AuditFields:  domain.NewAuditFields(actorID, time.Now().UTC()),
	}
	if err := s.adjustmentRepo.SaveAdjustment(ctx, adjustment); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Adjustment proposed",
		slog.String("adjustment_id", adjustment.AdjustmentID),
		slog.String("period_id", req.PeriodID),
		slog.String("member_id", req.MemberID),
	)
	return &adjustment, nil
}

// ListAdjustments retrieves a period's adjustments in all states, scoped to
// a household.
func (s *adjustmentService) ListAdjustments(ctx context.Context, householdID, periodID string) ([]domain.Adjustment, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return s.adjustmentRepo.FindAdjustmentsByPeriod(ctx, periodID)
}

// Approve folds the adjustment into the member's expected amount. Approving
// a prepayment also records its bookkeeping movement in the same atomic
// unit, linked for later removal.
func (s *adjustmentService) Approve(ctx context.Context, adjustmentID, actorID string) error {
	adjustment, period, err := s.loadForResolution(ctx, adjustmentID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	adjustment.State = domain.AdjustmentApproved
	adjustment.Touch(actorID, now)

	tx, err := s.adjustmentRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.adjustmentRepo.Rollback(ctx, tx)

	if adjustment.Type == domain.AdjustmentPrepayment {
		// Direct-flow trace of the money already fronted. It never enters
		// the common paid totals; the adjustment itself carries the
		// reduction.
		linked := domain.Movement{
			MovementID:  uuid.NewString(),
			PeriodID:    adjustment.PeriodID,
			HouseholdID: adjustment.HouseholdID,
			Type:        domain.IncomeDirect,
			Flow:        domain.FlowDirect,
			Amount:      adjustment.Amount.Abs(),
			Description: "prepayment: " + adjustment.Reason,
			PayerID:     adjustment.MemberID,
			RealPayerID: adjustment.MemberID,
			OccurredAt:  now,
			AuditFields: domain.NewAuditFields(actorID, now),
		}
		if err := s.movementRepo.SaveMovementInTx(ctx, tx, linked); err != nil {
			return fmt.Errorf("failed to record prepayment movement: %w", err)
		}
		adjustment.LinkedMovementID = &linked.MovementID
	}

	if err := s.adjustmentRepo.UpdateAdjustmentInTx(ctx, tx, *adjustment); err != nil {
		return err
	}
	if err := s.adjustmentRepo.Commit(ctx, tx); err != nil {
		return err
	}

	s.recalculate(ctx, period, actorID)
	middleware.GetLoggerFromCtx(ctx).Info("Adjustment approved",
		slog.String("adjustment_id", adjustmentID),
		slog.String("actor_id", actorID),
	)
	return nil
}

// Reject marks a proposed adjustment rejected. The reason is mandatory.
func (s *adjustmentService) Reject(ctx context.Context, adjustmentID, reason, actorID string) error {
	if reason == "" {
		return fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	adjustment, period, err := s.loadForResolution(ctx, adjustmentID)
	if err != nil {
		return err
	}

	adjustment.State = domain.AdjustmentRejected
	adjustment.RejectReason = reason
	adjustment.Touch(actorID, time.Now().UTC())

	tx, err := s.adjustmentRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.adjustmentRepo.Rollback(ctx, tx)
	if err := s.adjustmentRepo.UpdateAdjustmentInTx(ctx, tx, *adjustment); err != nil {
		return err
	}
	if err := s.adjustmentRepo.Commit(ctx, tx); err != nil {
		return err
	}

	s.recalculate(ctx, period, actorID)
	middleware.GetLoggerFromCtx(ctx).Info("Adjustment rejected",
		slog.String("adjustment_id", adjustmentID),
		slog.String("actor_id", actorID),
		slog.String("reason", reason),
	)
	return nil
}

// Delete soft-deletes an adjustment regardless of prior state, removing any
// linked movement in the same atomic unit. The row stays as the journal of
// who deleted what and when.
func (s *adjustmentService) Delete(ctx context.Context, adjustmentID, actorID string) error {
	adjustment, err := s.adjustmentRepo.FindAdjustmentByID(ctx, adjustmentID)
	if err != nil {
		return err
	}
	if adjustment.State == domain.AdjustmentDeleted {
		return nil
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, adjustment.PeriodID)
	if err != nil {
		return err
	}
	if period.Phase == domain.PhaseClosed {
		return fmt.Errorf("%w: adjustments of a closed period cannot be deleted", apperrors.ErrPhaseViolation)
	}

	now := time.Now().UTC()
	previousState := adjustment.State
	adjustment.State = domain.AdjustmentDeleted
	adjustment.Touch(actorID, now)

	tx, err := s.adjustmentRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.adjustmentRepo.Rollback(ctx, tx)

	if adjustment.LinkedMovementID != nil {
		if err := s.movementRepo.VoidMovementInTx(ctx, tx, *adjustment.LinkedMovementID, actorID, now); err != nil {
			return fmt.Errorf("failed to void linked movement: %w", err)
		}
	}
	if err := s.adjustmentRepo.UpdateAdjustmentInTx(ctx, tx, *adjustment); err != nil {
		return err
	}
	if err := s.adjustmentRepo.Commit(ctx, tx); err != nil {
		return err
	}

	s.recalculate(ctx, period, actorID)
	middleware.GetLoggerFromCtx(ctx).Warn("Adjustment deleted",
		slog.String("adjustment_id", adjustmentID),
		slog.String("previous_state", string(previousState)),
		slog.String("actor_id", actorID),
	)
	return nil
}

// loadForResolution fetches an adjustment still in the proposed state and
// verifies the owning period accepts resolutions.
func (s *adjustmentService) loadForResolution(ctx context.Context, adjustmentID string) (*domain.Adjustment, *domain.Period, error) {
	adjustment, err := s.adjustmentRepo.FindAdjustmentByID(ctx, adjustmentID)
	if err != nil {
		return nil, nil, err
	}
	if adjustment.State != domain.AdjustmentProposed {
		return nil, nil, fmt.Errorf("%w: adjustment is already %s", apperrors.ErrConflict, adjustment.State)
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, adjustment.PeriodID)
	if err != nil {
		return nil, nil, err
	}
	if !period.Phase.AllowsAdjustmentResolution() {
		return nil, nil, fmt.Errorf("%w: adjustments cannot be resolved while the period is %s", apperrors.ErrPhaseViolation, period.Phase)
	}
	return adjustment, period, nil
}

func (s *adjustmentService) recalculate(ctx context.Context, period *domain.Period, actorID string) {
	if !period.Phase.AllowsRecalculation() {
		return
	}
	if _, err := s.contributionSvc.Recalculate(ctx, period.HouseholdID, period.Year, period.Month, actorID); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Recalculation after adjustment change failed",
			slog.String("period_id", period.PeriodID),
			slog.String("error", err.Error()),
		)
	}
}
