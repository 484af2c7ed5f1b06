package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/homebalance/home_balance_app/internal/core/domain"
	portsrepo "github.com/homebalance/home_balance_app/internal/core/ports/repositories"
	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/middleware"
)

// creditService applies a member's monthly decisions to accumulated credits.
// Every status change is a compare-and-set, so a double decision loses
// cleanly instead of landing twice.
type creditService struct {
	creditRepo    portsrepo.CreditRepositoryWithTx
	householdRepo portsrepo.HouseholdRepositoryFacade
}

// NewCreditService creates a new CreditService.
func NewCreditService(creditRepo portsrepo.CreditRepositoryWithTx, householdRepo portsrepo.HouseholdRepositoryFacade) portssvc.CreditSvcFacade {
	return &creditService{creditRepo: creditRepo, householdRepo: householdRepo}
}

var _ portssvc.CreditSvcFacade = (*creditService)(nil)

// DecideCredit applies one of the monthly decisions to a credit owned by the
// acting member.
func (s *creditService) DecideCredit(ctx context.Context, creditID string, decision domain.CreditDecision, actorID string) (string, error) {
	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		return "", err
	}
	if credit.MemberID != actorID {
		return "", fmt.Errorf("%w: only the credit owner can decide its fate", apperrors.ErrForbidden)
	}

	now := time.Now().UTC()
	var message string
	switch decision {
	case domain.DecisionApplyNextMonth:
		message, err = s.reserveForNextMonth(ctx, credit, actorID, now)
	case domain.DecisionKeepActive:
		message, err = s.keepActive(ctx, credit, actorID, now)
	case domain.DecisionTransferSavings:
		message, err = s.transferToSavings(ctx, credit, actorID, now)
	default:
		return "", fmt.Errorf("%w: unknown credit decision %q", apperrors.ErrValidation, decision)
	}
	if err != nil {
		return "", err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Credit decision applied",
		slog.String("credit_id", creditID),
		slog.String("decision", string(decision)),
		slog.String("actor_id", actorID),
	)
	return message, nil
}

// reserveForNextMonth moves an active credit to reserved, targeting the
// month after its source. A credit can be reserved for at most one future
// period at a time.
func (s *creditService) reserveForNextMonth(ctx context.Context, credit *domain.MemberCredit, actorID string, now time.Time) (string, error) {
	if credit.Status != domain.CreditActive {
		return "", fmt.Errorf("%w: only an active credit can be reserved, status is %s", apperrors.ErrConflict, credit.Status)
	}

	credit.Status = domain.CreditReserved
	credit.ReservedAt = &now
	credit.MonthlyDecision = domain.DecisionApplyNextMonth
	credit.Touch(actorID, now)

	if err := s.updateWithCAS(ctx, *credit, domain.CreditActive); err != nil {
		return "", err
	}

	year, month := credit.TargetMonth()
	return fmt.Sprintf("Credit of %s reserved for %d-%02d", credit.Amount.StringFixed(2), year, int(month)), nil
}

// keepActive records the explicit decision to hold the credit, releasing a
// prior reservation if one exists.
func (s *creditService) keepActive(ctx context.Context, credit *domain.MemberCredit, actorID string, now time.Time) (string, error) {
	expected := credit.Status
	switch credit.Status {
	case domain.CreditActive:
		// Decision restated; nothing to release.
	case domain.CreditReserved:
		credit.ReservedAt = nil
	default:
		return "", fmt.Errorf("%w: a %s credit can no longer be kept, it is settled", apperrors.ErrConflict, credit.Status)
	}

	credit.Status = domain.CreditActive
	credit.MonthlyDecision = domain.DecisionKeepActive
	credit.Touch(actorID, now)

	if err := s.updateWithCAS(ctx, *credit, expected); err != nil {
		return "", err
	}
	return fmt.Sprintf("Credit of %s kept active", credit.Amount.StringFixed(2)), nil
}

// transferToSavings settles the credit into the household savings fund. The
// status change and the fund increment land in one atomic unit.
func (s *creditService) transferToSavings(ctx context.Context, credit *domain.MemberCredit, actorID string, now time.Time) (string, error) {
	if credit.Status != domain.CreditActive {
		return "", fmt.Errorf("%w: only an active credit can be transferred, status is %s", apperrors.ErrConflict, credit.Status)
	}

	credit.Status = domain.CreditTransferred
	credit.MonthlyDecision = domain.DecisionTransferSavings
	credit.Touch(actorID, now)

	tx, err := s.creditRepo.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer s.creditRepo.Rollback(ctx, tx)

	if err := s.creditRepo.UpdateCreditInTx(ctx, tx, *credit, domain.CreditActive); err != nil {
		return "", err
	}
	if err := s.householdRepo.AddToSavingsFundInTx(ctx, tx, credit.HouseholdID, credit.Amount, actorID, now); err != nil {
		return "", fmt.Errorf("failed to credit savings fund: %w", err)
	}
	if err := s.creditRepo.Commit(ctx, tx); err != nil {
		return "", err
	}
	return fmt.Sprintf("Credit of %s transferred to the savings fund", credit.Amount.StringFixed(2)), nil
}

// updateWithCAS wraps a single guarded credit write in its own transaction.
func (s *creditService) updateWithCAS(ctx context.Context, credit domain.MemberCredit, expected domain.CreditStatus) error {
	tx, err := s.creditRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.creditRepo.Rollback(ctx, tx)
	if err := s.creditRepo.UpdateCreditInTx(ctx, tx, credit, expected); err != nil {
		return err
	}
	return s.creditRepo.Commit(ctx, tx)
}

// ListCredits retrieves a member's credits in a household.
func (s *creditService) ListCredits(ctx context.Context, householdID, memberID string) ([]domain.MemberCredit, error) {
	return s.creditRepo.ListCreditsByMember(ctx, householdID, memberID)
}
