package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/homebalance/home_balance_app/internal/core/domain"
)

// --- Mock PeriodRepository ---

type MockPeriodRepository struct {
	mock.Mock
}

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.Period, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodByMonth(ctx context.Context, householdID string, year int, month time.Month) (*domain.Period, error) {
	args := m.Called(ctx, householdID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriodsByHousehold(ctx context.Context, householdID string) ([]domain.Period, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindLatestPeriodBefore(ctx context.Context, householdID string, year int, month time.Month) (*domain.Period, error) {
	args := m.Called(ctx, householdID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) SavePeriod(ctx context.Context, period domain.Period) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) FindPeriodByIDForUpdate(ctx context.Context, tx pgx.Tx, periodID string) (*domain.Period, error) {
	args := m.Called(ctx, tx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) UpdatePeriodInTx(ctx context.Context, tx pgx.Tx, period domain.Period) error {
	args := m.Called(ctx, tx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockPeriodRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockPeriodRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock MovementRepository ---

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) FindMovementByID(ctx context.Context, movementID string) (*domain.Movement, error) {
	args := m.Called(ctx, movementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindMovementsByPeriod(ctx context.Context, periodID string, includeVoided bool) ([]domain.Movement, error) {
	args := m.Called(ctx, periodID, includeVoided)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindMovementByIdempotencyKey(ctx context.Context, householdID, key string) (*domain.Movement, error) {
	args := m.Called(ctx, householdID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindOrphanedPairs(ctx context.Context, householdID string) ([]domain.Movement, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) SaveMovement(ctx context.Context, movement domain.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) SavePairedMovement(ctx context.Context, pair domain.PairedMovement) error {
	args := m.Called(ctx, pair)
	return args.Error(0)
}

func (m *MockMovementRepository) VoidPair(ctx context.Context, pairID string, actorID string, now time.Time) error {
	args := m.Called(ctx, pairID, actorID, now)
	return args.Error(0)
}

func (m *MockMovementRepository) SaveMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.Movement) error {
	args := m.Called(ctx, tx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) VoidMovementInTx(ctx context.Context, tx pgx.Tx, movementID string, actorID string, now time.Time) error {
	args := m.Called(ctx, tx, movementID, actorID, now)
	return args.Error(0)
}

func (m *MockMovementRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockMovementRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockMovementRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock ContributionRepository ---

type MockContributionRepository struct {
	mock.Mock
}

func (m *MockContributionRepository) FindContributionsByPeriod(ctx context.Context, periodID string) ([]domain.Contribution, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contribution), args.Error(1)
}

func (m *MockContributionRepository) ListContributionsByMember(ctx context.Context, householdID, memberID string) ([]domain.Contribution, error) {
	args := m.Called(ctx, householdID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contribution), args.Error(1)
}

func (m *MockContributionRepository) ListContributionsByHousehold(ctx context.Context, householdID string) ([]domain.Contribution, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contribution), args.Error(1)
}

func (m *MockContributionRepository) ReplaceContributionsInTx(ctx context.Context, tx pgx.Tx, periodID string, rows []domain.Contribution) error {
	args := m.Called(ctx, tx, periodID, rows)
	return args.Error(0)
}

func (m *MockContributionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockContributionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockContributionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock AdjustmentRepository ---

type MockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockAdjustmentRepository) FindAdjustmentByID(ctx context.Context, adjustmentID string) (*domain.Adjustment, error) {
	args := m.Called(ctx, adjustmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Adjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) FindAdjustmentsByPeriod(ctx context.Context, periodID string) ([]domain.Adjustment, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Adjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) SaveAdjustment(ctx context.Context, adjustment domain.Adjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) UpdateAdjustmentInTx(ctx context.Context, tx pgx.Tx, adjustment domain.Adjustment) error {
	args := m.Called(ctx, tx, adjustment)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockAdjustmentRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock CreditRepository ---

type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) FindCreditByID(ctx context.Context, creditID string) (*domain.MemberCredit, error) {
	args := m.Called(ctx, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberCredit), args.Error(1)
}

func (m *MockCreditRepository) ListCreditsByMember(ctx context.Context, householdID, memberID string) ([]domain.MemberCredit, error) {
	args := m.Called(ctx, householdID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemberCredit), args.Error(1)
}

func (m *MockCreditRepository) FindReservedCreditsForMonth(ctx context.Context, householdID string, year int, month time.Month) ([]domain.MemberCredit, error) {
	args := m.Called(ctx, householdID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemberCredit), args.Error(1)
}

func (m *MockCreditRepository) SaveCreditsInTx(ctx context.Context, tx pgx.Tx, credits []domain.MemberCredit) error {
	args := m.Called(ctx, tx, credits)
	return args.Error(0)
}

func (m *MockCreditRepository) UpdateCreditInTx(ctx context.Context, tx pgx.Tx, credit domain.MemberCredit, expectedStatus domain.CreditStatus) error {
	args := m.Called(ctx, tx, credit, expectedStatus)
	return args.Error(0)
}

func (m *MockCreditRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockCreditRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCreditRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock HouseholdRepository ---

type MockHouseholdRepository struct {
	mock.Mock
}

func (m *MockHouseholdRepository) FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Household), args.Error(1)
}

func (m *MockHouseholdRepository) ListMembers(ctx context.Context, householdID string) ([]domain.HouseholdMember, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HouseholdMember), args.Error(1)
}

func (m *MockHouseholdRepository) FindIncomesForMonth(ctx context.Context, householdID string, year int, month time.Month) ([]domain.MemberIncome, error) {
	args := m.Called(ctx, householdID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemberIncome), args.Error(1)
}

func (m *MockHouseholdRepository) GetSavingsFund(ctx context.Context, householdID string) (*domain.SavingsFund, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsFund), args.Error(1)
}

func (m *MockHouseholdRepository) SaveHousehold(ctx context.Context, household domain.Household) error {
	args := m.Called(ctx, household)
	return args.Error(0)
}

func (m *MockHouseholdRepository) AddMember(ctx context.Context, member domain.HouseholdMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockHouseholdRepository) UpdateHouseholdSettings(ctx context.Context, householdID string, settings domain.HouseholdSettings, actorID string, now time.Time) error {
	args := m.Called(ctx, householdID, settings, actorID, now)
	return args.Error(0)
}

func (m *MockHouseholdRepository) UpsertMemberIncome(ctx context.Context, income domain.MemberIncome) error {
	args := m.Called(ctx, income)
	return args.Error(0)
}

func (m *MockHouseholdRepository) AddToSavingsFundInTx(ctx context.Context, tx pgx.Tx, householdID string, amount decimal.Decimal, actorID string, now time.Time) error {
	args := m.Called(ctx, tx, householdID, amount, actorID, now)
	return args.Error(0)
}

func (m *MockHouseholdRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockHouseholdRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockHouseholdRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock ContributionSvc ---

type MockContributionSvc struct {
	mock.Mock
}

func (m *MockContributionSvc) Calculate(input domain.CalculationInput) ([]domain.Contribution, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contribution), args.Error(1)
}

func (m *MockContributionSvc) Recalculate(ctx context.Context, householdID string, year int, month time.Month, actorID string) ([]domain.Contribution, error) {
	args := m.Called(ctx, householdID, year, month, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contribution), args.Error(1)
}

func (m *MockContributionSvc) GetContributions(ctx context.Context, householdID, periodID string) ([]domain.Contribution, error) {
	args := m.Called(ctx, householdID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contribution), args.Error(1)
}

// --- Mock PeriodSvc ---

type MockPeriodSvc struct {
	mock.Mock
}

func (m *MockPeriodSvc) GetPeriod(ctx context.Context, householdID, periodID string) (*domain.Period, error) {
	args := m.Called(ctx, householdID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodSvc) ListPeriods(ctx context.Context, householdID string) ([]domain.Period, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Period), args.Error(1)
}

func (m *MockPeriodSvc) ResolvePeriodForDate(ctx context.Context, householdID string, on time.Time, actorID string) (*domain.Period, error) {
	args := m.Called(ctx, householdID, on, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodSvc) OpenPeriod(ctx context.Context, householdID, periodID, actorID string) (*domain.Period, error) {
	args := m.Called(ctx, householdID, periodID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodSvc) LockPeriod(ctx context.Context, householdID, periodID, actorID string) (*domain.Period, error) {
	args := m.Called(ctx, householdID, periodID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodSvc) StartClosing(ctx context.Context, householdID, periodID, actorID, reason string) (*domain.Period, error) {
	args := m.Called(ctx, householdID, periodID, actorID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodSvc) ClosePeriod(ctx context.Context, householdID, periodID, actorID, notes string) (*domain.Period, error) {
	args := m.Called(ctx, householdID, periodID, actorID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodSvc) ReopenPeriod(ctx context.Context, householdID, periodID, actorID, reason string) (*domain.Period, error) {
	args := m.Called(ctx, householdID, periodID, actorID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}
