package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/homebalance/home_balance_app/internal/core/domain"
	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/core/services"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type ContributionServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo       *MockPeriodRepository
	mockMovementRepo     *MockMovementRepository
	mockAdjustmentRepo   *MockAdjustmentRepository
	mockCreditRepo       *MockCreditRepository
	mockHouseholdRepo    *MockHouseholdRepository
	mockContributionRepo *MockContributionRepository
	service              portssvc.ContributionSvcFacade
	ctx                  context.Context
}

func (suite *ContributionServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockMovementRepo = new(MockMovementRepository)
	suite.mockAdjustmentRepo = new(MockAdjustmentRepository)
	suite.mockCreditRepo = new(MockCreditRepository)
	suite.mockHouseholdRepo = new(MockHouseholdRepository)
	suite.mockContributionRepo = new(MockContributionRepository)
	suite.service = services.NewContributionService(
		suite.mockPeriodRepo,
		suite.mockMovementRepo,
		suite.mockAdjustmentRepo,
		suite.mockCreditRepo,
		suite.mockHouseholdRepo,
		suite.mockContributionRepo,
	)
	suite.ctx = context.Background()
}

// input builds a calculation input with three members, declared incomes and
// an equal-split snapshot over the given goal.
func (suite *ContributionServiceTestSuite) input(goal string) domain.CalculationInput {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	return domain.CalculationInput{
		Period: domain.Period{
			PeriodID:    "period-1",
			HouseholdID: "hh-1",
			Year:        2025,
			Month:       time.March,
			Phase:       domain.PhaseActive,
		},
		Snapshot: domain.PeriodSnapshot{
			Method:      domain.MethodEqual,
			MonthlyGoal: dec(goal),
			SnapshotAt:  now,
		},
		Members: []domain.HouseholdMember{
			{HouseholdID: "hh-1", MemberID: "member-a", IsActive: true},
			{HouseholdID: "hh-1", MemberID: "member-b", IsActive: true},
			{HouseholdID: "hh-1", MemberID: "member-c", IsActive: true},
		},
		Incomes: []domain.MemberIncome{
			{MemberID: "member-a", Amount: dec("1000")},
			{MemberID: "member-b", Amount: dec("1000")},
			{MemberID: "member-c", Amount: dec("1000")},
		},
		ActorID: "member-a",
		Now:     now,
	}
}

func rowByMember(rows []domain.Contribution, memberID string) domain.Contribution {
	for _, r := range rows {
		if r.MemberID == memberID {
			return r
		}
	}
	return domain.Contribution{}
}

func (suite *ContributionServiceTestSuite) TestCalculate_EqualSplitResidualOnLastMember() {
	rows, err := suite.service.Calculate(suite.input("1000.00"))

	suite.Require().NoError(err)
	suite.Require().Len(rows, 3)
	// Members are processed in id order; the residual lands on the last.
	suite.True(rows[0].BaseExpected.Equal(dec("333.33")), rows[0].BaseExpected.String())
	suite.True(rows[1].BaseExpected.Equal(dec("333.33")), rows[1].BaseExpected.String())
	suite.True(rows[2].BaseExpected.Equal(dec("333.34")), rows[2].BaseExpected.String())

	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.BaseExpected)
		suite.Equal(domain.StatusPending, r.Status)
		suite.True(r.PaidAmount.IsZero())
		suite.True(r.PendingAmount.Equal(r.ExpectedAmount))
	}
	suite.True(sum.Equal(dec("1000.00")))
}

func (suite *ContributionServiceTestSuite) TestCalculate_ProportionalSplit() {
	input := suite.input("900.00")
	input.Snapshot.Method = domain.MethodProportional
	input.Incomes = []domain.MemberIncome{
		{MemberID: "member-a", Amount: dec("2000")},
		{MemberID: "member-b", Amount: dec("1000")},
		{MemberID: "member-c", Amount: dec("0")},
	}

	rows, err := suite.service.Calculate(input)

	suite.Require().NoError(err)
	suite.Require().Len(rows, 3)
	suite.True(rowByMember(rows, "member-a").BaseExpected.Equal(dec("600.00")))
	suite.True(rowByMember(rows, "member-b").BaseExpected.Equal(dec("300.00")))
	suite.True(rowByMember(rows, "member-c").BaseExpected.IsZero())
}

func (suite *ContributionServiceTestSuite) TestCalculate_ProportionalWithoutIncomeFallsBackToEqual() {
	input := suite.input("300.00")
	input.Snapshot.Method = domain.MethodProportional
	input.Incomes = []domain.MemberIncome{
		{MemberID: "member-a", Amount: dec("0")},
		{MemberID: "member-b", Amount: dec("0")},
		{MemberID: "member-c", Amount: dec("0")},
	}

	rows, err := suite.service.Calculate(input)

	suite.Require().NoError(err)
	for _, r := range rows {
		suite.True(r.BaseExpected.Equal(dec("100.00")), r.BaseExpected.String())
	}
}

func (suite *ContributionServiceTestSuite) TestCalculate_DirectExpenseReducesExpected() {
	input := suite.input("900.00")
	input.Movements = []domain.Movement{
		{
			MovementID: "mv-1", Type: domain.ExpenseDirect, Flow: domain.FlowDirect,
			Amount: dec("100.00"), PayerID: "member-a", RealPayerID: "member-a",
		},
	}

	rows, err := suite.service.Calculate(input)

	suite.Require().NoError(err)
	a := rowByMember(rows, "member-a")
	suite.True(a.DirectExpenses.Equal(dec("100.00")))
	suite.True(a.ExpectedAfterDirect.Equal(dec("200.00")))
	suite.True(a.ExpectedAmount.Equal(dec("200.00")))
	// Untouched members keep the full share.
	suite.True(rowByMember(rows, "member-b").ExpectedAmount.Equal(dec("300.00")))
}

func (suite *ContributionServiceTestSuite) TestCalculate_DirectExpenseFloorsAtZero() {
	input := suite.input("900.00")
	input.Movements = []domain.Movement{
		{
			MovementID: "mv-1", Type: domain.ExpenseDirect, Flow: domain.FlowDirect,
			Amount: dec("450.00"), PayerID: "member-a", RealPayerID: "member-a",
		},
	}

	rows, err := suite.service.Calculate(input)

	suite.Require().NoError(err)
	a := rowByMember(rows, "member-a")
	suite.True(a.ExpectedAfterDirect.IsZero())
	suite.False(a.ExpectedAmount.IsNegative())
}

func (suite *ContributionServiceTestSuite) TestCalculate_DirectExpenseCreditsRealPayer() {
	input := suite.input("900.00")
	input.Movements = []domain.Movement{
		{
			MovementID: "mv-1", Type: domain.ExpenseDirect, Flow: domain.FlowDirect,
			Amount: dec("50.00"), PayerID: "member-a", RealPayerID: "member-b",
		},
	}

	rows, err := suite.service.Calculate(input)

	suite.Require().NoError(err)
	suite.True(rowByMember(rows, "member-a").DirectExpenses.IsZero())
	suite.True(rowByMember(rows, "member-b").DirectExpenses.Equal(dec("50.00")))
}

func (suite *ContributionServiceTestSuite) TestCalculate_CommonIncomeCountsAsPaid() {
	input := suite.input("900.00")
	input.Movements = []domain.Movement{
		{MovementID: "mv-1", Type: domain.Income, Flow: domain.FlowCommon, Amount: dec("300.00"), PayerID: "member-a"},
		{MovementID: "mv-2", Type: domain.Income, Flow: domain.FlowCommon, Amount: dec("120.00"), PayerID: "member-b"},
	}

	rows, err := suite.service.Calculate(input)

	suite.Require().NoError(err)
	a := rowByMember(rows, "member-a")
	suite.Equal(domain.StatusPaid, a.Status)
	suite.True(a.PendingAmount.IsZero())

	b := rowByMember(rows, "member-b")
	suite.Equal(domain.StatusPartial, b.Status)
	suite.True(b.PendingAmount.Equal(dec("180.00")))

	c := rowByMember(rows, "member-c")
	suite.Equal(domain.StatusPending, c.Status)
}

func (suite *ContributionServiceTestSuite) TestCalculate_OverpaymentExcludesPending() {
	input := suite.input("900.00")
	input.Movements = []domain.Movement{
		{MovementID: "mv-1", Type: domain.Income, Flow: domain.FlowCommon, Amount: dec("450.00"), PayerID: "member-a"},
	}

	rows, err := suite.service.Calculate(input)

	suite.Require().NoError(err)
	a := rowByMember(rows, "member-a")
	suite.Equal(domain.StatusOverpaid, a.Status)
	suite.True(a.OverpaidAmount.Equal(dec("150.00")))
	suite.True(a.PendingAmount.IsZero())
}

func (suite *ContributionServiceTestSuite) TestCalculate_VoidedMovementsIgnored() {
	input := suite.input("900.00")
	input.Movements = []domain.Movement{
		{MovementID: "mv-1", Type: domain.Income, Flow: domain.FlowCommon, Amount: dec("300.00"), PayerID: "member-a", Voided: true},
	}

	rows, err := suite.service.Calculate(input)

	suite.Require().NoError(err)
	suite.True(rowByMember(rows, "member-a").PaidAmount.IsZero())
}

func (suite *ContributionServiceTestSuite) TestCalculate_OnlyApprovedAdjustmentsFoldIn() {
	input := suite.input("900.00")
	input.Adjustments = []domain.Adjustment{
		{AdjustmentID: "adj-1", MemberID: "member-a", Amount: dec("-50.00"), State: domain.AdjustmentApproved},
		{AdjustmentID: "adj-2", MemberID: "member-a", Amount: dec("-500.00"), State: domain.AdjustmentProposed},
		{AdjustmentID: "adj-3", MemberID: "member-b", Amount: dec("25.00"), State: domain.AdjustmentRejected},
	}

	rows, err := suite.service.Calculate(input)

	suite.Require().NoError(err)
	suite.True(rowByMember(rows, "member-a").ExpectedAmount.Equal(dec("250.00")))
	suite.True(rowByMember(rows, "member-b").ExpectedAmount.Equal(dec("300.00")))
}

func (suite *ContributionServiceTestSuite) TestCalculate_ReservedCreditReducesExpected() {
	input := suite.input("900.00")
	input.ReservedCredits = []domain.MemberCredit{
		{CreditID: "cr-1", MemberID: "member-a", Amount: dec("120.00"), Status: domain.CreditReserved},
	}

	rows, err := suite.service.Calculate(input)

	suite.Require().NoError(err)
	a := rowByMember(rows, "member-a")
	suite.True(a.CreditApplied.Equal(dec("120.00")))
	suite.True(a.ExpectedAmount.Equal(dec("180.00")))
}

func (suite *ContributionServiceTestSuite) TestCalculate_CreditMatchingExpectedSettlesRow() {
	input := suite.input("900.00")
	input.ReservedCredits = []domain.MemberCredit{
		{CreditID: "cr-1", MemberID: "member-a", Amount: dec("300.00"), Status: domain.CreditReserved},
	}

	rows, err := suite.service.Calculate(input)

	suite.Require().NoError(err)
	a := rowByMember(rows, "member-a")
	suite.True(a.CreditApplied.Equal(dec("300.00")))
	suite.True(a.ExpectedAmount.IsZero())
	suite.True(a.OverpaidAmount.IsZero())
	suite.Equal(domain.StatusPaid, a.Status)
}

func (suite *ContributionServiceTestSuite) TestCalculate_CreditExcessRollsIntoSurplus() {
	input := suite.input("900.00")
	input.ReservedCredits = []domain.MemberCredit{
		{CreditID: "cr-1", MemberID: "member-a", Amount: dec("500.00"), Status: domain.CreditReserved},
	}

	rows, err := suite.service.Calculate(input)

	suite.Require().NoError(err)
	a := rowByMember(rows, "member-a")
	suite.True(a.CreditApplied.Equal(dec("300.00")))
	suite.True(a.ExpectedAmount.IsZero())
	// The unapplied 200.00 lands in the overpaid amount, which the period
	// close mints as a new credit owned by the same member.
	suite.True(a.OverpaidAmount.Equal(dec("200.00")))
	suite.Equal(domain.StatusOverpaid, a.Status)
}

func (suite *ContributionServiceTestSuite) TestCalculate_MissingIncomeRowMeansPendingConfiguration() {
	input := suite.input("900.00")
	input.Incomes = input.Incomes[:2] // member-c never declared

	rows, err := suite.service.Calculate(input)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPendingConfiguration, rowByMember(rows, "member-c").Status)
	suite.Equal(domain.StatusPending, rowByMember(rows, "member-a").Status)
}

func (suite *ContributionServiceTestSuite) TestCalculate_NoMembersIsValidationError() {
	input := suite.input("900.00")
	input.Members = nil

	_, err := suite.service.Calculate(input)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ContributionServiceTestSuite) TestCalculate_DeterministicAcrossMemberOrder() {
	input := suite.input("1000.00")
	shuffled := suite.input("1000.00")
	shuffled.Members = []domain.HouseholdMember{
		input.Members[2], input.Members[0], input.Members[1],
	}

	first, err := suite.service.Calculate(input)
	suite.Require().NoError(err)
	second, err := suite.service.Calculate(shuffled)
	suite.Require().NoError(err)

	for i := range first {
		suite.Equal(first[i].MemberID, second[i].MemberID)
		suite.True(first[i].BaseExpected.Equal(second[i].BaseExpected))
	}
}

func (suite *ContributionServiceTestSuite) activePeriod() *domain.Period {
	return &domain.Period{
		PeriodID:    "period-1",
		HouseholdID: "hh-1",
		Year:        2025,
		Month:       time.March,
		Phase:       domain.PhaseActive,
		Snapshot: &domain.PeriodSnapshot{
			Method:      domain.MethodEqual,
			MonthlyGoal: dec("600.00"),
			SnapshotAt:  time.Now().UTC(),
		},
	}
}

func (suite *ContributionServiceTestSuite) TestRecalculate_PersistsRowsAndConsumesReservedCredits() {
	period := suite.activePeriod()
	suite.mockPeriodRepo.On("FindPeriodByMonth", suite.ctx, "hh-1", 2025, time.March).Return(period, nil).Once()
	suite.mockHouseholdRepo.On("ListMembers", suite.ctx, "hh-1").Return([]domain.HouseholdMember{
		{MemberID: "member-a", IsActive: true},
		{MemberID: "member-b", IsActive: true},
	}, nil).Once()
	suite.mockHouseholdRepo.On("FindIncomesForMonth", suite.ctx, "hh-1", 2025, time.March).Return([]domain.MemberIncome{
		{MemberID: "member-a", Amount: dec("1000")},
		{MemberID: "member-b", Amount: dec("1000")},
	}, nil).Once()
	suite.mockMovementRepo.On("FindMovementsByPeriod", suite.ctx, "period-1", false).Return([]domain.Movement{}, nil).Once()
	suite.mockAdjustmentRepo.On("FindAdjustmentsByPeriod", suite.ctx, "period-1").Return([]domain.Adjustment{}, nil).Once()
	suite.mockCreditRepo.On("FindReservedCreditsForMonth", suite.ctx, "hh-1", 2025, time.March).Return([]domain.MemberCredit{
		{CreditID: "cr-1", MemberID: "member-a", Amount: dec("100.00"), Status: domain.CreditReserved},
		{CreditID: "cr-2", MemberID: "member-b", Amount: dec("50.00"), Status: domain.CreditConsumed},
	}, nil).Once()

	suite.mockContributionRepo.On("Begin", suite.ctx).Return(nil, nil).Once()
	suite.mockContributionRepo.On("ReplaceContributionsInTx", suite.ctx, nil, "period-1", mock.MatchedBy(func(rows []domain.Contribution) bool {
		return len(rows) == 2
	})).Return(nil).Once()
	// Only the still-reserved credit is consumed; cr-2 already was.
	suite.mockCreditRepo.On("UpdateCreditInTx", suite.ctx, nil, mock.MatchedBy(func(cr domain.MemberCredit) bool {
		return cr.CreditID == "cr-1" && cr.Status == domain.CreditConsumed
	}), domain.CreditReserved).Return(nil).Once()
	suite.mockContributionRepo.On("Commit", suite.ctx, nil).Return(nil).Once()
	suite.mockContributionRepo.On("Rollback", suite.ctx, nil).Return(nil).Maybe()

	rows, err := suite.service.Recalculate(suite.ctx, "hh-1", 2025, time.March, "member-a")

	suite.Require().NoError(err)
	suite.Len(rows, 2)
	suite.True(rowByMember(rows, "member-a").CreditApplied.Equal(dec("100.00")))
	suite.True(rowByMember(rows, "member-b").CreditApplied.Equal(dec("50.00")))
	suite.mockContributionRepo.AssertExpectations(suite.T())
	suite.mockCreditRepo.AssertExpectations(suite.T())
}

func (suite *ContributionServiceTestSuite) TestRecalculate_ClosedPeriodIsImmutable() {
	period := suite.activePeriod()
	period.Phase = domain.PhaseClosed
	suite.mockPeriodRepo.On("FindPeriodByMonth", suite.ctx, "hh-1", 2025, time.March).Return(period, nil).Once()

	_, err := suite.service.Recalculate(suite.ctx, "hh-1", 2025, time.March, "member-a")

	suite.ErrorIs(err, apperrors.ErrPhaseViolation)
	suite.mockContributionRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *ContributionServiceTestSuite) TestGetContributions_ScopedToHousehold() {
	period := suite.activePeriod()
	suite.mockPeriodRepo.On("FindPeriodByID", suite.ctx, "period-1").Return(period, nil).Once()

	_, err := suite.service.GetContributions(suite.ctx, "other-household", "period-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockContributionRepo.AssertNotCalled(suite.T(), "FindContributionsByPeriod", mock.Anything, mock.Anything)
}

func TestContributionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ContributionServiceTestSuite))
}
