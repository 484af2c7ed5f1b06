package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/homebalance/home_balance_app/internal/core/domain"
	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/core/services"
)

type BalanceServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo       *MockPeriodRepository
	mockContributionRepo *MockContributionRepository
	service              portssvc.BalanceSvcFacade
	ctx                  context.Context
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockContributionRepo = new(MockContributionRepository)
	suite.service = services.NewBalanceService(suite.mockPeriodRepo, suite.mockContributionRepo)
	suite.ctx = context.Background()
}

func (suite *BalanceServiceTestSuite) periods() []domain.Period {
	return []domain.Period{
		{PeriodID: "p-jan", HouseholdID: "hh-1", Year: 2025, Month: time.January, Phase: domain.PhaseClosed},
		{PeriodID: "p-feb", HouseholdID: "hh-1", Year: 2025, Month: time.February, Phase: domain.PhaseClosed},
		{PeriodID: "p-mar", HouseholdID: "hh-1", Year: 2025, Month: time.March, Phase: domain.PhaseActive},
		{PeriodID: "p-apr", HouseholdID: "hh-1", Year: 2025, Month: time.April, Phase: domain.PhasePreparing},
	}
}

func (suite *BalanceServiceTestSuite) TestGetMemberBalanceHistory_FoldsCountingPeriodsOnly() {
	suite.mockPeriodRepo.On("ListPeriodsByHousehold", suite.ctx, "hh-1").Return(suite.periods(), nil).Once()
	suite.mockContributionRepo.On("ListContributionsByMember", suite.ctx, "hh-1", "member-a").Return([]domain.Contribution{
		{PeriodID: "p-jan", MemberID: "member-a", OverpaidAmount: dec("50.00"), PendingAmount: dec("0")},
		{PeriodID: "p-feb", MemberID: "member-a", OverpaidAmount: dec("0"), PendingAmount: dec("20.00")},
		{PeriodID: "p-mar", MemberID: "member-a", OverpaidAmount: dec("0"), PendingAmount: dec("10.00")},
		// Preparing-phase rows are provisional and must not count.
		{PeriodID: "p-apr", MemberID: "member-a", OverpaidAmount: dec("999.00"), PendingAmount: dec("0")},
	}, nil).Once()

	resp, err := suite.service.GetMemberBalanceHistory(suite.ctx, "hh-1", "member-a")

	suite.Require().NoError(err)
	suite.Require().Len(resp.History, 3)
	suite.True(resp.History[0].RunningBalance.Equal(dec("50.00")))
	suite.True(resp.History[1].RunningBalance.Equal(dec("30.00")))
	suite.True(resp.History[2].RunningBalance.Equal(dec("20.00")))
	suite.True(resp.CurrentBalance.Equal(dec("20.00")))
}

func (suite *BalanceServiceTestSuite) TestGetMemberBalanceHistory_SkipsPeriodsWithoutRow() {
	suite.mockPeriodRepo.On("ListPeriodsByHousehold", suite.ctx, "hh-1").Return(suite.periods(), nil).Once()
	suite.mockContributionRepo.On("ListContributionsByMember", suite.ctx, "hh-1", "member-late").Return([]domain.Contribution{
		{PeriodID: "p-feb", MemberID: "member-late", OverpaidAmount: dec("0"), PendingAmount: dec("15.00")},
	}, nil).Once()

	resp, err := suite.service.GetMemberBalanceHistory(suite.ctx, "hh-1", "member-late")

	suite.Require().NoError(err)
	suite.Require().Len(resp.History, 1)
	suite.True(resp.CurrentBalance.Equal(dec("-15.00")))
}

func (suite *BalanceServiceTestSuite) TestGetHouseholdBalances_SumsAllMembers() {
	suite.mockPeriodRepo.On("ListPeriodsByHousehold", suite.ctx, "hh-1").Return(suite.periods(), nil).Once()
	suite.mockContributionRepo.On("ListContributionsByHousehold", suite.ctx, "hh-1").Return([]domain.Contribution{
		{PeriodID: "p-jan", MemberID: "member-a", OverpaidAmount: dec("50.00"), PendingAmount: dec("0")},
		{PeriodID: "p-jan", MemberID: "member-b", OverpaidAmount: dec("0"), PendingAmount: dec("50.00")},
	}, nil).Once()

	resp, err := suite.service.GetHouseholdBalances(suite.ctx, "hh-1")

	suite.Require().NoError(err)
	suite.True(resp.Balances["member-a"].Equal(dec("50.00")))
	suite.True(resp.Balances["member-b"].Equal(dec("-50.00")))
	suite.True(resp.Sum.IsZero())
}

func (suite *BalanceServiceTestSuite) TestVerifyHouseholdBalance_ClosedPeriodsCancelOut() {
	suite.mockPeriodRepo.On("ListPeriodsByHousehold", suite.ctx, "hh-1").Return(suite.periods(), nil).Once()
	suite.mockContributionRepo.On("ListContributionsByHousehold", suite.ctx, "hh-1").Return([]domain.Contribution{
		{PeriodID: "p-jan", MemberID: "member-a", OverpaidAmount: dec("50.00"), PendingAmount: dec("0")},
		{PeriodID: "p-jan", MemberID: "member-b", OverpaidAmount: dec("0"), PendingAmount: dec("50.00")},
		// Active-period drift is expected mid-month and must not fail
		// verification.
		{PeriodID: "p-mar", MemberID: "member-a", OverpaidAmount: dec("0"), PendingAmount: dec("300.00")},
	}, nil).Once()

	sum, err := suite.service.VerifyHouseholdBalance(suite.ctx, "hh-1")

	suite.Require().NoError(err)
	suite.True(sum.IsZero())
}

func (suite *BalanceServiceTestSuite) TestVerifyHouseholdBalance_ToleratesRoundingResidue() {
	suite.mockPeriodRepo.On("ListPeriodsByHousehold", suite.ctx, "hh-1").Return(suite.periods(), nil).Once()
	suite.mockContributionRepo.On("ListContributionsByHousehold", suite.ctx, "hh-1").Return([]domain.Contribution{
		{PeriodID: "p-jan", MemberID: "member-a", OverpaidAmount: dec("0.01"), PendingAmount: dec("0")},
	}, nil).Once()

	_, err := suite.service.VerifyHouseholdBalance(suite.ctx, "hh-1")

	suite.Require().NoError(err)
}

func (suite *BalanceServiceTestSuite) TestVerifyHouseholdBalance_DriftIsIntegrityError() {
	suite.mockPeriodRepo.On("ListPeriodsByHousehold", suite.ctx, "hh-1").Return(suite.periods(), nil).Once()
	suite.mockContributionRepo.On("ListContributionsByHousehold", suite.ctx, "hh-1").Return([]domain.Contribution{
		{PeriodID: "p-jan", MemberID: "member-a", OverpaidAmount: dec("75.00"), PendingAmount: dec("0")},
		{PeriodID: "p-jan", MemberID: "member-b", OverpaidAmount: dec("0"), PendingAmount: dec("50.00")},
	}, nil).Once()

	sum, err := suite.service.VerifyHouseholdBalance(suite.ctx, "hh-1")

	suite.ErrorIs(err, apperrors.ErrIntegrity)
	suite.True(sum.Equal(dec("25.00")))
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
