package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	"github.com/homebalance/home_balance_app/internal/core/domain"
	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/core/services"
	"github.com/homebalance/home_balance_app/internal/dto"
)

type HouseholdServiceTestSuite struct {
	suite.Suite
	mockHouseholdRepo   *MockHouseholdRepository
	mockPeriodRepo      *MockPeriodRepository
	mockContributionSvc *MockContributionSvc
	service             portssvc.HouseholdSvcFacade
	ctx                 context.Context
}

func (suite *HouseholdServiceTestSuite) SetupTest() {
	suite.mockHouseholdRepo = new(MockHouseholdRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockContributionSvc = new(MockContributionSvc)
	suite.service = services.NewHouseholdService(suite.mockHouseholdRepo, suite.mockPeriodRepo, suite.mockContributionSvc)
	suite.ctx = context.Background()
}

func (suite *HouseholdServiceTestSuite) members() []domain.HouseholdMember {
	return []domain.HouseholdMember{
		{HouseholdID: "hh-1", MemberID: "member-a", IsActive: true},
		{HouseholdID: "hh-1", MemberID: "member-gone", IsActive: false},
	}
}

func (suite *HouseholdServiceTestSuite) incomeRequest() dto.UpsertIncomeRequest {
	return dto.UpsertIncomeRequest{
		MemberID: "member-a",
		Year:     2025,
		Month:    3,
		Amount:   dec("1800.00"),
	}
}

func (suite *HouseholdServiceTestSuite) TestUpdateSettings_ParsesMethodAndRereads() {
	updated := &domain.Household{
		HouseholdID: "hh-1",
		Settings:    domain.HouseholdSettings{Method: domain.MethodProportional, MonthlyGoal: dec("750.00")},
	}
	suite.mockHouseholdRepo.On("UpdateHouseholdSettings", suite.ctx, "hh-1",
		domain.HouseholdSettings{Method: domain.MethodProportional, MonthlyGoal: dec("750.00")},
		"member-a", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockHouseholdRepo.On("FindHouseholdByID", suite.ctx, "hh-1").Return(updated, nil).Once()

	household, err := suite.service.UpdateSettings(suite.ctx, "hh-1", dto.UpdateSettingsRequest{
		Method:      "proportional", // case-insensitive input
		MonthlyGoal: dec("750.00"),
	}, "member-a")

	suite.Require().NoError(err)
	suite.Equal(domain.MethodProportional, household.Settings.Method)
	suite.mockHouseholdRepo.AssertExpectations(suite.T())
}

func (suite *HouseholdServiceTestSuite) TestUpdateSettings_RejectsNegativeGoal() {
	_, err := suite.service.UpdateSettings(suite.ctx, "hh-1", dto.UpdateSettingsRequest{
		Method:      "EQUAL",
		MonthlyGoal: dec("-1"),
	}, "member-a")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockHouseholdRepo.AssertNotCalled(suite.T(), "UpdateHouseholdSettings",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HouseholdServiceTestSuite) TestUpsertMemberIncome_NoPeriodYetJustPersists() {
	suite.mockHouseholdRepo.On("ListMembers", suite.ctx, "hh-1").Return(suite.members(), nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByMonth", suite.ctx, "hh-1", 2025, time.March).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockHouseholdRepo.On("UpsertMemberIncome", suite.ctx, mock.MatchedBy(func(inc domain.MemberIncome) bool {
		return inc.MemberID == "member-a" && inc.Year == 2025 && inc.Month == time.March && inc.IncomeID != ""
	})).Return(nil).Once()

	err := suite.service.UpsertMemberIncome(suite.ctx, "hh-1", suite.incomeRequest(), "member-a")

	suite.Require().NoError(err)
	suite.mockContributionSvc.AssertNotCalled(suite.T(), "Recalculate",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HouseholdServiceTestSuite) TestUpsertMemberIncome_PreparingPeriodRecalculates() {
	period := &domain.Period{PeriodID: "period-1", HouseholdID: "hh-1", Year: 2025, Month: time.March, Phase: domain.PhasePreparing}
	suite.mockHouseholdRepo.On("ListMembers", suite.ctx, "hh-1").Return(suite.members(), nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByMonth", suite.ctx, "hh-1", 2025, time.March).Return(period, nil).Once()
	suite.mockHouseholdRepo.On("UpsertMemberIncome", suite.ctx, mock.AnythingOfType("domain.MemberIncome")).Return(nil).Once()
	suite.mockContributionSvc.On("Recalculate", suite.ctx, "hh-1", 2025, time.March, "member-a").
		Return([]domain.Contribution{}, nil).Once()

	err := suite.service.UpsertMemberIncome(suite.ctx, "hh-1", suite.incomeRequest(), "member-a")

	suite.Require().NoError(err)
	suite.mockContributionSvc.AssertExpectations(suite.T())
}

func (suite *HouseholdServiceTestSuite) TestUpsertMemberIncome_LockedPeriodRejects() {
	period := &domain.Period{PeriodID: "period-1", HouseholdID: "hh-1", Year: 2025, Month: time.March, Phase: domain.PhaseActive}
	suite.mockHouseholdRepo.On("ListMembers", suite.ctx, "hh-1").Return(suite.members(), nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByMonth", suite.ctx, "hh-1", 2025, time.March).Return(period, nil).Once()

	err := suite.service.UpsertMemberIncome(suite.ctx, "hh-1", suite.incomeRequest(), "member-a")

	suite.ErrorIs(err, apperrors.ErrPhaseViolation)
	suite.mockHouseholdRepo.AssertNotCalled(suite.T(), "UpsertMemberIncome", mock.Anything, mock.Anything)
}

func (suite *HouseholdServiceTestSuite) TestUpsertMemberIncome_InactiveMemberRejected() {
	req := suite.incomeRequest()
	req.MemberID = "member-gone"
	suite.mockHouseholdRepo.On("ListMembers", suite.ctx, "hh-1").Return(suite.members(), nil).Once()

	err := suite.service.UpsertMemberIncome(suite.ctx, "hh-1", req, "member-a")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *HouseholdServiceTestSuite) TestUpsertMemberIncome_RejectsNegativeAmount() {
	req := suite.incomeRequest()
	req.Amount = dec("-10.00")

	err := suite.service.UpsertMemberIncome(suite.ctx, "hh-1", req, "member-a")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestHouseholdServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HouseholdServiceTestSuite))
}
