package services

import (
	"context"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	"github.com/homebalance/home_balance_app/internal/dto"
)

// HouseholdSvcFacade manages household settings, members and incomes.
type HouseholdSvcFacade interface {
	// GetHousehold retrieves a household with its live settings.
	GetHousehold(ctx context.Context, householdID string) (*domain.Household, error)

	// UpdateSettings writes the live contribution configuration. Periods
	// locked before the change keep their snapshot.
	UpdateSettings(ctx context.Context, householdID string, req dto.UpdateSettingsRequest, actorID string) (*domain.Household, error)

	// UpsertMemberIncome declares a member's income for one month and
	// recalculates the owning period if it exists and is still mutable.
	UpsertMemberIncome(ctx context.Context, householdID string, req dto.UpsertIncomeRequest, actorID string) error

	// ListMembers retrieves a household's members.
	ListMembers(ctx context.Context, householdID string) ([]domain.HouseholdMember, error)

	// GetSavingsFund retrieves the household's savings fund balance.
	GetSavingsFund(ctx context.Context, householdID string) (*domain.SavingsFund, error)
}
