package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/dto"
	"github.com/homebalance/home_balance_app/internal/middleware"
)

// householdHandler handles HTTP requests related to household configuration.
type householdHandler struct {
	householdService portssvc.HouseholdSvcFacade
}

// newHouseholdHandler creates a new householdHandler.
func newHouseholdHandler(hs portssvc.HouseholdSvcFacade) *householdHandler {
	return &householdHandler{householdService: hs}
}

// registerHouseholdRoutes registers routes related to households.
func registerHouseholdRoutes(rg *gin.RouterGroup, householdService portssvc.HouseholdSvcFacade) {
	h := newHouseholdHandler(householdService)

	households := rg.Group("/households/:householdID")
	{
		households.GET("", h.getHousehold)
		households.PUT("/settings", h.updateSettings)
		households.GET("/members", h.listMembers)
		households.PUT("/incomes", h.upsertIncome)
		households.GET("/savings-fund", h.getSavingsFund)
	}
}

func (h *householdHandler) getHousehold(c *gin.Context) {
	household, err := h.householdService.GetHousehold(c.Request.Context(), c.Param("householdID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve household")
		return
	}
	c.JSON(http.StatusOK, dto.ToHouseholdResponse(household))
}

func (h *householdHandler) updateSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateSettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	household, err := h.householdService.UpdateSettings(c.Request.Context(), c.Param("householdID"), req, actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to update settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToHouseholdResponse(household))
}

func (h *householdHandler) listMembers(c *gin.Context) {
	members, err := h.householdService.ListMembers(c.Request.Context(), c.Param("householdID"))
	if err != nil {
		respondServiceError(c, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponses(members))
}

func (h *householdHandler) upsertIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	var req dto.UpsertIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpsertIncome", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.householdService.UpsertMemberIncome(c.Request.Context(), c.Param("householdID"), req, actorID); err != nil {
		respondServiceError(c, err, "Failed to declare income")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *householdHandler) getSavingsFund(c *gin.Context) {
	fund, err := h.householdService.GetSavingsFund(c.Request.Context(), c.Param("householdID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve savings fund")
		return
	}
	c.JSON(http.StatusOK, dto.SavingsFundResponse{HouseholdID: fund.HouseholdID, Balance: fund.Balance})
}
