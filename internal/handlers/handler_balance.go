package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
)

// balanceHandler handles HTTP requests for cross-period balances.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

// newBalanceHandler creates a new balanceHandler.
func newBalanceHandler(bs portssvc.BalanceSvcFacade) *balanceHandler {
	return &balanceHandler{balanceService: bs}
}

// registerBalanceRoutes registers routes related to balances.
func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := newBalanceHandler(balanceService)

	household := rg.Group("/households/:householdID")
	{
		household.GET("/balances", h.getHouseholdBalances)
		household.GET("/balances/verify", h.verifyHouseholdBalance)
		household.GET("/members/:memberID/balance", h.getMemberBalance)
	}
}

func (h *balanceHandler) getHouseholdBalances(c *gin.Context) {
	resp, err := h.balanceService.GetHouseholdBalances(c.Request.Context(), c.Param("householdID"))
	if err != nil {
		respondServiceError(c, err, "Failed to compute balances")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *balanceHandler) getMemberBalance(c *gin.Context) {
	resp, err := h.balanceService.GetMemberBalanceHistory(c.Request.Context(), c.Param("householdID"), c.Param("memberID"))
	if err != nil {
		respondServiceError(c, err, "Failed to compute member balance")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// verifyHouseholdBalance runs the balance-zero check over closed periods.
// An invariant violation reports the drift rather than a bare 500.
func (h *balanceHandler) verifyHouseholdBalance(c *gin.Context) {
	sum, err := h.balanceService.VerifyHouseholdBalance(c.Request.Context(), c.Param("householdID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrIntegrity) {
			c.JSON(http.StatusConflict, gin.H{"consistent": false, "sum": sum})
			return
		}
		respondServiceError(c, err, "Failed to verify balances")
		return
	}
	c.JSON(http.StatusOK, gin.H{"consistent": true, "sum": sum})
}
