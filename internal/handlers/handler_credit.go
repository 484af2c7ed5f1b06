package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homebalance/home_balance_app/internal/core/domain"
	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/dto"
	"github.com/homebalance/home_balance_app/internal/middleware"
)

// creditHandler handles HTTP requests related to member credits.
type creditHandler struct {
	creditService portssvc.CreditSvcFacade
}

// newCreditHandler creates a new creditHandler.
func newCreditHandler(cs portssvc.CreditSvcFacade) *creditHandler {
	return &creditHandler{creditService: cs}
}

// registerCreditRoutes registers routes related to credits.
func registerCreditRoutes(rg *gin.RouterGroup, creditService portssvc.CreditSvcFacade) {
	h := newCreditHandler(creditService)

	household := rg.Group("/households/:householdID")
	{
		// A member only sees and decides their own credits.
		household.GET("/credits", h.listOwnCredits)
		household.POST("/credits/:creditID/decision", h.decideCredit)
	}
}

func (h *creditHandler) listOwnCredits(c *gin.Context) {
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	credits, err := h.creditService.ListCredits(c.Request.Context(), c.Param("householdID"), actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to list credits")
		return
	}
	c.JSON(http.StatusOK, dto.ToCreditResponses(credits))
}

func (h *creditHandler) decideCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	var req dto.DecideCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DecideCredit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	decision, err := domain.ParseCreditDecision(req.Decision)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.creditService.DecideCredit(c.Request.Context(), c.Param("creditID"), decision, actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to apply credit decision")
		return
	}
	c.JSON(http.StatusOK, dto.DecideCreditResponse{Message: message})
}
