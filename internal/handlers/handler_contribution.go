package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/dto"
)

// contributionHandler handles HTTP requests related to contribution rows.
type contributionHandler struct {
	contributionService portssvc.ContributionSvcFacade
}

// newContributionHandler creates a new contributionHandler.
func newContributionHandler(cs portssvc.ContributionSvcFacade) *contributionHandler {
	return &contributionHandler{contributionService: cs}
}

// registerContributionRoutes registers routes related to contributions.
func registerContributionRoutes(rg *gin.RouterGroup, contributionService portssvc.ContributionSvcFacade) {
	h := newContributionHandler(contributionService)

	household := rg.Group("/households/:householdID")
	{
		household.GET("/periods/:periodID/contributions", h.getContributions)
		household.POST("/contributions/recalculate", h.recalculate)
	}
}

func (h *contributionHandler) getContributions(c *gin.Context) {
	rows, err := h.contributionService.GetContributions(c.Request.Context(), c.Param("householdID"), c.Param("periodID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve contributions")
		return
	}
	c.JSON(http.StatusOK, dto.ToContributionResponses(rows))
}

// recalculate recomputes one month's contribution rows. Year and month come
// as query parameters.
func (h *contributionHandler) recalculate(c *gin.Context) {
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
		return
	}

	rows, err := h.contributionService.Recalculate(c.Request.Context(), c.Param("householdID"), year, time.Month(month), actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to recalculate contributions")
		return
	}
	c.JSON(http.StatusOK, dto.ToContributionResponses(rows))
}
