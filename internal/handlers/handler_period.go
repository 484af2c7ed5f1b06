package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/dto"
	"github.com/homebalance/home_balance_app/internal/middleware"
)

// periodHandler handles HTTP requests related to period lifecycle.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

// newPeriodHandler creates a new periodHandler.
func newPeriodHandler(ps portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: ps}
}

// registerPeriodRoutes registers routes related to periods.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/households/:householdID/periods")
	{
		periods.GET("", h.listPeriods)
		periods.GET("/:periodID", h.getPeriod)
		periods.POST("/resolve", h.resolvePeriod)
		periods.POST("/:periodID/open", h.openPeriod)
		periods.POST("/:periodID/lock", h.lockPeriod)
		periods.POST("/:periodID/start-closing", h.startClosing)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
	}
}

func (h *periodHandler) listPeriods(c *gin.Context) {
	periods, err := h.periodService.ListPeriods(c.Request.Context(), c.Param("householdID"))
	if err != nil {
		respondServiceError(c, err, "Failed to list periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponses(periods))
}

func (h *periodHandler) getPeriod(c *gin.Context) {
	period, err := h.periodService.GetPeriod(c.Request.Context(), c.Param("householdID"), c.Param("periodID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// resolvePeriod finds or creates the period owning the date in the "date"
// query parameter (RFC 3339, defaults to now).
func (h *periodHandler) resolvePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}

	on := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected RFC 3339"})
			return
		}
		on = parsed
	}

	period, err := h.periodService.ResolvePeriodForDate(c.Request.Context(), c.Param("householdID"), on, actorID)
	if err != nil {
		logger.Error("Failed to resolve period", slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to resolve period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

func (h *periodHandler) openPeriod(c *gin.Context) {
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	period, err := h.periodService.OpenPeriod(c.Request.Context(), c.Param("householdID"), c.Param("periodID"), actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to open period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

func (h *periodHandler) lockPeriod(c *gin.Context) {
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	period, err := h.periodService.LockPeriod(c.Request.Context(), c.Param("householdID"), c.Param("periodID"), actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to lock period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

func (h *periodHandler) startClosing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	var req dto.StartClosingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		logger.Warn("Failed to bind JSON for StartClosing", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	period, err := h.periodService.StartClosing(c.Request.Context(), c.Param("householdID"), c.Param("periodID"), actorID, req.Reason)
	if err != nil {
		respondServiceError(c, err, "Failed to start closing period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	var req dto.ClosePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		logger.Warn("Failed to bind JSON for ClosePeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	period, err := h.periodService.ClosePeriod(c.Request.Context(), c.Param("householdID"), c.Param("periodID"), actorID, req.Notes)
	if err != nil {
		respondServiceError(c, err, "Failed to close period")
		return
	}
	logger.Info("Period closed", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

func (h *periodHandler) reopenPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	var req dto.ReopenPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReopenPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	period, err := h.periodService.ReopenPeriod(c.Request.Context(), c.Param("householdID"), c.Param("periodID"), actorID, req.Reason)
	if err != nil {
		respondServiceError(c, err, "Failed to reopen period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
