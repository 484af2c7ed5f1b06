package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/dto"
	"github.com/homebalance/home_balance_app/internal/middleware"
)

// movementHandler handles HTTP requests related to money movements.
type movementHandler struct {
	movementService portssvc.MovementSvcFacade
}

// newMovementHandler creates a new movementHandler.
func newMovementHandler(ms portssvc.MovementSvcFacade) *movementHandler {
	return &movementHandler{movementService: ms}
}

// registerMovementRoutes registers routes related to movements.
func registerMovementRoutes(rg *gin.RouterGroup, movementService portssvc.MovementSvcFacade) {
	h := newMovementHandler(movementService)

	household := rg.Group("/households/:householdID")
	{
		household.POST("/movements", h.createMovement)
		household.POST("/movements/:movementID/void", h.voidMovement)
		household.GET("/movements/orphan-scan", h.scanOrphanedPairs)
		household.GET("/periods/:periodID/movements", h.listMovements)
	}
}

func (h *movementHandler) createMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	var req dto.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.movementService.ClassifyAndRecord(c.Request.Context(), c.Param("householdID"), req, actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to record movement")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *movementHandler) voidMovement(c *gin.Context) {
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	err := h.movementService.VoidMovement(c.Request.Context(), c.Param("householdID"), c.Param("movementID"), actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to void movement")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *movementHandler) listMovements(c *gin.Context) {
	movements, err := h.movementService.ListMovements(c.Request.Context(), c.Param("householdID"), c.Param("periodID"))
	if err != nil {
		respondServiceError(c, err, "Failed to list movements")
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponses(movements))
}

func (h *movementHandler) scanOrphanedPairs(c *gin.Context) {
	orphans, err := h.movementService.ScanForOrphanedPairs(c.Request.Context(), c.Param("householdID"))
	if err != nil {
		respondServiceError(c, err, "Failed to scan for orphaned pairs")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"consistent": len(orphans) == 0,
		"orphans":    dto.ToMovementResponses(orphans),
	})
}
