package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/dto"
	"github.com/homebalance/home_balance_app/internal/middleware"
)

// adjustmentHandler handles HTTP requests for the adjustment workflow.
type adjustmentHandler struct {
	adjustmentService portssvc.AdjustmentSvcFacade
}

// newAdjustmentHandler creates a new adjustmentHandler.
func newAdjustmentHandler(as portssvc.AdjustmentSvcFacade) *adjustmentHandler {
	return &adjustmentHandler{adjustmentService: as}
}

// registerAdjustmentRoutes registers routes related to adjustments.
func registerAdjustmentRoutes(rg *gin.RouterGroup, adjustmentService portssvc.AdjustmentSvcFacade) {
	h := newAdjustmentHandler(adjustmentService)

	household := rg.Group("/households/:householdID")
	{
		household.POST("/adjustments", h.proposeAdjustment)
		household.GET("/periods/:periodID/adjustments", h.listAdjustments)
		household.POST("/adjustments/:adjustmentID/approve", h.approveAdjustment)
		household.POST("/adjustments/:adjustmentID/reject", h.rejectAdjustment)
		household.DELETE("/adjustments/:adjustmentID", h.deleteAdjustment)
	}
}

func (h *adjustmentHandler) proposeAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	var req dto.ProposeAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProposeAdjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adjustment, err := h.adjustmentService.Propose(c.Request.Context(), c.Param("householdID"), req, actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to propose adjustment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAdjustmentResponse(adjustment))
}

func (h *adjustmentHandler) listAdjustments(c *gin.Context) {
	adjustments, err := h.adjustmentService.ListAdjustments(c.Request.Context(), c.Param("householdID"), c.Param("periodID"))
	if err != nil {
		respondServiceError(c, err, "Failed to list adjustments")
		return
	}
	out := make([]dto.AdjustmentResponse, len(adjustments))
	for i := range adjustments {
		out[i] = dto.ToAdjustmentResponse(&adjustments[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *adjustmentHandler) approveAdjustment(c *gin.Context) {
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	if err := h.adjustmentService.Approve(c.Request.Context(), c.Param("adjustmentID"), actorID); err != nil {
		respondServiceError(c, err, "Failed to approve adjustment")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *adjustmentHandler) rejectAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	var req dto.RejectAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectAdjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.adjustmentService.Reject(c.Request.Context(), c.Param("adjustmentID"), req.Reason, actorID); err != nil {
		respondServiceError(c, err, "Failed to reject adjustment")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *adjustmentHandler) deleteAdjustment(c *gin.Context) {
	actorID, ok := actingProfileID(c)
	if !ok {
		return
	}
	if err := h.adjustmentService.Delete(c.Request.Context(), c.Param("adjustmentID"), actorID); err != nil {
		respondServiceError(c, err, "Failed to delete adjustment")
		return
	}
	c.Status(http.StatusNoContent)
}
