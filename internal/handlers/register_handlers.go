package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homebalance/home_balance_app/internal/apperrors"
	portssvc "github.com/homebalance/home_balance_app/internal/core/ports/services"
	"github.com/homebalance/home_balance_app/internal/middleware"
	"github.com/homebalance/home_balance_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidations()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	// The acting member's profile id is required on every v1 call; the
	// outer web layer has already authenticated it.
	v1 := r.Group("/api/v1", middleware.ProfileMiddleware())

	registerHouseholdRoutes(v1, services.Household)
	registerPeriodRoutes(v1, services.Period)
	registerMovementRoutes(v1, services.Movement)
	registerContributionRoutes(v1, services.Contribution)
	registerAdjustmentRoutes(v1, services.Adjustment)
	registerCreditRoutes(v1, services.Credit)
	registerBalanceRoutes(v1, services.Balance)
}

// respondServiceError maps service-layer errors onto HTTP statuses. The
// fallback message hides internal details from the client.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPhaseViolation):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrReopenLimitExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrIntegrity):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case apperrors.IsRetryable(err):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporary storage failure, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// actingProfileID extracts the authenticated member id set by the profile
// middleware. A missing id aborts with 401.
func actingProfileID(c *gin.Context) (string, bool) {
	profileID, ok := middleware.GetProfileIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return profileID, true
}
