package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// profileIDKey is the key used to store the acting member's profile ID in the
// Gin context. Using a custom type prevents collisions.
const profileIDKey = contextKey("profileID")

// profileIDHeader is set by the authenticating front layer; this service
// trusts it and only requires its presence.
const profileIDHeader = "X-Profile-ID"

// ProfileMiddleware extracts the acting member's profile ID from the request
// and rejects requests without one. Authentication itself is handled by the
// outer web layer.
func ProfileMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := c.GetHeader(profileIDHeader)
		if profileID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing " + profileIDHeader + " header"})
			return
		}
		c.Set(string(profileIDKey), profileID)
		c.Next()
	}
}

// GetProfileIDFromContext retrieves the acting member's profile ID from the
// Gin context. It returns the ID and a boolean indicating if it was found.
func GetProfileIDFromContext(c *gin.Context) (string, bool) {
	profileIDVal, exists := c.Get(string(profileIDKey))
	if !exists {
		return "", false
	}

	profileID, ok := profileIDVal.(string)
	if !ok {
		return "", false
	}

	return profileID, true
}
