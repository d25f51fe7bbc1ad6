package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/service/auth"
)

const userIDKey = "user_id"

// AuthRequired validates the bearer token and injects the caller's user id
// into the request context. Handlers pass that id explicitly into the
// services; nothing below this middleware reads ambient auth state.
func AuthRequired(service auth.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		userID, err := service.Authenticate(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
