package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edudesk/school-api/internal/middleware"
	"github.com/edudesk/school-api/internal/models"
)

// currentClaims extracts the JWT claims installed by the auth middleware.
func currentClaims(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
