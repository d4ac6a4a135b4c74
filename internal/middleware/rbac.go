package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
)

// RequireRoles enforces role-based access control for routes.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			abortWith(c, appErrors.ErrUnauthorized)
			return
		}
		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok {
			abortWith(c, appErrors.ErrUnauthorized)
			return
		}

		if _, ok := allowed[claims.Role]; !ok {
			abortWith(c, appErrors.ErrForbidden)
			return
		}

		c.Next()
	}
}
