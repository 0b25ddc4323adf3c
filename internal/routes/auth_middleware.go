package routes

import (
	"strings"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/access"
	"attendance-backend/internal/jwt"
)

const (
	ctxEmployeeID = "EmployeeID"
	ctxRole       = "Role"
)

// RequireAuth validates the bearer token and stores the acting identity on
// the context. Handlers pass it on to the services explicitly.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := jwt.DecodeAuthJWT(token)
		if err != nil {
			AbortWithError(c, ErrInvalidToken)
			return
		}

		c.Set(ctxEmployeeID, claims.EmployeeID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequirePermission gates a route on the RBAC policy.
func RequirePermission(rbac *access.RBAC, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxRole)
		if !rbac.Can(role, resource, action) {
			AbortWithError(c, ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// ActingEmployeeID returns the authenticated employee id set by RequireAuth.
func ActingEmployeeID(c *gin.Context) string {
	return c.GetString(ctxEmployeeID)
}
