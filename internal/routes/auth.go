package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/jwt"
)

const setupTokenPurpose = "password_setup"

func AuthRoutes(r *gin.RouterGroup, services *Services) {

	r.POST("/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, NewHTTPError(http.StatusBadRequest, err, "Invalid request body"))
			return
		}

		emp, err := services.Employees.VerifyPassword(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			// Uniform response for unknown address and wrong password
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !emp.Active {
			AbortWithError(c, ErrForbidden)
			return
		}

		claim := jwt.NewAuthClaim(emp.ID, string(emp.Role))
		token, err := jwt.GenerateJWT(claim)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"employeeId": emp.ID,
			"role":       emp.Role,
			"expiresAt":  claim.ExpiresAt,
		})
	})

	// Redeem a single-use setup link and set the account password.
	r.POST("/setup-password", func(c *gin.Context) {
		var req struct {
			Token    string `json:"token" binding:"required"`
			Password string `json:"password" binding:"required,min=8"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, NewHTTPError(http.StatusBadRequest, err, "Invalid request body"))
			return
		}

		claims, err := jwt.DecodeSetupJWT(req.Token)
		if err != nil {
			AbortWithError(c, ErrInvalidToken)
			return
		}

		consumed, err := services.Store.ConsumeToken(c.Request.Context(), claims.ID, setupTokenPurpose)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !consumed {
			AbortWithError(c, ErrInvalidToken)
			return
		}

		if err := services.Employees.SetPassword(c.Request.Context(), claims.EmployeeID, req.Password); err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}
