package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/config"
	"attendance-backend/internal/jwt"
	"attendance-backend/internal/storage"
)

type employeeResponse struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Email    string               `json:"email"`
	Contact  string               `json:"contact"`
	Role     storage.EmployeeRole `json:"role"`
	Position *string              `json:"position"`
	Address  string               `json:"address"`
	Active   bool                 `json:"active"`
}

func toEmployeeResponse(e *storage.Employee) employeeResponse {
	return employeeResponse{
		ID:       e.ID,
		Name:     e.Name,
		Email:    e.Email,
		Contact:  e.Contact,
		Role:     e.Role,
		Position: e.Position,
		Address:  e.Address,
		Active:   e.Active,
	}
}

func EmployeeRoutes(r *gin.RouterGroup, services *Services) {

	r.GET("/me", func(c *gin.Context) {
		emp, err := services.Employees.ResolveByID(c.Request.Context(), ActingEmployeeID(c))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, toEmployeeResponse(emp))
	})

	manage := r.Group("")
	manage.Use(RequirePermission(services.RBAC, "employee", "manage"))

	manage.POST("", func(c *gin.Context) {
		var req struct {
			Name     string  `json:"name" binding:"required"`
			Email    string  `json:"email" binding:"required,email"`
			Contact  string  `json:"contact"`
			Role     string  `json:"role" binding:"required,oneof=ADMIN HR EMPLOYEE"`
			Position *string `json:"position"`
			Address  string  `json:"address"`
			Password string  `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, NewHTTPError(http.StatusBadRequest, err, "Invalid request body"))
			return
		}

		emp, err := services.Employees.Create(c.Request.Context(), storage.Employee{
			Name:     req.Name,
			Email:    req.Email,
			Contact:  req.Contact,
			Role:     storage.EmployeeRole(req.Role),
			Position: req.Position,
			Address:  req.Address,
		}, req.Password)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toEmployeeResponse(emp))
	})

	manage.GET("", func(c *gin.Context) {
		employees, err := services.Employees.List(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}

		responses := make([]employeeResponse, len(employees))
		for i := range employees {
			responses[i] = toEmployeeResponse(&employees[i])
		}
		c.JSON(http.StatusOK, responses)
	})

	manage.GET("/:id", func(c *gin.Context) {
		emp, err := services.Employees.ResolveByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, toEmployeeResponse(emp))
	})

	manage.POST("/:id/activate", func(c *gin.Context) {
		if err := services.Employees.SetActive(c.Request.Context(), c.Param("id"), true); err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	manage.POST("/:id/deactivate", func(c *gin.Context) {
		if err := services.Employees.SetActive(c.Request.Context(), c.Param("id"), false); err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// Issue a single-use password setup token. The jti goes into the token
	// store so redemption can invalidate the link.
	manage.POST("/:id/setup-link", func(c *gin.Context) {
		emp, err := services.Employees.ResolveByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		claim := jwt.NewSetupClaim(emp.ID)
		token, err := jwt.GenerateJWT(claim)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		expiresAt := time.Now().UTC().Add(time.Duration(config.Cfg.SetupTokenTTL) * time.Minute)
		if err := services.Store.CreateToken(c.Request.Context(), claim.ID, setupTokenPurpose, emp.ID, expiresAt); err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"token": token, "expiresAt": expiresAt})
	})
}
