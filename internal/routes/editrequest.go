package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/config"
)

func EditRequestRoutes(r *gin.RouterGroup, services *Services) {

	r.POST("", func(c *gin.Context) {
		var req struct {
			AttendanceID    string     `json:"attendanceId"`
			Date            string     `json:"date" binding:"required"`
			RequestCheckIn  *time.Time `json:"requestCheckIn"`
			RequestCheckOut *time.Time `json:"requestCheckOut"`
			Reason          string     `json:"reason" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, NewHTTPError(http.StatusBadRequest, err, "Invalid request body"))
			return
		}

		date, err := time.ParseInLocation(time.DateOnly, req.Date, config.Cfg.Location())
		if err != nil {
			AbortWithError(c, NewHTTPError(http.StatusBadRequest, err, "Invalid date, expected YYYY-MM-DD"))
			return
		}

		request, err := services.EditRequests.CreateRequest(c.Request.Context(), ActingEmployeeID(c),
			req.AttendanceID, date, req.RequestCheckIn, req.RequestCheckOut, req.Reason)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, request)
	})

	r.GET("/mine", func(c *gin.Context) {
		requests, err := services.EditRequests.RequestsByEmployee(c.Request.Context(), ActingEmployeeID(c))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, requests)
	})

	r.GET("/:id", func(c *gin.Context) {
		request, err := services.EditRequests.RequestByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		// Owners see their own requests; anyone else needs the review grant.
		if request.EmployeeID != ActingEmployeeID(c) && !services.RBAC.Can(c.GetString(ctxRole), "editrequest", "review") {
			AbortWithError(c, ErrInsufficientPermissions)
			return
		}
		c.JSON(http.StatusOK, request)
	})

	review := r.Group("")
	review.Use(RequirePermission(services.RBAC, "editrequest", "review"))

	review.GET("", func(c *gin.Context) {
		requests, err := services.EditRequests.AllRequests(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, requests)
	})

	review.POST("/:id/review", func(c *gin.Context) {
		var req struct {
			Action string `json:"action" binding:"required,oneof=APPROVE REJECT"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, NewHTTPError(http.StatusBadRequest, err, "Invalid request body, action must be APPROVE or REJECT"))
			return
		}

		request, err := services.EditRequests.ReviewRequest(c.Request.Context(), c.Param("id"),
			ActingEmployeeID(c), req.Action == "APPROVE")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, request)
	})
}
