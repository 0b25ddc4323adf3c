package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/config"
)

func ReportRoutes(r *gin.RouterGroup, services *Services) {

	// Every authenticated employee can download their own timesheet.
	r.GET("/timesheet/me", func(c *gin.Context) {
		serveTimesheet(c, services, ActingEmployeeID(c))
	})

	admin := r.Group("")
	admin.Use(RequirePermission(services.RBAC, "report", "run"))

	admin.GET("/timesheet/:id", func(c *gin.Context) {
		serveTimesheet(c, services, c.Param("id"))
	})

	// Kick off the monthly mail-out as a background task and return its id
	// so callers can poll for the outcome.
	admin.POST("/monthly-run", func(c *gin.Context) {
		var req struct {
			Year  int `json:"year" binding:"required"`
			Month int `json:"month" binding:"required,min=1,max=12"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, NewHTTPError(http.StatusBadRequest, err, "Invalid request body"))
			return
		}

		year, month := req.Year, time.Month(req.Month)
		task := services.Tasks.Run("monthly-timesheets", 10*time.Minute, func(ctx context.Context) error {
			return services.Reports.MailMonthlyTimesheets(ctx, year, month)
		})
		c.JSON(http.StatusAccepted, task)
	})

	admin.POST("/cutoff-run", func(c *gin.Context) {
		cutoff := time.Now().In(config.Cfg.Location())
		task := services.Tasks.Run("daily-cutoff", 4*time.Minute, func(ctx context.Context) error {
			_, err := services.Attendance.RunCutoff(ctx, cutoff)
			return err
		})
		c.JSON(http.StatusAccepted, task)
	})

	admin.GET("/tasks/:id", func(c *gin.Context) {
		task, ok := services.Tasks.Get(c.Param("id"))
		if !ok {
			AbortWithError(c, NewHTTPError(http.StatusNotFound, nil, "Task not found"))
			return
		}
		c.JSON(http.StatusOK, task)
	})
}

func serveTimesheet(c *gin.Context, services *Services, employeeID string) {
	year, month, err := parseYearMonthQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data, err := services.Reports.MonthlyTimesheet(c.Request.Context(), employeeID, year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("timesheet-%s-%04d-%02d.xlsx", employeeID, year, int(month))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
