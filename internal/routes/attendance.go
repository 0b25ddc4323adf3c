package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/config"
)

func AttendanceRoutes(r *gin.RouterGroup, services *Services) {

	r.POST("/check-in", func(c *gin.Context) {
		var req struct {
			Agendas  []string `json:"agendas"`
			Location string   `json:"location" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, NewHTTPError(http.StatusBadRequest, err, "Invalid request body"))
			return
		}

		result, err := services.Attendance.CheckIn(c.Request.Context(), ActingEmployeeID(c), req.Agendas, req.Location)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	})

	r.POST("/check-out", func(c *gin.Context) {
		var req struct {
			Completions   map[string]bool `json:"completions"`
			Remark        string          `json:"remark"`
			ReferenceLink string          `json:"referenceLink"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, NewHTTPError(http.StatusBadRequest, err, "Invalid request body"))
			return
		}

		result, err := services.Attendance.CheckOut(c.Request.Context(), ActingEmployeeID(c), req.Completions, req.Remark, req.ReferenceLink)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	r.GET("/active", func(c *gin.Context) {
		result, err := services.Attendance.GetActiveSession(c.Request.Context(), ActingEmployeeID(c))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	r.GET("/me", func(c *gin.Context) {
		from, err := parseOptionalDateQuery(c, "from")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		to, err := parseOptionalDateQuery(c, "to")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		records, err := services.Attendance.AttendancesForEmployee(c.Request.Context(), ActingEmployeeID(c), from, to)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, records)
	})

	r.GET("/me/minutes", func(c *gin.Context) {
		now := time.Now().In(config.Cfg.Location())
		from, err := parseDateQuery(c, "from", now.AddDate(0, 0, -6))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		to, err := parseDateQuery(c, "to", now)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		minutes, err := services.Attendance.WeeklyMinutes(c.Request.Context(), ActingEmployeeID(c), from, to)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"employeeId": ActingEmployeeID(c), "totalMinutesWorked": minutes})
	})

	r.GET("/me/absence-report", func(c *gin.Context) {
		year, month, err := parseYearMonthQuery(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		report, err := services.Attendance.MonthlyAbsenceReport(c.Request.Context(), ActingEmployeeID(c), year, month)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	})

	r.GET("/:id/agendas", func(c *gin.Context) {
		agendas, err := services.Attendance.AgendasForAttendance(c.Request.Context(), c.Param("id"))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, agendas)
	})

	// Organisation-wide views
	hr := r.Group("")
	hr.Use(RequirePermission(services.RBAC, "attendance", "read_all"))

	hr.GET("/daily", func(c *gin.Context) {
		date, err := parseDateQuery(c, "date", time.Now().In(config.Cfg.Location()))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		activities, err := services.Attendance.DailyActivities(c.Request.Context(), date)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, activities)
	})

	hr.GET("/summary", func(c *gin.Context) {
		date, err := parseDateQuery(c, "date", time.Now().In(config.Cfg.Location()))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		summary, err := services.Attendance.DailySummary(c.Request.Context(), date)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	})

	hr.GET("/employee/:id", func(c *gin.Context) {
		from, err := parseOptionalDateQuery(c, "from")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		to, err := parseOptionalDateQuery(c, "to")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		records, err := services.Attendance.AttendancesForEmployee(c.Request.Context(), c.Param("id"), from, to)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, records)
	})

	hr.GET("/employee/:id/absence-report", func(c *gin.Context) {
		year, month, err := parseYearMonthQuery(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		report, err := services.Attendance.MonthlyAbsenceReport(c.Request.Context(), c.Param("id"), year, month)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	})
}
