package routes

import (
	"github.com/gin-gonic/gin"

	"attendance-backend/internal/access"
	"attendance-backend/internal/attendance"
	"attendance-backend/internal/editrequest"
	"attendance-backend/internal/employee"
	"attendance-backend/internal/report"
	"attendance-backend/internal/storage"
)

// Services bundles everything the HTTP surface delegates to.
type Services struct {
	Attendance   *attendance.Service
	EditRequests *editrequest.Service
	Employees    *employee.Service
	Reports      *report.Service
	Tasks        *report.Runner
	Store        storage.Provider
	RBAC         *access.RBAC
}

func RegisterRoutes(r *gin.Engine, services *Services) {
	r.Use(ErrorHandler())

	Health(&r.RouterGroup)

	api := r.Group("/api")
	AuthRoutes(api.Group("/auth"), services)

	authed := api.Group("")
	authed.Use(RequireAuth())

	AttendanceRoutes(authed.Group("/attendance"), services)
	EditRequestRoutes(authed.Group("/edit-requests"), services)
	EmployeeRoutes(authed.Group("/employees"), services)
	ReportRoutes(authed.Group("/reports"), services)
}
