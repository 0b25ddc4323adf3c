package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"attendance-backend/internal/access"
	"attendance-backend/internal/attendance"
	"attendance-backend/internal/config"
	"attendance-backend/internal/editrequest"
	"attendance-backend/internal/employee"
	"attendance-backend/internal/report"
	"attendance-backend/internal/routes"
	"attendance-backend/internal/storage"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the attendance backend server",
	Run: func(cmd *cobra.Command, args []string) {
		ServerMain(provider)
	},
}

func loadRBAC(cfg *config.Config) *access.RBAC {
	rbac := access.New()
	if err := rbac.LoadPolicy(cfg.RBAC.PolicyFile); err != nil {
		slog.Error("Failed to load RBAC policy", "error", err, "file", cfg.RBAC.PolicyFile)
		os.Exit(1)
	}
	return rbac
}

func buildServices(cfg *config.Config, storageProvider storage.Provider) *routes.Services {
	mailer := &cfg.Email

	employeeService := employee.NewService(storageProvider, mailer)
	attendanceService := attendance.NewService(storageProvider, employeeService, cfg)
	editRequestService := editrequest.NewService(storageProvider, cfg)
	reportService := report.NewService(attendanceService, employeeService, storageProvider, mailer, cfg.HREmail, cfg.Location())

	return &routes.Services{
		Attendance:   attendanceService,
		EditRequests: editRequestService,
		Employees:    employeeService,
		Reports:      reportService,
		Tasks:        report.NewRunner(),
		Store:        storageProvider,
		RBAC:         loadRBAC(cfg),
	}
}

func ServerMain(storageProvider storage.Provider) {
	if config.Cfg == nil {
		panic("Config not initialized.")
	}
	if storageProvider == nil {
		slog.Error("Storage provider is nil")
		os.Exit(1)
	}

	services := buildServices(config.Cfg, storageProvider)

	cutoffCron, err := attendance.NewCutoffScheduler(services.Attendance, config.Cfg.CutoffSchedule)
	if err != nil {
		slog.Error("Failed to schedule daily cutoff", "error", err, "schedule", config.Cfg.CutoffSchedule)
		os.Exit(1)
	}
	if _, err := cutoffCron.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := storageProvider.ExpireTokens(ctx, time.Now()); err != nil {
			slog.Error("Expired token sweep failed", "error", err)
		}
	}); err != nil {
		slog.Error("Failed to schedule token sweep", "error", err)
		os.Exit(1)
	}
	cutoffCron.Start()
	defer cutoffCron.Stop()

	reportCron, err := report.NewReportScheduler(services.Reports, config.Cfg.ReportSchedule)
	if err != nil {
		slog.Error("Failed to schedule monthly reports", "error", err, "schedule", config.Cfg.ReportSchedule)
		os.Exit(1)
	}
	reportCron.Start()
	defer reportCron.Stop()

	server := gin.New()
	server.Use(gin.Logger(), gin.Recovery())

	routes.RegisterRoutes(server, services)

	server.Run()
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
