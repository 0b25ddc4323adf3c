package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/config"
	"attendance-backend/internal/employee"
	"attendance-backend/internal/report"
)

var (
	reportYear  int
	reportMonth int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate and distribute timesheet reports",
}

var reportSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Mail monthly timesheets to all active employees",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		service := newReportService()

		year, month := resolveReportMonth()
		if err := service.MailMonthlyTimesheets(ctx, year, month); err != nil {
			fmt.Fprintf(os.Stderr, "Report mail-out failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Timesheets for %04d-%02d sent\n", year, int(month))
	},
}

var reportTimesheetCmd = &cobra.Command{
	Use:   "timesheet <employee-id>",
	Short: "Write an employee's monthly timesheet to a file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		service := newReportService()

		year, month := resolveReportMonth()
		data, err := service.MonthlyTimesheet(ctx, args[0], year, month)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Timesheet generation failed: %v\n", err)
			os.Exit(1)
		}

		filename := fmt.Sprintf("timesheet-%s-%04d-%02d.xlsx", args[0], year, int(month))
		if err := os.WriteFile(filename, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", filename, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", filename)
	},
}

func newReportService() *report.Service {
	employeeService := employee.NewService(provider, &config.Cfg.Email)
	attendanceService := attendance.NewService(provider, employeeService, config.Cfg)
	return report.NewService(attendanceService, employeeService, provider, &config.Cfg.Email, config.Cfg.HREmail, config.Cfg.Location())
}

// resolveReportMonth defaults to the previous calendar month.
func resolveReportMonth() (int, time.Month) {
	if reportYear != 0 && reportMonth != 0 {
		return reportYear, time.Month(reportMonth)
	}
	return report.PreviousMonth(time.Now().In(config.Cfg.Location()))
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportSendCmd)
	reportCmd.AddCommand(reportTimesheetCmd)

	reportCmd.PersistentFlags().IntVar(&reportYear, "year", 0, "report year (default: previous month)")
	reportCmd.PersistentFlags().IntVar(&reportMonth, "month", 0, "report month 1-12 (default: previous month)")
}
