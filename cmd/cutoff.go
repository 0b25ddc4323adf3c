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
)

var cutoffCmd = &cobra.Command{
	Use:   "cutoff",
	Short: "Close stale active sessions now",
	Long:  `Runs the daily cutoff once: closes every active session within the lookback window and opens continuation sessions for unfinished agendas.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		employeeService := employee.NewService(provider, nil)
		service := attendance.NewService(provider, employeeService, config.Cfg)

		closed, err := service.RunCutoff(ctx, time.Now().In(config.Cfg.Location()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cutoff failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cutoff complete, closed %d session(s)\n", closed)
	},
}

func init() {
	rootCmd.AddCommand(cutoffCmd)
}
