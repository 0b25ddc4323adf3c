package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"attendance-backend/internal/config"
	"attendance-backend/internal/employee"
	"attendance-backend/internal/storage"
)

var (
	employeeName     string
	employeeEmail    string
	employeeRole     string
	employeePassword string
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Manage employee accounts",
}

var addEmployeeCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an employee account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		service := employee.NewService(provider, &config.Cfg.Email)

		created, err := service.Create(ctx, storage.Employee{
			Name:  employeeName,
			Email: employeeEmail,
			Role:  storage.EmployeeRole(employeeRole),
		}, employeePassword)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create employee: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created employee %s (%s)\n", created.ID, created.Email)
	},
}

var listEmployeesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all employees",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		service := employee.NewService(provider, nil)

		employees, err := service.List(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list employees: %v\n", err)
			os.Exit(1)
		}
		if len(employees) == 0 {
			fmt.Println("No employees found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tSTATUS")
		fmt.Fprintln(w, "--\t----\t-----\t----\t------")
		for _, e := range employees {
			status := "Inactive"
			if e.Active {
				status = "Active"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Email, e.Role, status)
		}
		w.Flush()
		fmt.Printf("\nTotal employees: %d\n", len(employees))
	},
}

var deactivateEmployeeCmd = &cobra.Command{
	Use:   "deactivate <employee-id>",
	Short: "Deactivate an employee account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		service := employee.NewService(provider, nil)

		if err := service.SetActive(ctx, args[0], false); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to deactivate employee: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deactivated %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(employeesCmd)
	employeesCmd.AddCommand(addEmployeeCmd)
	employeesCmd.AddCommand(listEmployeesCmd)
	employeesCmd.AddCommand(deactivateEmployeeCmd)

	addEmployeeCmd.Flags().StringVar(&employeeName, "name", "", "employee name")
	addEmployeeCmd.Flags().StringVar(&employeeEmail, "email", "", "employee email address")
	addEmployeeCmd.Flags().StringVar(&employeeRole, "role", "EMPLOYEE", "role: ADMIN, HR or EMPLOYEE")
	addEmployeeCmd.Flags().StringVar(&employeePassword, "password", "", "initial password")
	addEmployeeCmd.MarkFlagRequired("name")
	addEmployeeCmd.MarkFlagRequired("email")
	addEmployeeCmd.MarkFlagRequired("password")
}
