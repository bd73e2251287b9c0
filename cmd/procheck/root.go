package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/azure-innovate/procheck/config"
)

var (
	version    = "0.1.0"
	configPath string

	rootCmd = &cobra.Command{
		Use:   "procheck",
		Short: "Azure Tenant Health Dashboard",
		Long: `ProCheck - Azure Tenant Health Dashboard

ProCheck tracks the operational health of a portfolio of Azure tenants.
Each tenant carries a checklist scored against the standard operating
procedure, and staggered audit scans keep the portfolio current.

Run the dashboard API, trigger one-off audit scans, and inspect the
audit trail and portfolio statistics from the command line.`,
		Version: version,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init sets up the root command
func init() {
	rootCmd.SetVersionTemplate(`ProCheck {{.Version}} - Azure Tenant Health Dashboard
`)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (YAML)")
}

// loadConfig resolves the effective configuration for a command
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}
