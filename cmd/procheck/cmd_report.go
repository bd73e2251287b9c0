package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/azure-innovate/procheck/analyzer"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print portfolio health statistics",
	Long: `Summarize the tenant portfolio.

Shows tenant counts by health state, the resource readiness figures
from the inventory view, and the regions the portfolio spans.`,
	Example: `  procheck report                        # Portfolio summary
  procheck report --config procheck.yaml # Against a specific store`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	tenants, err := application.store.GetTenants(context.Background())
	if err != nil {
		return err
	}

	stats := analyzer.ComputeStats(tenants)
	resources := analyzer.PortfolioResources(tenants)
	resourceStats := analyzer.ComputeResourceStats(resources)

	fmt.Println("Portfolio Health Report")
	fmt.Println()
	fmt.Printf("  Tenants:          %d total\n", stats.TotalTenants)
	fmt.Printf("    Healthy:        %d\n", stats.HealthyCount)
	fmt.Printf("    Warning:        %d\n", stats.WarningCount)
	fmt.Printf("    Critical:       %d\n", stats.CriticalCount)
	fmt.Println()
	fmt.Printf("  Resources:        %d active, %d idle\n", stats.ActiveResources, stats.IdleResources)
	if resourceStats.Total > 0 {
		fmt.Printf("  Inventory:        %d tracked, %d unhealthy, %d%% ready\n",
			resourceStats.Total, resourceStats.Unhealthy, resourceStats.HealthyPct)
	}

	if locations := analyzer.Locations(tenants); len(locations) > 0 {
		fmt.Println()
		fmt.Printf("  Regions:          %s\n", strings.Join(locations, ", "))
	}
	return nil
}
