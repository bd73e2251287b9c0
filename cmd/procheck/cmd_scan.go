package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azure-innovate/procheck/types"
)

var (
	scanTenantID string
	scanAll      bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run audit scans against the tenant portfolio",
	Long: `Trigger audit scans and wait for them to complete.

A scan regenerates the tenant's compliance checklist against the
standard operating procedure and rescores its health state. Scanning
all tenants staggers the individual scans the way the dashboard's
global sync does.`,
	Example: `  procheck scan --tenant 1b2c3d    # Scan one tenant
  procheck scan --all              # Staggered scan of every tenant`,
	RunE: runScanCommand,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanTenantID, "tenant", "t", "", "Tenant ID to scan")
	scanCmd.Flags().BoolVar(&scanAll, "all", false, "Scan every tenant in the portfolio")
}

func runScanCommand(cmd *cobra.Command, args []string) error {
	if scanTenantID == "" && !scanAll {
		return fmt.Errorf("either --tenant or --all is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	ctx := context.Background()

	if scanAll {
		count, err := application.orch.BatchScan(ctx, "CLI")
		if err != nil {
			return err
		}
		fmt.Printf("Triggered audit scans for %d tenants\n", count)
	} else {
		if err := application.orch.ScanTenant(ctx, scanTenantID, "CLI"); err != nil {
			return err
		}
		fmt.Printf("Triggered audit scan for tenant %s\n", scanTenantID)
	}

	application.orch.Wait()

	tenants, err := application.store.GetTenants(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	for _, tenant := range tenants {
		if !scanAll && tenant.ID != scanTenantID {
			continue
		}
		failing := 0
		for _, item := range tenant.Checklist {
			if item.Status != types.StatusHealthy {
				failing++
			}
		}
		fmt.Printf("  %-30s %-10s %d/%d checks passing\n",
			tenant.Name, tenant.Status, len(tenant.Checklist)-failing, len(tenant.Checklist))
	}
	return nil
}
