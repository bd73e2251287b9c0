package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azure-innovate/procheck/auditlog"
)

var (
	logsFilter string
	logsLimit  int
)

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the operational audit trail",
	Long: `Print the audit trail, newest first.

Entries can be narrowed by severity (Info, Warning, Error) or by event
type (System, Audit, Security, Tenant).`,
	Example: `  procheck logs                   # Most recent entries
  procheck logs --filter Warning  # Only warnings
  procheck logs --filter Audit    # Only scan activity
  procheck logs --limit 50        # More history`,
	RunE: runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVarP(&logsFilter, "filter", "f", "All", "Severity or event type filter")
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 20, "Maximum entries to print")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	entries, err := application.recorder.List(context.Background())
	if err != nil {
		return err
	}
	entries = auditlog.Filter(entries, logsFilter)

	if len(entries) == 0 {
		fmt.Println("No audit entries match")
		return nil
	}
	if logsLimit > 0 && len(entries) > logsLimit {
		entries = entries[:logsLimit]
	}

	for _, entry := range entries {
		fmt.Printf("%s  %-8s %-8s %-16s %s\n",
			entry.Timestamp, entry.Severity, entry.Type, entry.User, entry.Message)
	}
	return nil
}
