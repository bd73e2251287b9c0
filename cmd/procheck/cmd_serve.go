package main

import (
	"context"
	"fmt"
	"syscall"

	"github.com/oklog/run"
	"github.com/spf13/cobra"

	"github.com/azure-innovate/procheck/server"
	"github.com/azure-innovate/procheck/telemetry"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API server",
	Long: `Run the ProCheck dashboard API.

Serves the tenant portfolio, the audit trail, threshold settings and the
scan engine over HTTP, with Prometheus metrics on /metrics and a
liveness probe on /health. Shuts down gracefully on SIGTERM/SIGINT,
letting in-flight audit scans complete first.`,
	Example: `  procheck serve                        # Listen on :8080
  procheck serve --addr :9090           # Custom listen address
  procheck serve --config procheck.yaml # Load settings from file`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}

	application, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	logger := telemetry.NewLogger("procheck")
	api := server.NewWebAPI(logger.Logger, server.Config{Addr: cfg.ListenAddr}, server.Dependencies{
		Store:    application.store,
		Orch:     application.orch,
		Recorder: application.recorder,
		Sessions: application.sessions,
		Summary:  application.summary,
		Scoring:  application.generator,
		Registry: application.registry,
	})

	fmt.Printf("Starting ProCheck dashboard API on %s\n", cfg.ListenAddr)
	fmt.Printf("   Storage:  %s\n", cfg.StorageDir)
	fmt.Printf("   Metrics:  http://localhost%s/metrics\n", cfg.ListenAddr)
	fmt.Printf("   Health:   http://localhost%s/health\n\n", cfg.ListenAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var group run.Group
	group.Add(func() error {
		return api.Start(ctx)
	}, func(error) {
		cancel()
	})
	group.Add(run.SignalHandler(ctx, syscall.SIGTERM, syscall.SIGINT))

	err = group.Run()
	if _, ok := err.(run.SignalError); ok {
		fmt.Println("\nShutdown complete")
		return nil
	}
	return err
}
