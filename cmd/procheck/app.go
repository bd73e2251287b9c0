package main

import (
	"context"
	"fmt"

	promclient "github.com/prometheus/client_golang/prometheus"

	"github.com/azure-innovate/procheck/auditlog"
	"github.com/azure-innovate/procheck/config"
	"github.com/azure-innovate/procheck/orchestrator"
	"github.com/azure-innovate/procheck/scanner"
	"github.com/azure-innovate/procheck/session"
	"github.com/azure-innovate/procheck/storage"
	"github.com/azure-innovate/procheck/summary"
	"github.com/azure-innovate/procheck/telemetry"
)

// app bundles the wired components behind every command
type app struct {
	store     *storage.Store
	recorder  *auditlog.Recorder
	orch      *orchestrator.Orchestrator
	generator *scanner.Generator
	sessions  *session.Manager
	summary   *summary.Service
	metrics   *telemetry.ScanMetrics
	registry  *promclient.Registry
}

// buildApp wires storage, telemetry and the scan engine from config
func buildApp(cfg *config.Config) (*app, error) {
	store, err := storage.Open(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	metrics, registry, err := telemetry.InitMetrics()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	recorder := auditlog.NewRecorder(store).WithMetrics(metrics)

	// Saved settings take precedence over the config file thresholds
	thresholds := cfg.Thresholds
	if saved, err := store.GetSettings(context.Background()); err == nil && saved != nil {
		thresholds = *saved
	}
	generator := scanner.NewGenerator().WithThresholds(thresholds)

	orch := orchestrator.New(store, recorder, generator).
		WithDelays(cfg.Scan.Delay.Std(), cfg.Scan.Stagger.Std()).
		WithMetrics(metrics)

	return &app{
		store:     store,
		recorder:  recorder,
		orch:      orch,
		generator: generator,
		sessions:  session.NewManager(store, recorder),
		summary:   summary.New(cfg.Summary.APIKey, cfg.Summary.Model),
		metrics:   metrics,
		registry:  registry,
	}, nil
}

// Close waits for in-flight scans before releasing storage
func (a *app) Close() error {
	a.orch.Wait()
	return a.store.Close()
}
