// Package orchestrator drives tenant audit scans: it marks a tenant as
// scanning, lets the simulated backend delay elapse, commits the fresh
// checklist and records the audit trail around the transition.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/azure-innovate/procheck/auditlog"
	"github.com/azure-innovate/procheck/storage"
	"github.com/azure-innovate/procheck/telemetry"
	"github.com/azure-innovate/procheck/types"
)

// Default scan timing. The completion delay emulates the round-trip of
// the future ARM audit; batch starts are staggered so a global sync does
// not fire every tenant at once.
const (
	DefaultScanDelay = 1500 * time.Millisecond
	DefaultStagger   = 150 * time.Millisecond
)

// ErrBatchInProgress is returned when a global sync is triggered while
// one is still running.
var ErrBatchInProgress = fmt.Errorf("global audit sync already in progress")

// ErrNoTenants is returned when a global sync is triggered on an empty
// portfolio.
var ErrNoTenants = fmt.Errorf("no tenants to scan")

// Generator produces a fresh checklist for a tenant
type Generator interface {
	Generate(prior types.HealthStatus, tenantName string) []types.ChecklistItem
}

// Orchestrator coordinates single and batch scan simulations
type Orchestrator struct {
	store     storage.TenantStorage
	recorder  *auditlog.Recorder
	generator Generator
	logger    *telemetry.Logger
	metrics   *telemetry.ScanMetrics

	scanDelay time.Duration
	stagger   time.Duration
	now       func() time.Time

	mu       sync.Mutex
	scanning map[string]bool
	batch    bool

	wg sync.WaitGroup
}

// New creates an orchestrator with default scan timing
func New(store storage.TenantStorage, recorder *auditlog.Recorder, generator Generator) *Orchestrator {
	return &Orchestrator{
		store:     store,
		recorder:  recorder,
		generator: generator,
		logger:    telemetry.NewLogger("orchestrator"),
		scanDelay: DefaultScanDelay,
		stagger:   DefaultStagger,
		now:       time.Now,
		scanning:  make(map[string]bool),
	}
}

// WithDelays overrides the scan timing, for tests
func (o *Orchestrator) WithDelays(scanDelay, stagger time.Duration) *Orchestrator {
	o.scanDelay = scanDelay
	o.stagger = stagger
	return o
}

// WithMetrics attaches scan counters
func (o *Orchestrator) WithMetrics(m *telemetry.ScanMetrics) *Orchestrator {
	o.metrics = m
	return o
}

// ScanTenant triggers one tenant's audit scan. The initiated log entry is
// appended immediately; the checklist is committed and the completed
// entry appended once the scan delay elapses. Once triggered the scan
// runs to completion, even if the caller's context is cancelled.
func (o *Orchestrator) ScanTenant(ctx context.Context, tenantID, actor string) error {
	tenant, ok, err := o.store.GetTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to load tenant %s: %w", tenantID, err)
	}
	if !ok {
		return fmt.Errorf("tenant %s not found", tenantID)
	}

	o.mu.Lock()
	o.scanning[tenantID] = true
	o.mu.Unlock()

	if actor == "" {
		actor = "System"
	}
	_, err = o.recorder.Append(ctx, types.LogEntry{
		Type:       types.LogAudit,
		Severity:   types.SeverityInfo,
		User:       actor,
		Message:    fmt.Sprintf("Audit scan initiated for tenant: %s", tenant.Name),
		TargetID:   tenantID,
		TenantID:   tenant.ID,
		TenantName: tenant.Name,
	})
	if err != nil {
		o.logger.LogStorageError(ctx, "append_log", err)
	}

	o.logger.LogScanStart(ctx, tenantID, tenant.Name)
	if o.metrics != nil {
		o.metrics.ScansStarted.Add(ctx, 1)
	}

	completionCtx := context.WithoutCancel(ctx)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		time.Sleep(o.scanDelay)
		o.completeScan(completionCtx, tenantID, tenant.Name)
	}()
	return nil
}

// completeScan commits a finished scan against the authoritative store by
// tenant id. The record is looked up again at completion time: a tenant
// deleted mid-scan makes this a no-op instead of resurrecting stale state.
func (o *Orchestrator) completeScan(ctx context.Context, tenantID, tenantName string) {
	started := o.now()

	committed := false
	items := 0
	err := o.store.UpdateTenant(ctx, tenantID, func(t *types.Tenant) {
		t.Checklist = o.generator.Generate(t.Status, t.Name)
		t.LastScan = o.now().UTC().Format(time.RFC3339)
		t.Status = t.DeriveStatus()
		committed = true
		items = len(t.Checklist)
	})
	if err != nil {
		o.logger.LogStorageError(ctx, "commit_scan", err)
	}

	o.mu.Lock()
	delete(o.scanning, tenantID)
	o.mu.Unlock()

	if !committed {
		o.logger.WithContext(ctx).Warn().
			Str("tenant_id", tenantID).
			Msg("tenant removed mid-scan, discarding result")
		return
	}

	_, err = o.recorder.Append(ctx, types.LogEntry{
		Type:       types.LogAudit,
		Severity:   types.SeverityInfo,
		User:       "System",
		Message:    fmt.Sprintf("Audit scan completed successfully for %s", tenantName),
		TargetID:   tenantID,
		TenantID:   tenantID,
		TenantName: tenantName,
	})
	if err != nil {
		o.logger.LogStorageError(ctx, "append_log", err)
	}

	if o.metrics != nil {
		o.metrics.ScansCompleted.Add(ctx, 1)
	}
	o.logger.LogScanComplete(ctx, tenantID, items, float64(time.Since(started).Milliseconds()))
}

// BatchScan triggers a staggered scan of every tenant in the portfolio
// and returns the number of scans triggered. A new batch is rejected
// while one is running or when the portfolio is empty.
func (o *Orchestrator) BatchScan(ctx context.Context, actor string) (int, error) {
	tenants, err := o.store.GetTenants(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load tenants: %w", err)
	}

	o.mu.Lock()
	if o.batch {
		o.mu.Unlock()
		return 0, ErrBatchInProgress
	}
	if len(tenants) == 0 {
		o.mu.Unlock()
		return 0, ErrNoTenants
	}
	o.batch = true
	o.mu.Unlock()

	if actor == "" {
		actor = "System"
	}
	_, err = o.recorder.Append(ctx, types.LogEntry{
		Type:     types.LogAudit,
		Severity: types.SeverityInfo,
		User:     actor,
		Message:  "Global batch audit sync triggered.",
	})
	if err != nil {
		o.logger.LogStorageError(ctx, "append_log", err)
	}

	o.logger.LogBatchStart(ctx, len(tenants))
	if o.metrics != nil {
		o.metrics.BatchSyncs.Add(ctx, 1)
	}

	batchCtx := context.WithoutCancel(ctx)
	for i, tenant := range tenants {
		offset := time.Duration(i) * o.stagger
		id := tenant.ID

		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			time.Sleep(offset)
			if err := o.ScanTenant(batchCtx, id, actor); err != nil {
				o.logger.WithContext(batchCtx).Error().
					Err(err).
					Str("tenant_id", id).
					Msg("batch scan trigger failed")
			}
		}()
	}

	// The flag clears once the last tenant's scan delay has elapsed
	window := time.Duration(len(tenants))*o.stagger + o.scanDelay
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		time.Sleep(window)
		o.mu.Lock()
		o.batch = false
		o.mu.Unlock()
	}()

	return len(tenants), nil
}

// IsScanning reports whether the tenant has a scan in flight
func (o *Orchestrator) IsScanning(tenantID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scanning[tenantID]
}

// BatchInProgress reports whether a global sync is running
func (o *Orchestrator) BatchInProgress() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.batch
}

// Wait blocks until every in-flight scan and batch window has finished
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}
