package orchestrator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure-innovate/procheck/auditlog"
	"github.com/azure-innovate/procheck/scanner"
	"github.com/azure-innovate/procheck/storage"
	"github.com/azure-innovate/procheck/types"
)

const (
	testScanDelay = 30 * time.Millisecond
	testStagger   = 5 * time.Millisecond
)

func newTestOrchestrator(t *testing.T, tenants []types.Tenant) (*Orchestrator, *storage.Store, *auditlog.Recorder) {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.SaveTenants(context.Background(), tenants))

	recorder := auditlog.NewRecorder(store)
	gen := scanner.NewGeneratorWithSeed(99, time.Now)
	orch := New(store, recorder, gen).WithDelays(testScanDelay, testStagger)
	return orch, store, recorder
}

func TestOrchestrator_ScanLifecycle(t *testing.T) {
	orch, store, recorder := newTestOrchestrator(t, []types.Tenant{
		{ID: "t-1", Name: "Acme Corp", Status: types.StatusUnknown},
	})
	ctx := context.Background()

	triggered := time.Now().UTC()
	require.NoError(t, orch.ScanTenant(ctx, "t-1", "Admin Engineer"))
	assert.True(t, orch.IsScanning("t-1"))

	orch.Wait()
	assert.False(t, orch.IsScanning("t-1"))

	// One tenant with an empty checklist gains exactly 8 Healthy items
	tenant, ok, err := store.GetTenant(ctx, "t-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, tenant.Checklist, 8)
	for _, item := range tenant.Checklist {
		assert.Equal(t, types.StatusHealthy, item.Status)
	}
	assert.Equal(t, types.StatusHealthy, tenant.Status)

	lastScan, err := time.Parse(time.RFC3339, tenant.LastScan)
	require.NoError(t, err)
	assert.False(t, lastScan.Before(triggered.Truncate(time.Second)))

	// Exactly one initiated and one completed entry, completed newest
	logs, err := recorder.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Audit scan completed successfully for Acme Corp", logs[0].Message)
	assert.Equal(t, "Audit scan initiated for tenant: Acme Corp", logs[1].Message)
	assert.Equal(t, "Admin Engineer", logs[1].User)
	assert.Equal(t, "System", logs[0].User)
	for _, entry := range logs {
		assert.Equal(t, types.LogAudit, entry.Type)
		assert.Equal(t, types.SeverityInfo, entry.Severity)
		assert.Equal(t, "t-1", entry.TenantID)
	}
}

func TestOrchestrator_ScanUnknownTenant(t *testing.T) {
	orch, _, _ := newTestOrchestrator(t, nil)

	err := orch.ScanTenant(context.Background(), "t-404", "")
	assert.Error(t, err)
}

func TestOrchestrator_TenantDeletedMidScan(t *testing.T) {
	orch, store, recorder := newTestOrchestrator(t, []types.Tenant{
		{ID: "t-1", Name: "Acme Corp"},
	})
	ctx := context.Background()

	require.NoError(t, orch.ScanTenant(ctx, "t-1", ""))

	// Remove the tenant before the completion delay elapses
	require.NoError(t, store.SaveTenants(ctx, []types.Tenant{}))

	orch.Wait()
	assert.False(t, orch.IsScanning("t-1"))

	// No completed entry; only the initiated one
	logs, err := recorder.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Audit scan initiated for tenant: Acme Corp", logs[0].Message)

	tenants, err := store.GetTenants(ctx)
	require.NoError(t, err)
	assert.Empty(t, tenants)
}

func TestOrchestrator_BatchScan(t *testing.T) {
	orch, store, recorder := newTestOrchestrator(t, []types.Tenant{
		{ID: "t-1", Name: "Acme Corp"},
		{ID: "t-2", Name: "Other Co"},
		{ID: "t-3", Name: "Third Ltd"},
	})
	ctx := context.Background()

	count, err := orch.BatchScan(ctx, "Admin Engineer")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.True(t, orch.BatchInProgress())

	// A second batch is rejected while the first runs
	_, err = orch.BatchScan(ctx, "Admin Engineer")
	assert.ErrorIs(t, err, ErrBatchInProgress)

	orch.Wait()
	assert.False(t, orch.BatchInProgress())

	// Every tenant was scanned
	tenants, err := store.GetTenants(ctx)
	require.NoError(t, err)
	for _, tenant := range tenants {
		assert.Len(t, tenant.Checklist, 8, tenant.Name)
	}

	// Trigger entry plus one initiated/completed pair per tenant
	logs, err := recorder.List(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 1+2*3)
	assert.Equal(t, "Global batch audit sync triggered.", logs[len(logs)-1].Message)

	initiated, completed := 0, 0
	for _, entry := range logs {
		if strings.HasPrefix(entry.Message, "Audit scan initiated") {
			initiated++
		}
		if strings.HasPrefix(entry.Message, "Audit scan completed") {
			completed++
		}
	}
	assert.Equal(t, 3, initiated)
	assert.Equal(t, 3, completed)
}

func TestOrchestrator_BatchScanEmptyPortfolio(t *testing.T) {
	orch, _, _ := newTestOrchestrator(t, nil)

	_, err := orch.BatchScan(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoTenants)
	assert.False(t, orch.BatchInProgress())
}

func TestOrchestrator_BatchWindowDuration(t *testing.T) {
	orch, _, _ := newTestOrchestrator(t, []types.Tenant{
		{ID: "t-1", Name: "Acme Corp"},
		{ID: "t-2", Name: "Other Co"},
	})
	ctx := context.Background()

	started := time.Now()
	_, err := orch.BatchScan(ctx, "")
	require.NoError(t, err)

	orch.Wait()
	elapsed := time.Since(started)

	// The flag window is n*stagger + scanDelay at minimum
	minWindow := 2*testStagger + testScanDelay
	assert.GreaterOrEqual(t, elapsed, minWindow)
	assert.False(t, orch.BatchInProgress())
}

func TestOrchestrator_ConcurrentScansIndependent(t *testing.T) {
	orch, store, _ := newTestOrchestrator(t, []types.Tenant{
		{ID: "t-1", Name: "Acme Corp"},
		{ID: "t-2", Name: "Other Co"},
	})
	ctx := context.Background()

	require.NoError(t, orch.ScanTenant(ctx, "t-1", ""))
	require.NoError(t, orch.ScanTenant(ctx, "t-2", ""))
	assert.True(t, orch.IsScanning("t-1"))
	assert.True(t, orch.IsScanning("t-2"))

	orch.Wait()

	for _, id := range []string{"t-1", "t-2"} {
		tenant, ok, err := store.GetTenant(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Len(t, tenant.Checklist, 8)
	}
}

func TestOrchestrator_CancelledTriggerStillCompletes(t *testing.T) {
	orch, store, _ := newTestOrchestrator(t, []types.Tenant{
		{ID: "t-1", Name: "Acme Corp"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, orch.ScanTenant(ctx, "t-1", ""))
	cancel()

	orch.Wait()

	tenant, ok, err := store.GetTenant(context.Background(), "t-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, tenant.Checklist, 8)
}
