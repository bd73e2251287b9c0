package auditlog

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure-innovate/procheck/storage"
	"github.com/azure-innovate/procheck/types"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewRecorder(store)
}

func TestRecorder_Append(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	entry, err := rec.Append(ctx, types.LogEntry{
		Type:     types.LogAudit,
		Severity: types.SeverityInfo,
		User:     "Admin Engineer",
		Message:  "Audit scan initiated for tenant: Acme Corp",
		TenantID: "t-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.NotEmpty(t, entry.Timestamp)

	logs, err := rec.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entry.ID, logs[0].ID)
}

func TestRecorder_NewestFirst(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := rec.Append(ctx, types.LogEntry{
			Type:     types.LogSystem,
			Severity: types.SeverityInfo,
			User:     "System",
			Message:  fmt.Sprintf("event %d", i),
		})
		require.NoError(t, err)
	}

	logs, err := rec.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "event 2", logs[0].Message)
	assert.Equal(t, "event 0", logs[2].Message)
}

func TestRecorder_CapAtMaxEntries(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	for i := 0; i <= MaxEntries; i++ {
		_, err := rec.Append(ctx, types.LogEntry{
			Type:     types.LogSystem,
			Severity: types.SeverityInfo,
			User:     "System",
			Message:  fmt.Sprintf("event %d", i),
		})
		require.NoError(t, err)
	}

	logs, err := rec.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, MaxEntries)

	// The 1001st append sits at index 0; the very first entry is gone
	assert.Equal(t, fmt.Sprintf("event %d", MaxEntries), logs[0].Message)
	for _, entry := range logs {
		assert.NotEqual(t, "event 0", entry.Message)
	}
}

func TestRecorder_ConcurrentAppends(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := rec.Append(ctx, types.LogEntry{
				Type:     types.LogAudit,
				Severity: types.SeverityInfo,
				User:     "System",
				Message:  fmt.Sprintf("event %d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	logs, err := rec.List(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, n)
}

func TestFilter(t *testing.T) {
	entries := []types.LogEntry{
		{Type: types.LogAudit, Severity: types.SeverityInfo, Message: "scan"},
		{Type: types.LogSecurity, Severity: types.SeverityWarning, Message: "login"},
		{Type: types.LogSystem, Severity: types.SeverityError, Message: "boom"},
	}

	assert.Len(t, Filter(entries, "All"), 3)
	assert.Len(t, Filter(entries, ""), 3)

	audits := Filter(entries, "Audit")
	require.Len(t, audits, 1)
	assert.Equal(t, "scan", audits[0].Message)

	warnings := Filter(entries, "Warning")
	require.Len(t, warnings, 1)
	assert.Equal(t, "login", warnings[0].Message)

	assert.Empty(t, Filter(entries, "Tenant"))
}
