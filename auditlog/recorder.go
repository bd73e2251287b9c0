// Package auditlog is the append-only audit trail behind the activity
// feed. Entries are immutable once written; the store only ever trims in
// bulk past its cap.
package auditlog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/azure-innovate/procheck/storage"
	"github.com/azure-innovate/procheck/telemetry"
	"github.com/azure-innovate/procheck/types"
)

// MaxEntries bounds the stored log; the oldest entries beyond it are
// silently dropped on append.
const MaxEntries = 1000

// Recorder appends and reads audit log entries. Appends are serialized:
// scan completions and request handlers write concurrently, and the log
// is stored as one whole value.
type Recorder struct {
	mu      sync.Mutex
	store   storage.LogStorage
	metrics *telemetry.ScanMetrics
	now     func() time.Time
}

// NewRecorder creates a recorder over the given log storage
func NewRecorder(store storage.LogStorage) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// WithMetrics attaches the append counter
func (r *Recorder) WithMetrics(m *telemetry.ScanMetrics) *Recorder {
	r.metrics = m
	return r
}

// WithClock overrides the timestamp source, for tests
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Append completes the partial entry with a fresh id and timestamp,
// prepends it newest-first, trims to MaxEntries and persists. The
// completed entry is returned.
func (r *Recorder) Append(ctx context.Context, entry types.LogEntry) (types.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logs, err := r.store.GetLogs(ctx)
	if err != nil {
		return types.LogEntry{}, fmt.Errorf("failed to read log: %w", err)
	}

	entry.ID = uuid.NewString()
	entry.Timestamp = r.now().UTC().Format(time.RFC3339)

	logs = append([]types.LogEntry{entry}, logs...)
	if len(logs) > MaxEntries {
		logs = logs[:MaxEntries]
	}

	if err := r.store.SaveLogs(ctx, logs); err != nil {
		return types.LogEntry{}, fmt.Errorf("failed to persist log: %w", err)
	}

	if r.metrics != nil {
		r.metrics.LogsAppended.Add(ctx, 1)
	}
	return entry, nil
}

// List returns the stored entries, newest first
func (r *Recorder) List(ctx context.Context) ([]types.LogEntry, error) {
	return r.store.GetLogs(ctx)
}

// Filter keeps entries whose severity or type matches the term. "All" or
// an empty term keeps everything. Pure view helper, no side effects.
func Filter(entries []types.LogEntry, term string) []types.LogEntry {
	if term == "" || term == "All" {
		return entries
	}
	filtered := make([]types.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if string(entry.Severity) == term || string(entry.Type) == term {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
