// Package storage is the local persistence adapter behind the dashboard.
// Every entity is read and written whole under a fixed namespaced key,
// matching the REST backend the adapter will eventually front. There is
// no atomicity across keys.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/btree"
	"go.etcd.io/bbolt"

	"github.com/azure-innovate/procheck/types"
)

var bucketEntities = []byte("entities")

// Fixed persistence keys. Stable strings: a deployed backend keeps these
// as its resource names.
var (
	keyTenants       = []byte("procheck_v4_tenants")
	keyLogs          = []byte("procheck_v4_logs")
	keySession       = []byte("procheck_v4_session")
	keySettings      = []byte("procheck_v4_settings")
	keyEngineers     = []byte("procheck_v4_engineers")
	keyGuideSeen     = []byte("procheck_v4_guide_seen")
	keyTutorialsSeen = []byte("procheck_v4_tutorials_seen")
)

// Store persists dashboard state in an embedded bbolt database and keeps
// an id-ordered in-memory index over the tenant collection for direct
// lookups.
type Store struct {
	mu    sync.RWMutex
	db    *bbolt.DB
	index *btree.BTreeG[*types.Tenant]
}

// Open creates or opens the store in the given directory
func Open(dir string) (*Store, error) {
	dbPath := filepath.Join(dir, "procheck.db")

	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntities)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db: db,
		index: btree.NewG[*types.Tenant](32, func(a, b *types.Tenant) bool {
			return a.ID < b.ID
		}),
	}

	if err := s.rebuildIndex(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// GetTenants returns the full tenant collection, id-ordered
func (s *Store) GetTenants(ctx context.Context) ([]types.Tenant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tenants := make([]types.Tenant, 0, s.index.Len())
	s.index.Ascend(func(t *types.Tenant) bool {
		tenants = append(tenants, *t)
		return true
	})
	return tenants, nil
}

// GetTenant looks up one tenant by id. The second return reports presence:
// a missing tenant is not an error.
func (s *Store) GetTenant(ctx context.Context, id string) (*types.Tenant, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	found, ok := s.index.Get(&types.Tenant{ID: id})
	if !ok {
		return nil, false, nil
	}
	copied := *found
	return &copied, true, nil
}

// SaveTenants replaces the stored tenant collection wholesale
func (s *Store) SaveTenants(ctx context.Context, tenants []types.Tenant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.putJSON(keyTenants, tenants); err != nil {
		return err
	}

	s.index.Clear(false)
	for i := range tenants {
		t := tenants[i]
		s.index.ReplaceOrInsert(&t)
	}
	return nil
}

// AddTenant appends one tenant to the collection atomically. Concurrent
// onboards each land; neither read-modify-write can drop the other.
func (s *Store) AddTenant(ctx context.Context, tenant types.Tenant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := tenant
	s.index.ReplaceOrInsert(&t)
	return s.persistIndex()
}

// RemoveTenant deletes one tenant atomically, returning the removed
// record. The second return reports presence.
func (s *Store) RemoveTenant(ctx context.Context, id string) (*types.Tenant, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed, ok := s.index.Delete(&types.Tenant{ID: id})
	if !ok {
		return nil, false, nil
	}
	if err := s.persistIndex(); err != nil {
		return nil, false, err
	}
	copied := *removed
	return &copied, true, nil
}

// UpdateTenant applies fn to the current record for id and persists the
// result. It is a no-op when the tenant has been deleted mid-flight, so
// delayed scan completions cannot resurrect removed tenants.
func (s *Store) UpdateTenant(ctx context.Context, id string, fn func(*types.Tenant)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found, ok := s.index.Get(&types.Tenant{ID: id})
	if !ok {
		return nil
	}

	updated := *found
	fn(&updated)
	s.index.ReplaceOrInsert(&updated)
	return s.persistIndex()
}

// persistIndex writes the index's tenant collection to disk. Callers hold
// the write lock.
func (s *Store) persistIndex() error {
	tenants := make([]types.Tenant, 0, s.index.Len())
	s.index.Ascend(func(t *types.Tenant) bool {
		tenants = append(tenants, *t)
		return true
	})
	return s.putJSON(keyTenants, tenants)
}

// GetLogs returns the stored audit log, newest first
func (s *Store) GetLogs(ctx context.Context) ([]types.LogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logs := []types.LogEntry{}
	if err := s.getJSON(keyLogs, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// SaveLogs replaces the stored audit log
func (s *Store) SaveLogs(ctx context.Context, logs []types.LogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.putJSON(keyLogs, logs)
}

// GetEngineers returns the engineer roster
func (s *Store) GetEngineers(ctx context.Context) ([]types.Engineer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	engineers := []types.Engineer{}
	if err := s.getJSON(keyEngineers, &engineers); err != nil {
		return nil, err
	}
	return engineers, nil
}

// SaveEngineers replaces the engineer roster
func (s *Store) SaveEngineers(ctx context.Context, engineers []types.Engineer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.putJSON(keyEngineers, engineers)
}

// AddEngineer appends one engineer to the roster atomically, keyed by
// email. An already-enrolled email is left untouched.
func (s *Store) AddEngineer(ctx context.Context, engineer types.Engineer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	engineers := []types.Engineer{}
	if err := s.getJSON(keyEngineers, &engineers); err != nil {
		return err
	}
	for _, eng := range engineers {
		if eng.Email == engineer.Email {
			return nil
		}
	}
	return s.putJSON(keyEngineers, append(engineers, engineer))
}

// GetSettings returns the saved thresholds, or nil when none were saved
func (s *Store) GetSettings(ctx context.Context) (*types.ThresholdSettings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var settings *types.ThresholdSettings
	if err := s.getJSON(keySettings, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveSettings replaces the threshold settings wholesale
func (s *Store) SaveSettings(ctx context.Context, settings types.ThresholdSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.putJSON(keySettings, settings)
}

// GetSession returns the current session user, or nil when logged out
func (s *Store) GetSession(ctx context.Context) (*types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var user *types.User
	if err := s.getJSON(keySession, &user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetSession stores the session user; nil clears the session
func (s *Store) SetSession(ctx context.Context, user *types.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.putJSON(keySession, user)
}

// GetGuideSeen reports whether the onboarding guide was dismissed
func (s *Store) GetGuideSeen(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var seen bool
	if err := s.getJSON(keyGuideSeen, &seen); err != nil {
		return false, err
	}
	return seen, nil
}

// SetGuideSeen records the onboarding guide dismissal flag
func (s *Store) SetGuideSeen(ctx context.Context, seen bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.putJSON(keyGuideSeen, seen)
}

// GetTutorialsSeen returns the pages whose tutorial was dismissed
func (s *Store) GetTutorialsSeen(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pages := []string{}
	if err := s.getJSON(keyTutorialsSeen, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// SetTutorialSeen marks one page's tutorial as dismissed, once
func (s *Store) SetTutorialSeen(ctx context.Context, page string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pages := []string{}
	if err := s.getJSON(keyTutorialsSeen, &pages); err != nil {
		return err
	}
	for _, p := range pages {
		if p == page {
			return nil
		}
	}
	pages = append(pages, page)
	return s.putJSON(keyTutorialsSeen, pages)
}

// rebuildIndex loads the tenant collection from disk into the btree
func (s *Store) rebuildIndex() error {
	tenants := []types.Tenant{}
	if err := s.getJSON(keyTenants, &tenants); err != nil {
		return err
	}

	s.index.Clear(false)
	for i := range tenants {
		t := tenants[i]
		s.index.ReplaceOrInsert(&t)
	}
	return nil
}

// getJSON reads one whole value. An absent key leaves v untouched, which
// yields the caller's empty default rather than an error.
func (s *Store) getJSON(key []byte, v interface{}) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketEntities).Get(key)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, v)
	})
}

func (s *Store) putJSON(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEntities).Put(key, data)
	})
}
