package storage

import (
	"context"

	"github.com/azure-innovate/procheck/types"
)

// TenantReader queries the tenant collection
type TenantReader interface {
	GetTenants(ctx context.Context) ([]types.Tenant, error)
	GetTenant(ctx context.Context, id string) (*types.Tenant, bool, error)
}

// TenantWriter mutates the tenant collection
type TenantWriter interface {
	SaveTenants(ctx context.Context, tenants []types.Tenant) error
	AddTenant(ctx context.Context, tenant types.Tenant) error
	RemoveTenant(ctx context.Context, id string) (*types.Tenant, bool, error)
	UpdateTenant(ctx context.Context, id string, fn func(*types.Tenant)) error
}

// TenantStorage combines tenant reads and writes
type TenantStorage interface {
	TenantReader
	TenantWriter
}

// LogStorage persists the audit log as one whole value
type LogStorage interface {
	GetLogs(ctx context.Context) ([]types.LogEntry, error)
	SaveLogs(ctx context.Context, logs []types.LogEntry) error
}

// RosterStorage persists the engineer roster
type RosterStorage interface {
	GetEngineers(ctx context.Context) ([]types.Engineer, error)
	SaveEngineers(ctx context.Context, engineers []types.Engineer) error
	AddEngineer(ctx context.Context, engineer types.Engineer) error
}

// SettingsStorage persists threshold settings
type SettingsStorage interface {
	GetSettings(ctx context.Context) (*types.ThresholdSettings, error)
	SaveSettings(ctx context.Context, settings types.ThresholdSettings) error
}

// SessionStorage persists the current session and UI dismissal flags
type SessionStorage interface {
	GetSession(ctx context.Context) (*types.User, error)
	SetSession(ctx context.Context, user *types.User) error
	GetGuideSeen(ctx context.Context) (bool, error)
	SetGuideSeen(ctx context.Context, seen bool) error
	GetTutorialsSeen(ctx context.Context) ([]string, error)
	SetTutorialSeen(ctx context.Context, page string) error
}

// Lifecycle manages store lifecycle
type Lifecycle interface {
	Close() error
}

// Storage is the complete persistence contract
type Storage interface {
	TenantStorage
	LogStorage
	RosterStorage
	SettingsStorage
	SessionStorage
	Lifecycle
}
