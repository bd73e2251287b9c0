// Package session grants and revokes dashboard sessions. There is no
// credential verification: any role and email pair is granted, matching
// the pre-backend authentication flow.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/azure-innovate/procheck/auditlog"
	"github.com/azure-innovate/procheck/storage"
	"github.com/azure-innovate/procheck/types"
)

// Manager owns the session record and the engineer roster side effects
// of logging in.
type Manager struct {
	store    storage.Storage
	recorder *auditlog.Recorder
	now      func() time.Time
}

// NewManager creates a session manager
func NewManager(store storage.Storage, recorder *auditlog.Recorder) *Manager {
	return &Manager{store: store, recorder: recorder, now: time.Now}
}

// Login grants a session for the submitted role and email. A first-time
// Engineer login is also added to the roster, online and on shift.
func (m *Manager) Login(ctx context.Context, role types.UserRole, email string) (types.User, error) {
	name := "New Engineer"
	if role == types.RoleAdmin {
		name = "Admin Engineer"
	}

	user := types.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		LastLogin: m.now().UTC().Format(time.RFC3339),
		IPAddress: "127.0.0.1",
	}

	if err := m.store.SetSession(ctx, &user); err != nil {
		return types.User{}, fmt.Errorf("failed to persist session: %w", err)
	}

	if role == types.RoleEngineer {
		if err := m.enrollEngineer(ctx, user); err != nil {
			return types.User{}, err
		}
	}

	_, err := m.recorder.Append(ctx, types.LogEntry{
		Type:     types.LogSecurity,
		Severity: types.SeverityInfo,
		User:     user.Name,
		Message:  "Account login authorized.",
	})
	if err != nil {
		return types.User{}, err
	}
	return user, nil
}

// Logout clears the current session
func (m *Manager) Logout(ctx context.Context) error {
	user, err := m.store.GetSession(ctx)
	if err != nil {
		return err
	}

	actor := "System"
	if user != nil {
		actor = user.Name
	}

	if err := m.store.SetSession(ctx, nil); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	_, err = m.recorder.Append(ctx, types.LogEntry{
		Type:     types.LogSecurity,
		Severity: types.SeverityInfo,
		User:     actor,
		Message:  "Session terminated by user.",
	})
	return err
}

// Current returns the active session user, or nil when logged out
func (m *Manager) Current(ctx context.Context) (*types.User, error) {
	return m.store.GetSession(ctx)
}

// GuideSeen reports whether the onboarding guide was dismissed
func (m *Manager) GuideSeen(ctx context.Context) (bool, error) {
	return m.store.GetGuideSeen(ctx)
}

// DismissGuide records the onboarding guide dismissal
func (m *Manager) DismissGuide(ctx context.Context) error {
	return m.store.SetGuideSeen(ctx, true)
}

// TutorialsSeen returns the pages whose tutorial was dismissed
func (m *Manager) TutorialsSeen(ctx context.Context) ([]string, error) {
	return m.store.GetTutorialsSeen(ctx)
}

// DismissTutorial marks one page's tutorial as dismissed
func (m *Manager) DismissTutorial(ctx context.Context, page string) error {
	return m.store.SetTutorialSeen(ctx, page)
}

// enrollEngineer appends a first-time engineer to the roster. The store
// keys the roster by email, so concurrent logins enroll once.
func (m *Manager) enrollEngineer(ctx context.Context, user types.User) error {
	return m.store.AddEngineer(ctx, types.Engineer{
		User:            user,
		Status:          types.PresenceOnline,
		CurrentTask:     "Initial security walkthrough",
		AssignedTenants: []string{},
		ShiftStart:      m.now().UTC().Format(time.RFC3339),
	})
}
