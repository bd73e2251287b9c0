package types

import "strings"

// Sentinel filter values accepted alongside concrete statuses
const (
	FilterAll             = "ALL"
	FilterActiveResources = "ACTIVE_RESOURCES"
)

// TenantFilter selects tenants by the conjunction of four predicates:
// free-text search, status, location and onboarding stage. Empty or "ALL"
// fields match everything.
type TenantFilter struct {
	Search     string `json:"search,omitempty"`
	Status     string `json:"status,omitempty"`
	Location   string `json:"location,omitempty"`
	Onboarding string `json:"onboarding,omitempty"`
}

// Matches checks if the tenant satisfies every filter predicate
func (t *Tenant) Matches(filter TenantFilter) bool {
	return t.matchesSearch(filter) &&
		t.matchesStatus(filter) &&
		t.matchesLocation(filter) &&
		t.matchesOnboarding(filter)
}

// matchesSearch does a case-insensitive substring match on name or
// subscription id
func (t *Tenant) matchesSearch(filter TenantFilter) bool {
	if filter.Search == "" {
		return true
	}
	term := strings.ToLower(filter.Search)
	return strings.Contains(strings.ToLower(t.Name), term) ||
		strings.Contains(strings.ToLower(t.SubscriptionID), term)
}

// matchesStatus checks the status predicate, including the synthetic
// ACTIVE_RESOURCES selector used by the live-assets stat card
func (t *Tenant) matchesStatus(filter TenantFilter) bool {
	switch filter.Status {
	case "", FilterAll:
		return true
	case FilterActiveResources:
		return t.HasActiveResources()
	default:
		return t.Status == HealthStatus(filter.Status)
	}
}

func (t *Tenant) matchesLocation(filter TenantFilter) bool {
	if filter.Location == "" || filter.Location == FilterAll {
		return true
	}
	return t.Location == filter.Location
}

func (t *Tenant) matchesOnboarding(filter TenantFilter) bool {
	if filter.Onboarding == "" || filter.Onboarding == FilterAll {
		return true
	}
	return t.OnboardingStatus == OnboardingStatus(filter.Onboarding)
}
