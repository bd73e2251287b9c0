// Package analyzer recomputes derived portfolio state from the tenant
// collection: dashboard statistics, filtered views and resource
// inventories. Everything here is a pure function of its inputs.
package analyzer

import "github.com/azure-innovate/procheck/types"

// Placeholder resource counts per tenant shown before any scan has run.
// Kept literally from the dashboard's behavior: a zero walk result is
// displayed as seeded counts, not as zero.
const (
	placeholderActivePerTenant = 8
	placeholderIdlePerTenant   = 2
)

// ComputeStats derives the portfolio-wide dashboard statistics. Two calls
// with an unchanged collection return identical results.
func ComputeStats(tenants []types.Tenant) types.DashboardStats {
	stats := types.DashboardStats{TotalTenants: len(tenants)}

	for _, t := range tenants {
		switch t.Status {
		case types.StatusHealthy:
			stats.HealthyCount++
		case types.StatusWarning:
			stats.WarningCount++
		case types.StatusCritical:
			stats.CriticalCount++
		}

		for _, item := range t.Checklist {
			for _, res := range item.AffectedResources {
				if res.State == types.StateActive {
					stats.ActiveResources++
				} else {
					stats.IdleResources++
				}
			}
		}
	}

	if stats.ActiveResources == 0 {
		stats.ActiveResources = len(tenants) * placeholderActivePerTenant
	}
	if stats.IdleResources == 0 {
		stats.IdleResources = len(tenants) * placeholderIdlePerTenant
	}
	return stats
}

// FilterTenants returns the tenants matching every filter predicate.
// Filtering is idempotent and never mutates the input.
func FilterTenants(tenants []types.Tenant, filter types.TenantFilter) []types.Tenant {
	filtered := make([]types.Tenant, 0, len(tenants))
	for _, t := range tenants {
		if t.Matches(filter) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Locations returns the distinct tenant locations in first-seen order
func Locations(tenants []types.Tenant) []string {
	seen := make(map[string]bool)
	locations := []string{}
	for _, t := range tenants {
		if t.Location == "" || seen[t.Location] {
			continue
		}
		seen[t.Location] = true
		locations = append(locations, t.Location)
	}
	return locations
}
