package analyzer

import (
	"strings"

	"github.com/azure-innovate/procheck/types"
)

// ResourceStats summarizes a flattened resource view for the inventory
// readiness charts
type ResourceStats struct {
	Total      int `json:"total"`
	Unhealthy  int `json:"unhealthy"`
	HealthyPct int `json:"healthyPct"`
	ActivePct  int `json:"activePct"`
}

// TenantResources flattens one tenant's checklist into its resource list,
// deduplicated by resource name. Checklist items reference the same
// physical pair, so each asset appears once.
func TenantResources(tenant types.Tenant) []types.ResourceIssue {
	seen := make(map[string]bool)
	resources := []types.ResourceIssue{}
	for _, item := range tenant.Checklist {
		for _, res := range item.AffectedResources {
			if seen[res.ResourceName] {
				continue
			}
			seen[res.ResourceName] = true
			resources = append(resources, res)
		}
	}
	return resources
}

// PortfolioResources flattens every tenant's resources into one inventory,
// each row tagged with its owning tenant. No cross-tenant dedup: the same
// row from two checklist items of one tenant is listed twice, matching the
// inventory view.
func PortfolioResources(tenants []types.Tenant) []types.ResourceIssue {
	resources := []types.ResourceIssue{}
	for _, t := range tenants {
		for _, item := range t.Checklist {
			for _, res := range item.AffectedResources {
				res.TenantName = t.Name
				resources = append(resources, res)
			}
		}
	}
	return resources
}

// ComputeResourceStats derives inventory readiness percentages
func ComputeResourceStats(resources []types.ResourceIssue) ResourceStats {
	stats := ResourceStats{Total: len(resources)}
	if stats.Total == 0 {
		return stats
	}

	healthy := 0
	active := 0
	for _, res := range resources {
		if res.Status == types.StatusHealthy {
			healthy++
		}
		if res.State == types.StateActive {
			active++
		}
	}

	stats.Unhealthy = stats.Total - healthy
	stats.HealthyPct = int(float64(healthy)/float64(stats.Total)*100 + 0.5)
	stats.ActivePct = int(float64(active)/float64(stats.Total)*100 + 0.5)
	return stats
}

// FilterResources keeps rows whose resource or owning tenant name contains
// the search term, and whose type matches the type filter ("All" matches
// every type).
func FilterResources(resources []types.ResourceIssue, search, typeFilter string) []types.ResourceIssue {
	term := strings.ToLower(search)
	filtered := make([]types.ResourceIssue, 0, len(resources))
	for _, res := range resources {
		matchesSearch := term == "" ||
			strings.Contains(strings.ToLower(res.ResourceName), term) ||
			strings.Contains(strings.ToLower(res.TenantName), term)
		matchesType := typeFilter == "" || typeFilter == "All" || res.ResourceType == typeFilter
		if matchesSearch && matchesType {
			filtered = append(filtered, res)
		}
	}
	return filtered
}

// ResourceTypes returns the distinct resource types in first-seen order
func ResourceTypes(resources []types.ResourceIssue) []string {
	seen := make(map[string]bool)
	resourceTypes := []string{}
	for _, res := range resources {
		if seen[res.ResourceType] {
			continue
		}
		seen[res.ResourceType] = true
		resourceTypes = append(resourceTypes, res.ResourceType)
	}
	return resourceTypes
}
