package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure-innovate/procheck/types"
)

func tenantWithResources(id, name string, states ...types.PowerState) types.Tenant {
	resources := make([]types.ResourceIssue, 0, len(states))
	for i, state := range states {
		resources = append(resources, types.ResourceIssue{
			ResourceName: name + "-vm-" + string(rune('a'+i)),
			ResourceType: "Virtual Machine",
			Status:       types.StatusHealthy,
			State:        state,
		})
	}
	return types.Tenant{
		ID:     id,
		Name:   name,
		Status: types.StatusHealthy,
		Checklist: []types.ChecklistItem{
			{ID: "cpu", Status: types.StatusHealthy, AffectedResources: resources},
		},
	}
}

func TestComputeStats(t *testing.T) {
	tenants := []types.Tenant{
		tenantWithResources("t-1", "acme", types.StateActive, types.StateIdle),
		{ID: "t-2", Name: "warn", Status: types.StatusWarning, Checklist: []types.ChecklistItem{
			{ID: "cpu", Status: types.StatusWarning, AffectedResources: []types.ResourceIssue{
				{ResourceName: "war-vm-a", State: types.StateActive},
			}},
		}},
		{ID: "t-3", Name: "crit", Status: types.StatusCritical},
	}

	stats := ComputeStats(tenants)
	assert.Equal(t, 3, stats.TotalTenants)
	assert.Equal(t, 1, stats.HealthyCount)
	assert.Equal(t, 1, stats.WarningCount)
	assert.Equal(t, 1, stats.CriticalCount)
	assert.Equal(t, 2, stats.ActiveResources)
	assert.Equal(t, 1, stats.IdleResources)
}

func TestComputeStats_PlaceholderFallback(t *testing.T) {
	// No checklist anywhere: counts fall back to the seeded display values
	tenants := []types.Tenant{
		{ID: "t-1", Status: types.StatusHealthy},
		{ID: "t-2", Status: types.StatusHealthy},
	}

	stats := ComputeStats(tenants)
	assert.Equal(t, 2*placeholderActivePerTenant, stats.ActiveResources)
	assert.Equal(t, 2*placeholderIdlePerTenant, stats.IdleResources)
}

func TestComputeStats_Pure(t *testing.T) {
	tenants := []types.Tenant{tenantWithResources("t-1", "acme", types.StateActive)}

	first := ComputeStats(tenants)
	second := ComputeStats(tenants)
	assert.Equal(t, first, second)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)
	assert.Equal(t, types.DashboardStats{}, stats)
}

func TestFilterTenants(t *testing.T) {
	tenants := []types.Tenant{
		{ID: "t-1", Name: "Acme Corp", SubscriptionID: "sub-1"},
		{ID: "t-2", Name: "Other Co", SubscriptionID: "sub-2"},
	}

	filter := types.TenantFilter{
		Search:     "acme",
		Status:     types.FilterAll,
		Location:   types.FilterAll,
		Onboarding: types.FilterAll,
	}

	filtered := FilterTenants(tenants, filter)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Acme Corp", filtered[0].Name)
}

func TestFilterTenants_Idempotent(t *testing.T) {
	tenants := []types.Tenant{
		{ID: "t-1", Name: "Acme Corp", Location: "westeurope"},
		{ID: "t-2", Name: "Beta LLC", Location: "eastus"},
		{ID: "t-3", Name: "Acme EU", Location: "westeurope"},
	}
	filter := types.TenantFilter{Search: "acme", Location: "westeurope"}

	once := FilterTenants(tenants, filter)
	twice := FilterTenants(once, filter)
	assert.Equal(t, once, twice)
}

func TestLocations(t *testing.T) {
	tenants := []types.Tenant{
		{ID: "t-1", Location: "westeurope"},
		{ID: "t-2", Location: "eastus"},
		{ID: "t-3", Location: "westeurope"},
		{ID: "t-4"},
	}
	assert.Equal(t, []string{"westeurope", "eastus"}, Locations(tenants))
}
