package scanner

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure-innovate/procheck/sop"
	"github.com/azure-innovate/procheck/types"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func TestGenerator_Generate(t *testing.T) {
	gen := NewGeneratorWithSeed(42, fixedNow)

	checklist := gen.Generate(types.StatusUnknown, "Acme Corp")
	require.Len(t, checklist, len(sop.Requirements))

	for i, item := range checklist {
		assert.Equal(t, sop.Requirements[i].ID, item.ID)
		assert.Equal(t, sop.Requirements[i].Label, item.Label)
		assert.Equal(t, sop.Requirements[i].Category, item.Category)
		assert.Equal(t, types.StatusHealthy, item.Status)
		assert.Equal(t, "Verification successful for "+item.Label+".", item.Summary)
		assert.Equal(t, []string{"REST Probe", "LAW Query"}, item.ChecksPerformed)
		assert.True(t, item.IsApplicable)
		assert.Equal(t, fixedNow().Format(time.RFC3339), item.LastChecked)
	}
}

func TestGenerator_CPUMetric(t *testing.T) {
	gen := NewGeneratorWithSeed(7, fixedNow)

	for i := 0; i < 100; i++ {
		checklist := gen.Generate(types.StatusHealthy, "Contoso")
		for _, item := range checklist {
			if item.ID != "cpu" {
				assert.Nil(t, item.Metric)
				continue
			}
			require.NotNil(t, item.Metric)
			assert.Equal(t, "CPU", item.Metric.Name)
			assert.GreaterOrEqual(t, item.Metric.Value, 35.0)
			assert.Less(t, item.Metric.Value, 55.0)
			assert.Equal(t, float64(cpuThreshold), item.Metric.Threshold)
			assert.Equal(t, "%", item.Metric.Unit)
		}
	}
}

func TestGenerator_TightThresholdsFlagCPU(t *testing.T) {
	gen := NewGeneratorWithSeed(7, fixedNow).WithThresholds(types.ThresholdSettings{
		CPU:  types.ThresholdBand{Warning: 30, Critical: 99},
		Mem:  types.ThresholdBand{Warning: 80, Critical: 92},
		Disk: types.ThresholdBand{Warning: 15, Critical: 5},
	})

	checklist := gen.Generate(types.StatusHealthy, "Contoso")
	for _, item := range checklist {
		if item.ID != "cpu" {
			assert.Equal(t, types.StatusHealthy, item.Status)
			continue
		}
		// The draw lives in [35,55), always past a warning cutoff of 30
		assert.Equal(t, types.StatusWarning, item.Status)
		assert.Equal(t, types.StatusWarning, item.Metric.Status)
		assert.Equal(t, sop.HighCPU.Code, item.ErrorCode)
		assert.Equal(t, sop.HighCPU.Cause, item.Cause)
		assert.Equal(t, sop.HighCPU.Resolution, item.Resolution)
	}
}

func TestGenerator_SyntheticResources(t *testing.T) {
	gen := NewGeneratorWithSeed(1, fixedNow)

	checklist := gen.Generate(types.StatusHealthy, "Acme Corp")
	for _, item := range checklist {
		require.Len(t, item.AffectedResources, 2)
		assert.Equal(t, "acm-vm-app-01", item.AffectedResources[0].ResourceName)
		assert.Equal(t, "acm-vm-db-01", item.AffectedResources[1].ResourceName)
		for _, res := range item.AffectedResources {
			assert.Equal(t, "Virtual Machine", res.ResourceType)
			assert.Equal(t, types.StatusHealthy, res.Status)
			assert.Equal(t, types.StateActive, res.State)
			assert.Equal(t, "Steady state", res.Message)
		}
	}
}

func TestGenerator_ShortTenantName(t *testing.T) {
	gen := NewGeneratorWithSeed(1, fixedNow)

	checklist := gen.Generate(types.StatusHealthy, "Io")
	require.NotEmpty(t, checklist)
	assert.Equal(t, "io-vm-app-01", checklist[0].AffectedResources[0].ResourceName)
}

func TestGenerator_NonASCIITenantName(t *testing.T) {
	gen := NewGeneratorWithSeed(1, fixedNow)

	checklist := gen.Generate(types.StatusHealthy, "Österreich AG")
	require.NotEmpty(t, checklist)

	name := checklist[0].AffectedResources[0].ResourceName
	assert.Equal(t, "öst-vm-app-01", name)
	assert.True(t, utf8.ValidString(name))
}
