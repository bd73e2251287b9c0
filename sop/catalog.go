// Package sop holds the fixed catalog of health requirements evaluated
// on every tenant scan, plus the error taxonomy used to annotate
// non-healthy findings.
package sop

import "github.com/azure-innovate/procheck/types"

// Requirement is one catalog rule definition. Ids are stable across scans
// so checklist items can be compared by id over time.
type Requirement struct {
	ID       string             `json:"id"`
	Label    string             `json:"label"`
	Category types.RuleCategory `json:"category"`
}

// Requirements is the fixed 8-point SOP catalog
var Requirements = []Requirement{
	{ID: "cpu", Label: "CPU Utilization < 80%", Category: types.CategoryCompute},
	{ID: "mem", Label: "Memory Utilization < 80%", Category: types.CategoryCompute},
	{ID: "disk", Label: "Disk Free Space > 20%", Category: types.CategoryStorage},
	{ID: "alerts", Label: "Alerts (Last 24h)", Category: types.CategoryNetwork},
	{ID: "backup", Label: "Backup Success", Category: types.CategoryProtection},
	{ID: "vpn", Label: "VPN Availability", Category: types.CategoryNetwork},
	{ID: "cost", Label: "Daily Cost Trend", Category: types.CategoryGovernance},
	{ID: "reshealth", Label: "Azure Resource Health", Category: types.CategoryGovernance},
}

// DefaultThresholds are the scoring cutoffs applied when no settings have
// been saved yet. Disk thresholds are free-space percentages, so lower is
// worse.
func DefaultThresholds() types.ThresholdSettings {
	return types.ThresholdSettings{
		CPU:  types.ThresholdBand{Warning: 75, Critical: 90},
		Mem:  types.ThresholdBand{Warning: 80, Critical: 92},
		Disk: types.ThresholdBand{Warning: 15, Critical: 5},
	}
}
