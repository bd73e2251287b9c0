package types

// ThresholdBand holds the warning and critical cutoffs for one metric
type ThresholdBand struct {
	Warning  float64 `json:"warning" yaml:"warning"`
	Critical float64 `json:"critical" yaml:"critical"`
}

// ThresholdSettings are the per-metric scoring thresholds. The settings
// surface replaces the whole object on save; bands are never patched
// individually.
type ThresholdSettings struct {
	CPU  ThresholdBand `json:"cpu" yaml:"cpu"`
	Mem  ThresholdBand `json:"mem" yaml:"mem"`
	Disk ThresholdBand `json:"disk" yaml:"disk"`
}

// DashboardStats is the portfolio-wide summary shown on the hub view
type DashboardStats struct {
	TotalTenants    int `json:"totalTenants"`
	HealthyCount    int `json:"healthyCount"`
	WarningCount    int `json:"warningCount"`
	CriticalCount   int `json:"criticalCount"`
	ActiveResources int `json:"activeResources"`
	IdleResources   int `json:"idleResources"`
}
