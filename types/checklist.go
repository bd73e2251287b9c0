package types

// RuleCategory groups SOP requirements by the Azure surface they probe
type RuleCategory string

const (
	CategoryCompute    RuleCategory = "Compute"
	CategoryStorage    RuleCategory = "Storage"
	CategoryNetwork    RuleCategory = "Network"
	CategoryProtection RuleCategory = "Protection"
	CategoryGovernance RuleCategory = "Governance"
)

// ChecklistItem is one evaluated compliance rule from the SOP catalog
type ChecklistItem struct {
	ID                string          `json:"id"`
	Label             string          `json:"label"`
	Category          RuleCategory    `json:"category"`
	Status            HealthStatus    `json:"status"`
	LastChecked       string          `json:"lastChecked"`
	Summary           string          `json:"summary"`
	ChecksPerformed   []string        `json:"checksPerformed"`
	AffectedResources []ResourceIssue `json:"affectedResources"`
	ErrorCode         string          `json:"errorCode,omitempty"`
	Cause             string          `json:"cause,omitempty"`
	Recommendation    string          `json:"recommendation,omitempty"`
	Resolution        string          `json:"resolution,omitempty"`
	Metric            *MetricValue    `json:"metric,omitempty"`
	IsApplicable      bool            `json:"isApplicable"`
}

// ResourceIssue is a synthetic cloud asset referenced by a checklist
// evaluation. It is never persisted on its own, only nested under an item.
type ResourceIssue struct {
	ResourceName string       `json:"resourceName"`
	ResourceType string       `json:"resourceType"`
	Status       HealthStatus `json:"status"`
	State        PowerState   `json:"state"`
	Message      string       `json:"message"`
	ErrorCode    string       `json:"errorCode,omitempty"`
	Cause        string       `json:"cause,omitempty"`
	Resolution   string       `json:"resolution,omitempty"`
	TenantName   string       `json:"tenantName,omitempty"`
}

// MetricValue is a named measurement carried by a checklist item
type MetricValue struct {
	Name      string          `json:"name"`
	Value     float64         `json:"value"`
	Threshold float64         `json:"threshold"`
	Unit      string          `json:"unit"`
	Status    HealthStatus    `json:"status"`
	History   []MetricReading `json:"history"`
}

// MetricReading is one timestamped sample in a metric's history
type MetricReading struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
	Status    string  `json:"status"`
}
