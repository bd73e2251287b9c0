package types

// Tenant represents one customer subscription under MSP management
type Tenant struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	SubscriptionID   string           `json:"subscriptionId"`
	ClientID         string           `json:"clientId,omitempty"`
	DirectoryID      string           `json:"tenantId,omitempty"`
	Location         string           `json:"location"`
	Status           HealthStatus     `json:"status"`
	LastScan         string           `json:"lastScan"`
	Checklist        []ChecklistItem  `json:"checklist"`
	OnboardingStatus OnboardingStatus `json:"onboardingStatus"`
	EngineerNotes    string           `json:"engineerNotes,omitempty"`
}

// DeriveStatus computes the tenant's aggregate status from its checklist.
// Status is never set independently: any Critical item wins, then Warning,
// then Healthy. A tenant with no checklist has not been scanned yet.
func (t *Tenant) DeriveStatus() HealthStatus {
	if len(t.Checklist) == 0 {
		return StatusUnknown
	}

	worst := StatusHealthy
	for _, item := range t.Checklist {
		switch item.Status {
		case StatusCritical:
			return StatusCritical
		case StatusWarning:
			worst = StatusWarning
		}
	}
	return worst
}

// HasActiveResources reports whether any checklist item references a
// resource in the Active state. An empty checklist counts as active so
// never-scanned tenants are not hidden by the live-assets filter.
func (t *Tenant) HasActiveResources() bool {
	if len(t.Checklist) == 0 {
		return true
	}
	for _, item := range t.Checklist {
		for _, res := range item.AffectedResources {
			if res.State == StateActive {
				return true
			}
		}
	}
	return false
}
