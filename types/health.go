package types

// HealthStatus is the aggregate health of a tenant, checklist item or resource
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "Healthy"
	StatusWarning  HealthStatus = "Warning"
	StatusCritical HealthStatus = "Critical"
	StatusUnknown  HealthStatus = "Unknown"
	StatusNA       HealthStatus = "N/A"
	StatusDisabled HealthStatus = "Disabled by Policy"
)

// PowerState describes whether a resource is actively serving or idle
type PowerState string

const (
	StateActive PowerState = "Active"
	StateIdle   PowerState = "Idle"
)

// OnboardingStatus tracks a tenant's lifecycle in the MSP onboarding flow
type OnboardingStatus string

const (
	OnboardingPending  OnboardingStatus = "Pending"
	OnboardingComplete OnboardingStatus = "Complete"
	OnboardingMissing  OnboardingStatus = "Missing Prerequisites"
)
