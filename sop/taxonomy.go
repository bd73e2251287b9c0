package sop

// Failure describes one known failure class: the stable error code shown
// to engineers, the probable cause and the documented remediation.
type Failure struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Cause      string `json:"cause"`
	Resolution string `json:"resolution"`
}

// Error taxonomy keyed by failure class
var (
	HighCPU = Failure{
		Code:       "CMP-101",
		Message:    "CPU Threshold Breach",
		Cause:      "Sustained high load on application pool or background processing jobs.",
		Resolution: "Vertical scaling (increase SKU) or Horizontal scaling (add instances). Check for memory leaks.",
	}
	HighMem = Failure{
		Code:       "CMP-102",
		Message:    "Memory Exhaustion",
		Cause:      "Application leak or insufficient allocation for workload peak.",
		Resolution: "Enable memory paging, restart services, or upgrade to a High-Memory VM SKU.",
	}
	LowDisk = Failure{
		Code:       "STG-201",
		Message:    "Disk Capacity Warning",
		Cause:      "Log file accumulation or unplanned data growth in /temp directories.",
		Resolution: "Cleanup transaction logs, expand managed disk size, or implement auto-grow policies.",
	}
	VPNDown = Failure{
		Code:       "NET-301",
		Message:    "VPN Gateway Unavailable",
		Cause:      "IKE Phase 1/2 mismatch or peer gateway is unreachable.",
		Resolution: "Verify Local Network Gateway IP and Shared Key. Reset Gateway in Azure Portal if stuck.",
	}
	FirewallHealth = Failure{
		Code:       "NET-302",
		Message:    "Firewall Resource Error",
		Cause:      "Failed health probe on internal backend listener.",
		Resolution: "Check Application Gateway health probes and backend pools.",
	}
	CostSpike = Failure{
		Code:       "GOV-401",
		Message:    "Daily Cost Spike Detected",
		Cause:      "Unexpected scale-out event or new resource deployment (e.g. Cognitive Services).",
		Resolution: "Review Activity Logs for \"Write\" operations by users and set up budget alerts.",
	}
	ResourceUnhealthy = Failure{
		Code:       "GOV-402",
		Message:    "Resource Health Event",
		Cause:      "Azure Platform hardware failure or planned maintenance.",
		Resolution: "None (Platform Managed). Monitor for \"Resolved\" status or failover to secondary region.",
	}
)

// Failures lists the whole taxonomy in code order
func Failures() []Failure {
	return []Failure{
		HighCPU,
		HighMem,
		LowDisk,
		VPNDown,
		FirewallHealth,
		CostSpike,
		ResourceUnhealthy,
	}
}
