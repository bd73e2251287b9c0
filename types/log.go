package types

// LogType classifies audit log entries by the subsystem that emitted them
type LogType string

const (
	LogSystem   LogType = "System"
	LogAudit    LogType = "Audit"
	LogSecurity LogType = "Security"
	LogTenant   LogType = "Tenant"
)

// LogSeverity is the severity grade of an audit log entry
type LogSeverity string

const (
	SeverityInfo    LogSeverity = "Info"
	SeverityWarning LogSeverity = "Warning"
	SeverityError   LogSeverity = "Error"
)

// LogEntry is an immutable audit record. Entries are only ever appended;
// the store bulk-trims beyond its cap but never mutates or deletes one.
type LogEntry struct {
	ID         string      `json:"id"`
	Timestamp  string      `json:"timestamp"`
	Type       LogType     `json:"type"`
	Severity   LogSeverity `json:"severity"`
	User       string      `json:"user"`
	Message    string      `json:"message"`
	TargetID   string      `json:"targetId,omitempty"`
	TenantID   string      `json:"tenantId,omitempty"`
	TenantName string      `json:"tenantName,omitempty"`
}
