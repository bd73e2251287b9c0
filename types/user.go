package types

// UserRole controls which dashboard operations a session may perform
type UserRole string

const (
	RoleAdmin    UserRole = "Admin"
	RoleEngineer UserRole = "Engineer"
	RoleReader   UserRole = "Reader"
)

// PresenceStatus is an engineer's availability on the current shift
type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceOffline PresenceStatus = "offline"
)

// User is an authenticated dashboard operator
type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	Avatar    string   `json:"avatar,omitempty"`
	LastLogin string   `json:"lastLogin,omitempty"`
	IPAddress string   `json:"ipAddress,omitempty"`
}

// Engineer extends User with shift and assignment state
type Engineer struct {
	User
	Status          PresenceStatus `json:"status"`
	CurrentTask     string         `json:"currentTask"`
	AssignedTenants []string       `json:"assignedTenants"`
	ShiftStart      string         `json:"shiftStart,omitempty"`
}
