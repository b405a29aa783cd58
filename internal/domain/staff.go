package domain

import "time"

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleAgent    StaffRole = "AGENT"
	StaffRoleDesigner StaffRole = "DESIGNER"
)

// StaffStatus is the persisted projection of live presence.
type StaffStatus string

const (
	StaffStatusOnline  StaffStatus = "online"
	StaffStatusOffline StaffStatus = "offline"
)

// Staff models an agent or designer operating the back office.
// Status is a cached projection of the in-memory presence registry and must
// only be written through the presence tracker.
type Staff struct {
	ID                   string
	Name                 string
	Email                string
	PasswordHash         string
	Role                 StaffRole
	CommissionPercentage float64
	Status               StaffStatus
	TokenEpoch           int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
