package dto

import "github.com/commerce-kit/backoffice-service/internal/domain"

// StaffCreateRequest payload for registering staff.
type StaffCreateRequest struct {
	Name                 string  `json:"name" validate:"required,min=2"`
	Email                string  `json:"email" validate:"required,email"`
	Password             string  `json:"password" validate:"required,min=8"`
	Role                 string  `json:"role" validate:"required,oneof=AGENT DESIGNER"`
	CommissionPercentage float64 `json:"commission_percentage" validate:"gte=0,lte=100"`
}

// StaffUpdateRequest payload for partial staff updates.
type StaffUpdateRequest struct {
	Name                 *string  `json:"name,omitempty" validate:"omitempty,min=2"`
	Email                *string  `json:"email,omitempty" validate:"omitempty,email"`
	Role                 *string  `json:"role,omitempty" validate:"omitempty,oneof=AGENT DESIGNER"`
	CommissionPercentage *float64 `json:"commission_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// StaffResponse is the API view of a staff member.
type StaffResponse struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Email                string             `json:"email"`
	Role                 domain.StaffRole   `json:"role"`
	CommissionPercentage float64            `json:"commission_percentage"`
	Status               domain.StaffStatus `json:"status"`
}

// PresenceResponse lists staff ids with at least one live connection.
type PresenceResponse struct {
	Online []string `json:"online"`
}
