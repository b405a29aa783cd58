package events

import (
	"time"

	"github.com/commerce-kit/backoffice-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffStatusChanged EventType = "staff_status_changed"
	EventPasswordChanged    EventType = "password_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StaffStatusChangedPayload payload.
type StaffStatusChangedPayload struct {
	StaffID string             `json:"staff_id"`
	Status  domain.StaffStatus `json:"status"`
}

// PasswordChangedPayload payload.
type PasswordChangedPayload struct {
	SubjectKind string `json:"subject_kind"`
	SubjectID   string `json:"subject_id"`
}
