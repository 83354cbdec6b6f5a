package events

import (
	"time"

	"github.com/spec-kit/lead-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadCreated       EventType = "lead_created"
	EventLeadStatusChanged EventType = "lead_status_changed"
	EventLeadAssigned      EventType = "lead_assigned"
	EventAssignmentUpdated EventType = "assignment_updated"
	EventRealtorRegistered EventType = "realtor_registered"
)

// Actor encapsulates actor metadata for an event. UserID is nil for the
// anonymous intake form.
type Actor struct {
	UserID *string      `json:"user_id,omitempty"`
	Role   *domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	LeadID    string      `json:"lead_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LeadCreatedPayload payload.
type LeadCreatedPayload struct {
	LeadRef       string  `json:"lead_ref"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	PropertyValue float64 `json:"property_value"`
}

// LeadStatusChangedPayload payload.
type LeadStatusChangedPayload struct {
	OldStatus domain.LeadStatus `json:"old_status"`
	NewStatus domain.LeadStatus `json:"new_status"`
}

// LeadAssignedPayload payload.
type LeadAssignedPayload struct {
	AssignmentID  string `json:"assignment_id"`
	RealtorUserID string `json:"realtor_user_id"`
}

// AssignmentUpdatedPayload payload.
type AssignmentUpdatedPayload struct {
	AssignmentID string                  `json:"assignment_id"`
	OldStatus    domain.AssignmentStatus `json:"old_status"`
	NewStatus    domain.AssignmentStatus `json:"new_status"`
	Comments     string                  `json:"comments,omitempty"`
}

// RealtorRegisteredPayload payload.
type RealtorRegisteredPayload struct {
	ProfileID string `json:"profile_id"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
}
