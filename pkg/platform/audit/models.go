package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by retention needs.
type EventCategory string

const (
	// CategoryCompliance covers value movement and admin configuration changes.
	CategoryCompliance EventCategory = "compliance"
	// CategoryOperations covers routine maintenance activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	// Subject is the address the action concerns.
	Subject string `json:"subject"`
	Action  string `json:"action"`
	// ActorID is the verified caller when it differs from Subject.
	ActorID   string `json:"actor_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	// Amount carries reward values as decimal strings.
	Amount string `json:"amount,omitempty"`
	Count  uint64 `json:"count,omitempty"`
}

type AuditEvent string

const (
	EventRegistryInitialized   AuditEvent = "registry_initialized"
	EventParticipationRecorded AuditEvent = "participation_recorded"
	EventRewardAmountUpdated   AuditEvent = "reward_amount_updated"
	EventRecordsSwept          AuditEvent = "records_swept"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventRegistryInitialized:   CategoryCompliance,
	EventParticipationRecorded: CategoryCompliance,
	EventRewardAmountUpdated:   CategoryCompliance,
	EventRecordsSwept:          CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store is a sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
