package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDomainCreated           EventType = "domain_created"
	EventDomainDeleted           EventType = "domain_deleted"
	EventDomainActivated         EventType = "domain_activated"
	EventDomainDeactivated       EventType = "domain_deactivated"
	EventDomainVerified          EventType = "domain_verified"
	EventDefaultRecipientUpdated EventType = "domain_default_recipient_updated"
	EventRecipientCreated        EventType = "recipient_created"
	EventRecipientVerified       EventType = "recipient_verified"
	EventRecipientDeleted        EventType = "recipient_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DomainPayload accompanies domain lifecycle events.
type DomainPayload struct {
	DomainID string `json:"domain_id"`
	Name     string `json:"domain"`
}

// DefaultRecipientPayload accompanies default-recipient changes. RecipientID
// is nil when the association was cleared.
type DefaultRecipientPayload struct {
	DomainID    string  `json:"domain_id"`
	RecipientID *string `json:"recipient_id,omitempty"`
}

// RecipientPayload accompanies recipient lifecycle events.
type RecipientPayload struct {
	RecipientID string `json:"recipient_id"`
	Email       string `json:"email"`
}
