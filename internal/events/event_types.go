package events

import (
	"time"

	"github.com/spec-kit/incident-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated EventType = "ticket_created"
	EventTicketUpdated EventType = "ticket_updated"
)

// Event represents a domain event emitted by the lifecycle manager.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TicketCode string      `json:"ticket_code"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Requester string                `json:"requester"`
	Category  domain.TicketCategory `json:"category"`
	IssueType string                `json:"issue_type"`
	Priority  domain.TicketPriority `json:"priority"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	Status     domain.TicketStatus   `json:"status"`
	Priority   domain.TicketPriority `json:"priority"`
	ResolvedAt *time.Time            `json:"resolved_at,omitempty"`
}
