package dto

import (
	"time"

	"github.com/spec-kit/incident-tracker/internal/domain"
)

// CreateTicketRequest payload. Priority is a pointer so that an omitted value
// is distinguishable from an explicit choice; only explicit values override
// the classifier.
type CreateTicketRequest struct {
	UserName    string  `json:"user_name"`
	Category    string  `json:"category"`
	IssueType   string  `json:"issue_type"`
	Description string  `json:"description"`
	Context     *string `json:"context"`
	Priority    *string `json:"priority"`
}

// UpdateTicketRequest payload. Notes is accepted for wire compatibility but
// not interpreted.
type UpdateTicketRequest struct {
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
	Severity *string `json:"severity"`
	Notes    *string `json:"notes"`
}

// TicketResponse is the wire shape of a ticket. All timestamps are UTC.
type TicketResponse struct {
	ID          string                `json:"id"`
	TicketID    string                `json:"ticket_id"`
	UserName    string                `json:"user_name"`
	Category    domain.TicketCategory `json:"category"`
	IssueType   string                `json:"issue_type"`
	Description string                `json:"description"`
	Context     *string               `json:"context"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	Severity    *string               `json:"severity"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	ResolvedAt  *time.Time            `json:"resolved_at"`
}

// EventLogResponse is the wire shape of an audit entry.
type EventLogResponse struct {
	ID        string            `json:"id"`
	TicketID  string            `json:"ticket_id"`
	Timestamp time.Time         `json:"timestamp"`
	Actor     domain.EventActor `json:"actor"`
	Action    string            `json:"action"`
	Details   string            `json:"details"`
}
