package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// Terminal reports whether the status carries a resolution timestamp.
// Tickets may leave the terminal set again; reopening clears the timestamp.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// Valid reports whether the status is one of the documented states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// Valid reports whether the priority is one of the documented levels.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// TicketCategory labels the kind of request. Stored as text; the set is
// extensible and the store does not enforce membership.
type TicketCategory string

const (
	CategoryAccessRequest  TicketCategory = "Access Request"
	CategoryIncidentReport TicketCategory = "Incident Report"
)

// Ticket is the aggregate for incident reports and access requests.
type Ticket struct {
	ID          string
	Code        string
	Requester   string
	Category    TicketCategory
	IssueType   string
	Description string
	Context     *string
	Status      TicketStatus
	Priority    TicketPriority
	Severity    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time
}
