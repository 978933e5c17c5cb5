package domain

import "time"

// EventActor identifies who performed a logged action.
type EventActor string

const (
	ActorSystem EventActor = "System"
	ActorAdmin  EventActor = "Admin"
	ActorUser   EventActor = "User"
)

// EventLog is an immutable audit trail entry owned by a ticket. Entries are
// appended once per create and once per update and never changed afterwards.
type EventLog struct {
	ID        string
	TicketID  string
	Timestamp time.Time
	Actor     EventActor
	Action    string
	Details   string
}
