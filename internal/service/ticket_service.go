package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/incident-tracker/internal/classifier"
	"github.com/spec-kit/incident-tracker/internal/domain"
	"github.com/spec-kit/incident-tracker/internal/events"
	"github.com/spec-kit/incident-tracker/internal/repository"
	apperrors "github.com/spec-kit/incident-tracker/pkg/util"
)

// TicketCache caches tickets by code. Implementations must tolerate being
// unavailable; the service treats the cache as best-effort.
type TicketCache interface {
	Get(ctx context.Context, code string) (*domain.Ticket, bool)
	Set(ctx context.Context, ticket *domain.Ticket)
	Invalidate(ctx context.Context, code string)
}

// TicketService owns the ticket lifecycle: creation with auto-classification,
// status transitions, listing, export, and the audit log discipline.
type TicketService struct {
	tickets    repository.TicketRepository
	logs       repository.EventLogRepository
	cache      TicketCache
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	EventLogRepo repository.EventLogRepository
	Cache        TicketCache
	Dispatcher   events.Dispatcher
}

// TicketCreateInput describes ticket creation payload. A nil Priority defers
// to the classifier; any explicit value, including "Medium", wins.
type TicketCreateInput struct {
	Requester   string
	Category    string
	IssueType   string
	Description string
	Context     *string
	Priority    *string
}

// TicketUpdateInput describes a partial ticket update. Nil or empty fields
// are left untouched.
type TicketUpdateInput struct {
	Status   *string
	Priority *string
	Severity *string
}

// TicketListFilter describes listing parameters. Empty or "all" values mean
// unfiltered.
type TicketListFilter struct {
	Status   string
	Priority string
	Category string
	Skip     int
	Limit    int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		logs:       deps.EventLogRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket validates input, classifies it, allocates a ticket code, and
// persists the ticket together with its "Created" audit entry.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	requester := strings.TrimSpace(input.Requester)
	issueType := strings.TrimSpace(input.IssueType)
	description := strings.TrimSpace(input.Description)
	if requester == "" || issueType == "" || description == "" {
		return nil, apperrors.NewValidationError("user_name, issue_type and description are required", nil)
	}

	suggestion := classifier.Classify(description, issueType)

	category := domain.TicketCategory(strings.TrimSpace(input.Category))
	if category == "" {
		category = suggestion.Category
	}

	priority := suggestion.Priority
	if input.Priority != nil && strings.TrimSpace(*input.Priority) != "" {
		priority = domain.TicketPriority(strings.TrimSpace(*input.Priority))
		if !priority.Valid() {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
	}

	year := time.Now().UTC().Year()
	seq, err := s.tickets.NextSequence(ctx, year)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Code:        fmt.Sprintf("INC-%d-%04d", year, seq),
		Requester:   requester,
		Category:    category,
		IssueType:   issueType,
		Description: description,
		Context:     input.Context,
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
	}

	entry := &domain.EventLog{
		Actor:  domain.ActorSystem,
		Action: "Created",
		Details: fmt.Sprintf("Ticket created by %s. Auto-classification: %s / %s",
			requester, suggestion.Category, suggestion.Priority),
	}

	if err := s.tickets.Create(ctx, ticket, entry); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketCreated,
		TicketCode: ticket.Code,
		Payload: events.TicketCreatedPayload{
			Requester: ticket.Requester,
			Category:  ticket.Category,
			IssueType: ticket.IssueType,
			Priority:  ticket.Priority,
		},
	})
	return ticket, nil
}

// UpdateTicket applies a partial update to the ticket identified by code and
// appends an "Updated" audit entry, even when nothing changed.
func (s *TicketService) UpdateTicket(ctx context.Context, code string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		next := domain.TicketStatus(strings.TrimSpace(*input.Status))
		if !next.Valid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
		applyStatusTransition(ticket, next, time.Now().UTC())
	}
	if input.Priority != nil && strings.TrimSpace(*input.Priority) != "" {
		priority := domain.TicketPriority(strings.TrimSpace(*input.Priority))
		if !priority.Valid() {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = priority
	}
	if input.Severity != nil && strings.TrimSpace(*input.Severity) != "" {
		severity := strings.TrimSpace(*input.Severity)
		ticket.Severity = &severity
	}

	entry := &domain.EventLog{
		Actor:   domain.ActorAdmin,
		Action:  "Updated",
		Details: fmt.Sprintf("Status: %s, Priority: %s", ticket.Status, ticket.Priority),
	}

	if err := s.tickets.Update(ctx, ticket, entry); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, ticket.Code)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketUpdated,
		TicketCode: ticket.Code,
		Payload: events.TicketUpdatedPayload{
			Status:     ticket.Status,
			Priority:   ticket.Priority,
			ResolvedAt: ticket.ResolvedAt,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket by its human-facing code.
func (s *TicketService) GetTicket(ctx context.Context, code string) (*domain.Ticket, error) {
	if s.cache != nil {
		if ticket, ok := s.cache.Get(ctx, code); ok {
			return ticket, nil
		}
	}
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, ticket)
	}
	return ticket, nil
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Limit:  filter.Limit,
		Offset: filter.Skip,
	}
	if v := normalizeFilterValue(filter.Status); v != "" {
		status := domain.TicketStatus(v)
		repoFilter.Status = &status
	}
	if v := normalizeFilterValue(filter.Priority); v != "" {
		priority := domain.TicketPriority(v)
		repoFilter.Priority = &priority
	}
	if v := normalizeFilterValue(filter.Category); v != "" {
		category := domain.TicketCategory(v)
		repoFilter.Category = &category
	}
	return s.tickets.List(ctx, repoFilter)
}

// ListEventLogs returns the audit trail of the ticket identified by code,
// oldest entry first.
func (s *TicketService) ListEventLogs(ctx context.Context, code string) ([]domain.EventLog, error) {
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.logs.ListByTicket(ctx, ticket.ID)
}

// applyStatusTransition moves the ticket to next and maintains the
// resolution timestamp across the terminal boundary: entering
// Resolved/Closed from outside stamps it, leaving the terminal set clears
// it, movement within either set leaves it alone.
func applyStatusTransition(ticket *domain.Ticket, next domain.TicketStatus, now time.Time) {
	switch {
	case next.Terminal() && !ticket.Status.Terminal():
		resolved := now
		ticket.ResolvedAt = &resolved
	case !next.Terminal() && ticket.Status.Terminal():
		ticket.ResolvedAt = nil
	}
	ticket.Status = next
}

// "all" is a sentinel equivalent to omitting the filter.
func normalizeFilterValue(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "all") {
		return ""
	}
	return value
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
