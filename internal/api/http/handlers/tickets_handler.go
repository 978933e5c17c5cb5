package handlers

import (
	"bytes"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-tracker/internal/api/dto"
	"github.com/spec-kit/incident-tracker/internal/domain"
	"github.com/spec-kit/incident-tracker/internal/service"
	apperrors "github.com/spec-kit/incident-tracker/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Requester:   req.UserName,
		Category:    req.Category,
		IssueType:   req.IssueType,
		Description: req.Description,
		Context:     req.Context,
		Priority:    req.Priority,
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ticketResponse(ticket))
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := service.TicketListFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Skip:     parseInt(c.Query("skip"), 0),
		Limit:    parseInt(c.Query("limit"), 100),
	}
	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(items)
}

// ExportTickets GET /tickets/export.
func (h *TicketsHandler) ExportTickets(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.ExportCSV(c.UserContext(), &buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=tickets_export.csv`)
	return c.Send(buf.Bytes())
}

// GetTicket GET /tickets/:code.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

// UpdateTicket PUT /tickets/:code.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketUpdateInput{
		Status:   req.Status,
		Priority: req.Priority,
		Severity: req.Severity,
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("code"), input)
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

// ListEventLogs GET /tickets/:code/logs.
func (h *TicketsHandler) ListEventLogs(c *fiber.Ctx) error {
	entries, err := h.service.ListEventLogs(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	items := make([]dto.EventLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.EventLogResponse{
			ID:        entry.ID,
			TicketID:  entry.TicketID,
			Timestamp: entry.Timestamp,
			Actor:     entry.Actor,
			Action:    entry.Action,
			Details:   entry.Details,
		})
	}
	return c.JSON(items)
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:          ticket.ID,
		TicketID:    ticket.Code,
		UserName:    ticket.Requester,
		Category:    ticket.Category,
		IssueType:   ticket.IssueType,
		Description: ticket.Description,
		Context:     ticket.Context,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		Severity:    ticket.Severity,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		ResolvedAt:  ticket.ResolvedAt,
	}
}
