package service

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/spec-kit/incident-tracker/internal/domain"
)

// exportColumns is the fixed CSV header order.
var exportColumns = []string{
	"Ticket ID", "User", "Category", "Issue Type", "Description",
	"Status", "Priority", "Created At", "Resolved At",
}

// ExportCSV writes a full unfiltered dump of all tickets to w.
func (s *TicketService) ExportCSV(ctx context.Context, w io.Writer) error {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportColumns); err != nil {
		return err
	}
	for i := range tickets {
		if err := writer.Write(exportRow(&tickets[i])); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func exportRow(ticket *domain.Ticket) []string {
	resolvedAt := ""
	if ticket.ResolvedAt != nil {
		resolvedAt = ticket.ResolvedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		ticket.Code,
		ticket.Requester,
		string(ticket.Category),
		ticket.IssueType,
		ticket.Description,
		string(ticket.Status),
		string(ticket.Priority),
		ticket.CreatedAt.UTC().Format(time.RFC3339),
		resolvedAt,
	}
}
