package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/incident-tracker/internal/domain"
)

// EventLogRepository reads audit entries. Writes happen inside the ticket
// repository's transactions; log rows are append-only.
type EventLogRepository interface {
	ListByTicket(ctx context.Context, ticketID string) ([]domain.EventLog, error)
}

type eventLogRepository struct {
	pool *pgxpool.Pool
}

// NewEventLogRepository builds repository.
func NewEventLogRepository(pool *pgxpool.Pool) EventLogRepository {
	return &eventLogRepository{pool: pool}
}

func (r *eventLogRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.EventLog, error) {
	const query = `
        SELECT id, ticket_id, timestamp, actor, action, details
        FROM event_logs WHERE ticket_id=$1 ORDER BY timestamp ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EventLog
	for rows.Next() {
		var entry domain.EventLog
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.Timestamp,
			&entry.Actor,
			&entry.Action,
			&entry.Details,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
