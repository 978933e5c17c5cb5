package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/incident-tracker/internal/domain"
)

// TicketFilter captures listing parameters. Nil fields are unfiltered.
type TicketFilter struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	Category *domain.TicketCategory
	Limit    int
	Offset   int
}

// TicketRepository encapsulates ticket persistence. Create and Update write
// the ticket and its audit entry inside a single transaction so that no
// mutation is ever persisted without its log row.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket, entry *domain.EventLog) error
	Update(ctx context.Context, ticket *domain.Ticket, entry *domain.EventLog) error
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	NextSequence(ctx context.Context, year int) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket, entry *domain.EventLog) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
        INSERT INTO tickets (code, requester, category, issue_type, description, context, status, priority, severity, resolved_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, query,
			ticket.Code,
			ticket.Requester,
			ticket.Category,
			ticket.IssueType,
			ticket.Description,
			ticket.Context,
			ticket.Status,
			ticket.Priority,
			ticket.Severity,
			ticket.ResolvedAt,
		).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
			return err
		}
		return insertEventLog(ctx, tx, ticket.ID, entry)
	})
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket, entry *domain.EventLog) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
        UPDATE tickets SET status=$1, priority=$2, severity=$3, resolved_at=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
		if err := tx.QueryRow(ctx, query,
			ticket.Status,
			ticket.Priority,
			ticket.Severity,
			ticket.ResolvedAt,
			ticket.ID,
		).Scan(&ticket.UpdatedAt); err != nil {
			return err
		}
		return insertEventLog(ctx, tx, ticket.ID, entry)
	})
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	const query = `
        SELECT id, code, requester, category, issue_type, description, context,
               status, priority, severity, created_at, updated_at, resolved_at
        FROM tickets WHERE code=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, code).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.Requester,
		&ticket.Category,
		&ticket.IssueType,
		&ticket.Description,
		&ticket.Context,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Severity,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT id, code, requester, category, issue_type, description, context,
                    status, priority, severity, created_at, updated_at, resolved_at
             FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id, code, requester, category, issue_type, description, context,
               status, priority, severity, created_at, updated_at, resolved_at
        FROM tickets ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// NextSequence atomically allocates the next ticket number for the year.
// Numbers consumed by a failed create are never reused; gaps are acceptable,
// duplicates are not.
func (r *ticketRepository) NextSequence(ctx context.Context, year int) (int64, error) {
	const query = `
        INSERT INTO ticket_sequences (year, value) VALUES ($1, 1)
        ON CONFLICT (year) DO UPDATE SET value = ticket_sequences.value + 1
        RETURNING value`
	var value int64
	if err := r.pool.QueryRow(ctx, query, year).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

func insertEventLog(ctx context.Context, tx pgx.Tx, ticketID string, entry *domain.EventLog) error {
	const query = `
        INSERT INTO event_logs (ticket_id, actor, action, details)
        VALUES ($1,$2,$3,$4)
        RETURNING id, timestamp`
	entry.TicketID = ticketID
	return tx.QueryRow(ctx, query, ticketID, entry.Actor, entry.Action, entry.Details).
		Scan(&entry.ID, &entry.Timestamp)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Code,
			&ticket.Requester,
			&ticket.Category,
			&ticket.IssueType,
			&ticket.Description,
			&ticket.Context,
			&ticket.Status,
			&ticket.Priority,
			&ticket.Severity,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
