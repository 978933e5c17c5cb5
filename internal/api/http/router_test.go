package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/incident-tracker/internal/api/http/handlers"
	"github.com/spec-kit/incident-tracker/internal/domain"
	"github.com/spec-kit/incident-tracker/internal/observability"
	"github.com/spec-kit/incident-tracker/internal/repository"
	"github.com/spec-kit/incident-tracker/internal/service"
)

// memStore backs handler tests without a database.
type memStore struct {
	mu     sync.Mutex
	order  []string
	byCode map[string]*domain.Ticket
	logs   []domain.EventLog
	seqs   map[int]int64
	nextID int
}

func newMemStore() *memStore {
	return &memStore{
		byCode: make(map[string]*domain.Ticket),
		seqs:   make(map[int]int64),
	}
}

func (m *memStore) Create(ctx context.Context, ticket *domain.Ticket, entry *domain.EventLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	ticket.ID = fmt.Sprintf("t-%d", m.nextID)
	now := time.Now().UTC()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	stored := *ticket
	m.byCode[ticket.Code] = &stored
	m.order = append(m.order, ticket.Code)
	m.appendLog(ticket.ID, entry)
	return nil
}

func (m *memStore) Update(ctx context.Context, ticket *domain.Ticket, entry *domain.EventLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byCode[ticket.Code]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now().UTC()
	stored := *ticket
	m.byCode[ticket.Code] = &stored
	m.appendLog(ticket.ID, entry)
	return nil
}

func (m *memStore) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byCode[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket := *stored
	return &ticket, nil
}

func (m *memStore) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Ticket
	for _, code := range m.order {
		ticket := m.byCode[code]
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		if filter.Category != nil && ticket.Category != *filter.Category {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (m *memStore) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return m.List(ctx, repository.TicketFilter{})
}

func (m *memStore) NextSequence(ctx context.Context, year int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqs[year]++
	return m.seqs[year], nil
}

func (m *memStore) ListByTicket(ctx context.Context, ticketID string) ([]domain.EventLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.EventLog
	for _, entry := range m.logs {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (m *memStore) appendLog(ticketID string, entry *domain.EventLog) {
	entry.ID = fmt.Sprintf("log-%d", len(m.logs)+1)
	entry.TicketID = ticketID
	entry.Timestamp = time.Now().UTC()
	m.logs = append(m.logs, *entry)
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := newMemStore()
	svc := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   store,
		EventLogRepo: store,
	})

	app := fiber.New()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler("incident-tracker", "test", nil, nil),
		Tickets: handlers.NewTicketsHandler(svc),
		Metrics: handlers.NewMetricsHandler(metrics),
	})
	return app
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createTicket(t *testing.T, app *fiber.App, body map[string]any) map[string]any {
	t.Helper()
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/tickets/", body))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var ticket map[string]any
	decodeBody(t, resp, &ticket)
	return ticket
}

func TestCreateTicketEndpoint(t *testing.T) {
	app := newTestApp(t)

	ticket := createTicket(t, app, map[string]any{
		"user_name":   "alice",
		"issue_type":  "outage",
		"description": "the database server is down, urgent",
	})

	assert.Contains(t, ticket["ticket_id"], "INC-")
	assert.Equal(t, "alice", ticket["user_name"])
	assert.Equal(t, "Open", ticket["status"])
	assert.Equal(t, "Critical", ticket["priority"])
	assert.Equal(t, "Incident Report", ticket["category"])
	assert.Nil(t, ticket["resolved_at"])
}

func TestCreateTicketEndpointValidation(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/tickets/", map[string]any{
		"user_name": "alice",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])
}

func TestGetTicketEndpoint(t *testing.T) {
	app := newTestApp(t)

	created := createTicket(t, app, map[string]any{
		"user_name":   "bob",
		"issue_type":  "login issue",
		"description": "password expired",
	})
	code := created["ticket_id"].(string)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/tickets/"+code, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var ticket map[string]any
	decodeBody(t, resp, &ticket)
	assert.Equal(t, code, ticket["ticket_id"])
	assert.Equal(t, "Access Request", ticket["category"])

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/tickets/INC-2026-9999", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateTicketEndpoint(t *testing.T) {
	app := newTestApp(t)

	created := createTicket(t, app, map[string]any{
		"user_name":   "carol",
		"issue_type":  "misc",
		"description": "flaky wifi",
	})
	code := created["ticket_id"].(string)

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/tickets/"+code, map[string]any{
		"status":   "Resolved",
		"severity": "SEV-2",
		"notes":    "ignored by the lifecycle",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var ticket map[string]any
	decodeBody(t, resp, &ticket)
	assert.Equal(t, "Resolved", ticket["status"])
	assert.Equal(t, "SEV-2", ticket["severity"])
	assert.NotNil(t, ticket["resolved_at"])

	resp, err = app.Test(jsonRequest(t, http.MethodPut, "/tickets/INC-2026-9999", map[string]any{
		"status": "Closed",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListTicketsEndpoint(t *testing.T) {
	app := newTestApp(t)

	createTicket(t, app, map[string]any{
		"user_name":   "dave",
		"issue_type":  "login issue",
		"description": "account locked",
	})
	createTicket(t, app, map[string]any{
		"user_name":   "dave",
		"issue_type":  "outage",
		"description": "printer jam",
	})

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/tickets/?status=all&priority=all&category=all", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var all []map[string]any
	decodeBody(t, resp, &all)
	assert.Len(t, all, 2)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/tickets/?category=Access+Request", nil))
	require.NoError(t, err)
	var filtered []map[string]any
	decodeBody(t, resp, &filtered)
	assert.Len(t, filtered, 1)
}

func TestExportTicketsEndpoint(t *testing.T) {
	app := newTestApp(t)

	createTicket(t, app, map[string]any{
		"user_name":   "erin",
		"issue_type":  "misc",
		"description": "export me",
	})

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/tickets/export", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename=tickets_export.csv`, resp.Header.Get("Content-Disposition"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(data), "Ticket ID,User,Category")
	assert.Contains(t, string(data), "erin")
}

func TestListEventLogsEndpoint(t *testing.T) {
	app := newTestApp(t)

	created := createTicket(t, app, map[string]any{
		"user_name":   "frank",
		"issue_type":  "misc",
		"description": "audit trail",
	})
	code := created["ticket_id"].(string)

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/tickets/"+code, map[string]any{"status": "In Progress"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/tickets/"+code+"/logs", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []map[string]any
	decodeBody(t, resp, &logs)
	require.Len(t, logs, 2)
	assert.Equal(t, "Created", logs[0]["action"])
	assert.Equal(t, "System", logs[0]["actor"])
	assert.Equal(t, "Updated", logs[1]["action"])
	assert.Equal(t, "Admin", logs[1]["actor"])
}

func TestRootAndHealthEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
