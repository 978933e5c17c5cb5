package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateTicket(ctx, TicketCreateInput{
		Requester:   "alice",
		IssueType:   "outage",
		Description: "server is down",
	})
	require.NoError(t, err)
	second, err := svc.CreateTicket(ctx, TicketCreateInput{
		Requester:   "bob",
		IssueType:   "login issue",
		Description: "password expired",
	})
	require.NoError(t, err)

	_, err = svc.UpdateTicket(ctx, second.Code, TicketUpdateInput{Status: strPtr("Resolved")})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"Ticket ID", "User", "Category", "Issue Type", "Description",
		"Status", "Priority", "Created At", "Resolved At",
	}, records[0])

	assert.Equal(t, first.Code, records[1][0])
	assert.Equal(t, "alice", records[1][1])
	assert.Equal(t, "Incident Report", records[1][2])
	assert.Equal(t, "Critical", records[1][6])
	assert.Empty(t, records[1][8], "unresolved tickets export an empty Resolved At")

	assert.Equal(t, second.Code, records[2][0])
	assert.Equal(t, "Resolved", records[2][5])
	assert.NotEmpty(t, records[2][8])
}

func TestExportCSVEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}
