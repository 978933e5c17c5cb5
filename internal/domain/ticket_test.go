package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatusTerminal(t *testing.T) {
	assert.False(t, TicketStatusOpen.Terminal())
	assert.False(t, TicketStatusInProgress.Terminal())
	assert.True(t, TicketStatusResolved.Terminal())
	assert.True(t, TicketStatusClosed.Terminal())
}

func TestTicketStatusValid(t *testing.T) {
	for _, status := range []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, TicketStatus("Reopened").Valid())
	assert.False(t, TicketStatus("").Valid())
}

func TestTicketPriorityValid(t *testing.T) {
	for _, priority := range []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical} {
		assert.True(t, priority.Valid(), string(priority))
	}
	assert.False(t, TicketPriority("Severe").Valid())
}
