package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/incident-tracker/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		description  string
		issueType    string
		wantCategory domain.TicketCategory
		wantPriority domain.TicketPriority
	}{
		{
			name:         "defaults for unmatched text",
			description:  "minor UI glitch",
			issueType:    "cosmetic",
			wantCategory: domain.CategoryIncidentReport,
			wantPriority: domain.TicketPriorityMedium,
		},
		{
			name:         "access keywords in both fields",
			description:  "my account is locked",
			issueType:    "login issue",
			wantCategory: domain.CategoryAccessRequest,
			wantPriority: domain.TicketPriorityLow,
		},
		{
			name:         "urgency escalates to critical with server mention",
			description:  "server is down",
			issueType:    "outage",
			wantCategory: domain.CategoryIncidentReport,
			wantPriority: domain.TicketPriorityCritical,
		},
		{
			name:         "urgency without infrastructure stays high",
			description:  "printer is on fire, urgent",
			issueType:    "hardware",
			wantCategory: domain.CategoryIncidentReport,
			wantPriority: domain.TicketPriorityHigh,
		},
		{
			name:         "urgency overrides access priority",
			description:  "cannot login, the whole team is down",
			issueType:    "access",
			wantCategory: domain.CategoryAccessRequest,
			wantPriority: domain.TicketPriorityHigh,
		},
		{
			name:         "urgency and infrastructure split across fields",
			description:  "database not responding",
			issueType:    "urgent",
			wantCategory: domain.CategoryIncidentReport,
			wantPriority: domain.TicketPriorityCritical,
		},
		{
			name:         "issue type alone triggers access rule",
			description:  "please help",
			issueType:    "Password reset",
			wantCategory: domain.CategoryAccessRequest,
			wantPriority: domain.TicketPriorityLow,
		},
		{
			name:         "empty input yields defaults",
			description:  "",
			issueType:    "",
			wantCategory: domain.CategoryIncidentReport,
			wantPriority: domain.TicketPriorityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.description, tt.issueType)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantPriority, got.Priority)
		})
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	upper := Classify("PASSWORD reset", "x")
	lower := Classify("password reset", "x")
	assert.Equal(t, lower, upper)
}

func TestClassifyDeterministic(t *testing.T) {
	first := Classify("server crash during deploy", "incident")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify("server crash during deploy", "incident"))
	}
}
