// Package classifier implements the keyword rule set that suggests a
// category and priority for incoming tickets.
package classifier

import (
	"strings"

	"github.com/spec-kit/incident-tracker/internal/domain"
)

// Suggestion is the classifier output for a ticket.
type Suggestion struct {
	Category domain.TicketCategory
	Priority domain.TicketPriority
}

var (
	accessKeywords   = []string{"password", "access", "login", "account", "permission", "unlock"}
	urgencyKeywords  = []string{"down", "crash", "hack", "breach", "urgent", "critical"}
	criticalKeywords = []string{"server", "database"}
)

// Classify maps free text onto a suggested category and priority. Matching is
// case-insensitive substring matching; a hit in either field triggers the
// rule. Urgency rules override the access-request priority when both fire.
func Classify(description, issueType string) Suggestion {
	desc := strings.ToLower(description)
	issue := strings.ToLower(issueType)

	suggestion := Suggestion{
		Category: domain.CategoryIncidentReport,
		Priority: domain.TicketPriorityMedium,
	}

	if containsAny(desc, issue, accessKeywords) {
		suggestion.Category = domain.CategoryAccessRequest
		suggestion.Priority = domain.TicketPriorityLow
	}

	if containsAny(desc, issue, urgencyKeywords) {
		suggestion.Priority = domain.TicketPriorityHigh
		if containsAny(desc, issue, criticalKeywords) {
			suggestion.Priority = domain.TicketPriorityCritical
		}
	}

	return suggestion
}

func containsAny(desc, issue string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(desc, keyword) || strings.Contains(issue, keyword) {
			return true
		}
	}
	return false
}
