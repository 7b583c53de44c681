package diff

import (
	"regexp"

	"github.com/samber/lo"
)

// ticketRe matches issue-tracker ids of the JIRA shape, e.g. "PROJ-123".
var ticketRe = regexp.MustCompile(`\b([A-Z][A-Z0-9]{1,9}-\d+)\b`)

// extractTicketIDs scans diff text plus an optional advisory narrative for
// ticket ids, deduplicated in first-seen order.
func extractTicketIDs(raw, narrative string) []string {
	matches := ticketRe.FindAllString(raw+"\n"+narrative, -1)
	return lo.Uniq(matches)
}
