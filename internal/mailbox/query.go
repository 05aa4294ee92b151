package mailbox

import (
	"fmt"
	"strings"

	"github.com/emersion/go-imap/v2"
)

// searchQuery is the parsed form of the engine's search grammar:
//
//	is:unread [from:"<sender>"] [subject:("<subject>")] [has:attachment]
type searchQuery struct {
	unread        bool
	from          string
	subject       string
	hasAttachment bool
}

func parseQuery(query string) (searchQuery, error) {
	var q searchQuery

	for _, part := range splitQuery(query) {
		switch {
		case part == "is:unread":
			q.unread = true
		case part == "has:attachment":
			q.hasAttachment = true
		case strings.HasPrefix(part, "from:"):
			q.from = strings.Trim(strings.TrimPrefix(part, "from:"), `"`)
		case strings.HasPrefix(part, "subject:"):
			value := strings.TrimPrefix(part, "subject:")
			value = strings.TrimPrefix(value, "(")
			value = strings.TrimSuffix(value, ")")
			q.subject = strings.Trim(value, `"`)
		default:
			return searchQuery{}, fmt.Errorf("unsupported search term: %s", part)
		}
	}

	return q, nil
}

// splitQuery splits on spaces but keeps quoted values together, so
// subject:("two words") survives as one term.
func splitQuery(query string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false

	for _, r := range query {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ' ' && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func (q searchQuery) criteria() *imap.SearchCriteria {
	criteria := &imap.SearchCriteria{}

	if q.unread {
		criteria.NotFlag = []imap.Flag{imap.FlagSeen}
	}
	if q.from != "" {
		criteria.Header = append(criteria.Header, imap.SearchCriteriaHeaderField{
			Key:   "From",
			Value: q.from,
		})
	}
	if q.subject != "" {
		criteria.Header = append(criteria.Header, imap.SearchCriteriaHeaderField{
			Key:   "Subject",
			Value: q.subject,
		})
	}

	return criteria
}
