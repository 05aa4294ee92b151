package engine

import (
	"fmt"
	"strings"

	"github.com/bscott/mailsort/internal/rules"
)

// BuildQuery renders a rule as a mailbox search expression:
//
//	is:unread [from:"<sender>"] [subject:("<subject>")] [has:attachment]
//
// The grammar is an external contract shared with other front ends and
// must not change. The has:attachment clause is only emitted when the
// rule carries at least one attachment action.
func BuildQuery(rule rules.Rule) string {
	parts := []string{"is:unread"}

	if rule.Sender != "" {
		parts = append(parts, fmt.Sprintf("from:%q", rule.Sender))
	}
	if rule.Subject != "" {
		parts = append(parts, fmt.Sprintf("subject:(%q)", rule.Subject))
	}
	if len(rule.Actions) > 0 {
		parts = append(parts, "has:attachment")
	}

	return strings.Join(parts, " ")
}
