package rules

import (
	"errors"
	"fmt"
)

// MatchAny is the attachment name filter that matches every attachment.
const MatchAny = "*"

var (
	// ErrInvalidRule is returned when a rule specifies neither a sender
	// nor a subject filter.
	ErrInvalidRule = errors.New("rule requires at least one of sender or subject")

	// ErrRuleNotFound is returned when a referenced rule id does not exist.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrActionNotFound is returned when a referenced action id does not
	// exist on the rule.
	ErrActionNotFound = errors.New("attachment action not found")
)

// AttachmentAction routes matching attachments of a message into one
// storage folder, optionally renaming them through a template.
type AttachmentAction struct {
	ID             string `json:"id" yaml:"id"`
	FolderID       string `json:"driveFolderId" yaml:"folder_id"`
	AttachmentName string `json:"attachmentName" yaml:"attachment_name"`
	// OutputFileName is a rename template; empty means keep the
	// attachment's original name.
	OutputFileName string `json:"outputFileName,omitempty" yaml:"output_file_name,omitempty"`
}

// Rule selects unread messages by sender and/or subject and carries the
// attachment actions to apply to them.
type Rule struct {
	ID      string             `json:"id" yaml:"id"`
	Sender  string             `json:"sender,omitempty" yaml:"sender,omitempty"`
	Subject string             `json:"subject,omitempty" yaml:"subject,omitempty"`
	Actions []AttachmentAction `json:"attachmentActions" yaml:"actions"`
}

// RuleSet is the full persisted rule collection. It is always read and
// rewritten as a whole; there are no partial updates.
type RuleSet []Rule

// Validate checks the rule's invariant: at least one of sender or subject
// must be set.
func (r Rule) Validate() error {
	if r.Sender == "" && r.Subject == "" {
		return ErrInvalidRule
	}
	return nil
}

// Find returns the rule with the given id.
func (rs RuleSet) Find(id string) (Rule, bool) {
	for _, r := range rs {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Describe returns a short human-readable summary of the rule's filters,
// used in logs and listings.
func (r Rule) Describe() string {
	switch {
	case r.Sender != "" && r.Subject != "":
		return fmt.Sprintf("from %s, subject %q", r.Sender, r.Subject)
	case r.Sender != "":
		return "from " + r.Sender
	default:
		return fmt.Sprintf("subject %q", r.Subject)
	}
}
