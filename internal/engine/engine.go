// Package engine drives rule processing: for each stored rule it searches
// the mailbox for unread matching threads, routes attachments to storage
// folders through the rule's actions, and marks processed threads read.
//
// The mailbox and storage collaborators are consumed through narrow
// interfaces so the engine is testable with in-memory fakes.
package engine

import (
	"context"
	"time"

	"github.com/bscott/mailsort/internal/rules"
)

// DefaultBatchSize caps how many threads one rule processes per run. The
// remainder is picked up by subsequent runs, which keeps a single pass
// bounded no matter how far behind the mailbox is.
const DefaultBatchSize = 10

// Attachment is one file attached to a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is the view of a mail message the engine needs.
type Message struct {
	From        string
	Subject     string
	Date        time.Time
	Unread      bool
	Attachments []Attachment
}

// Thread is a mailbox conversation.
type Thread interface {
	Messages() []Message
	MarkRead() error
}

// Mailbox searches for threads matching a query string in the mailbox
// search grammar produced by BuildQuery.
type Mailbox interface {
	Search(query string, offset, limit int) ([]Thread, error)
}

// File is a stored file whose name can still be changed after creation.
type File interface {
	SetName(ctx context.Context, name string) error
}

// Folder is one destination storage container.
type Folder interface {
	// FilesByName returns the names of existing files exactly matching
	// name. Used only for duplicate detection.
	FilesByName(ctx context.Context, name string) ([]string, error)
	CreateFile(ctx context.Context, att Attachment) (File, error)
}

// Storage resolves destination folders by their opaque id.
type Storage interface {
	FolderByID(ctx context.Context, id string) (Folder, error)
}

// Logger receives the engine's diagnostics. Satisfied by output.Formatter.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Engine is the single entry point for rule processing, driven by an
// external periodic trigger.
type Engine struct {
	rules     rules.Store
	mailbox   Mailbox
	storage   Storage
	log       Logger
	batchSize int
}

// New returns an engine. A batchSize of 0 or less falls back to
// DefaultBatchSize.
func New(store rules.Store, mailbox Mailbox, storage Storage, log Logger, batchSize int) *Engine {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Engine{
		rules:     store,
		mailbox:   mailbox,
		storage:   storage,
		log:       log,
		batchSize: batchSize,
	}
}

// Run processes every stored rule once. Rules are isolated from each
// other: a failure in one rule is logged and the remaining rules still
// run. Only a failure to load the rule set itself is returned.
func (e *Engine) Run(ctx context.Context) error {
	set, err := e.rules.Load()
	if err != nil {
		return err
	}

	if len(set) == 0 {
		e.log.Infof("no rules configured, nothing to do")
		return nil
	}

	for _, rule := range set {
		if err := e.processRule(ctx, rule); err != nil {
			e.log.Errorf("rule %s failed: %v", rule.Describe(), err)
		}
	}

	return nil
}

func (e *Engine) processRule(ctx context.Context, rule rules.Rule) error {
	query := BuildQuery(rule)
	e.log.Infof("processing rule %s: %s", rule.Describe(), query)

	threads, err := e.mailbox.Search(query, 0, e.batchSize)
	if err != nil {
		return err
	}

	for _, thread := range threads {
		for _, msg := range thread.Messages() {
			if !msg.Unread {
				continue
			}
			for _, action := range rule.Actions {
				e.dispatch(ctx, msg, action)
			}
		}

		// Marking the whole thread read is what prevents reprocessing
		// on the next run, so it happens regardless of per-message
		// dispatch outcomes.
		if err := thread.MarkRead(); err != nil {
			return err
		}
	}

	return nil
}

// dispatch routes one message's attachments through one action. All
// failures here are soft: they are logged and abort only this action's
// dispatch, never the sibling actions or messages.
func (e *Engine) dispatch(ctx context.Context, msg Message, action rules.AttachmentAction) {
	folder, err := e.storage.FolderByID(ctx, action.FolderID)
	if err != nil {
		e.log.Errorf("folder %s unavailable: %v", action.FolderID, err)
		return
	}

	for _, att := range msg.Attachments {
		outputName := rules.Render(action.OutputFileName, att.Filename, msg.Subject, msg.Date)

		// The name filter applies to the original attachment name, not
		// the rendered output name.
		if !rules.Matches(att.Filename, action.AttachmentName) {
			continue
		}

		existing, err := folder.FilesByName(ctx, outputName)
		if err != nil {
			e.log.Errorf("duplicate lookup for %s in %s failed: %v", outputName, action.FolderID, err)
			continue
		}
		if len(existing) > 0 {
			e.log.Infof("skipping %s: %s already exists in %s", att.Filename, outputName, action.FolderID)
			continue
		}

		file, err := folder.CreateFile(ctx, att)
		if err != nil {
			e.log.Errorf("failed to store %s in %s: %v", att.Filename, action.FolderID, err)
			continue
		}
		if err := file.SetName(ctx, outputName); err != nil {
			e.log.Errorf("failed to rename %s to %s in %s: %v", att.Filename, outputName, action.FolderID, err)
			continue
		}

		e.log.Infof("saved %s as %s in %s", att.Filename, outputName, action.FolderID)
	}
}
