package cli

import (
	"fmt"

	"github.com/bscott/mailsort/internal/mailbox"
)

func (c *MailboxListCmd) Run(ctx *Context) error {
	if ctx.Config.IMAP.Email == "" {
		return fmt.Errorf("not configured - run 'mailsort config init' first")
	}

	client, err := mailbox.NewClient(ctx.Config)
	if err != nil {
		return err
	}

	if err := client.Connect(); err != nil {
		return err
	}
	defer client.Close()

	names, err := client.ListMailboxes()
	if err != nil {
		return err
	}

	if ctx.Formatter.JSON {
		return ctx.Formatter.PrintJSON(map[string]interface{}{
			"count":     len(names),
			"mailboxes": names,
		})
	}

	fmt.Printf("Mailboxes (%d):\n\n", len(names))
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}

	return nil
}
