package cli

import (
	"fmt"

	"github.com/bscott/mailsort/internal/rules"
)

func (c *RuleListCmd) Run(ctx *Context) error {
	manager, err := ctx.ruleManager()
	if err != nil {
		return err
	}

	set, err := manager.GetRules()
	if err != nil {
		return err
	}

	if ctx.Formatter.JSON {
		return ctx.Formatter.PrintJSON(map[string]interface{}{
			"count": len(set),
			"rules": set,
		})
	}

	if len(set) == 0 {
		fmt.Println("No rules configured.")
		fmt.Println("\nAdd one with: mailsort rule add --sender billing@example.com")
		return nil
	}

	for _, r := range set {
		fmt.Printf("%s  %s\n", r.ID, r.Describe())
		for _, a := range r.Actions {
			rename := a.OutputFileName
			if rename == "" {
				rename = "(keep name)"
			}
			fmt.Printf("    %s  %s -> %s  %s\n", a.ID, a.AttachmentName, a.FolderID, rename)
		}
	}

	return nil
}

func (c *RuleAddCmd) Run(ctx *Context) error {
	manager, err := ctx.ruleManager()
	if err != nil {
		return err
	}

	id, err := manager.AddRule(rules.Rule{
		Sender:  c.Sender,
		Subject: c.Subject,
	})
	if err != nil {
		return err
	}

	if ctx.Formatter.JSON {
		return ctx.Formatter.PrintJSON(map[string]interface{}{
			"success": true,
			"id":      id,
		})
	}

	ctx.Formatter.PrintSuccess(fmt.Sprintf("Added rule %s", id))
	return nil
}

func (c *RuleDeleteCmd) Run(ctx *Context) error {
	manager, err := ctx.ruleManager()
	if err != nil {
		return err
	}

	if err := manager.DeleteRule(c.ID); err != nil {
		return err
	}

	ctx.Formatter.PrintSuccess(fmt.Sprintf("Deleted rule %s", c.ID))
	return nil
}
