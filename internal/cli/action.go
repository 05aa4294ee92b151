package cli

import (
	"fmt"

	"github.com/bscott/mailsort/internal/rules"
)

func (c *ActionAddCmd) Run(ctx *Context) error {
	manager, err := ctx.ruleManager()
	if err != nil {
		return err
	}

	id, err := manager.AddAction(c.RuleID, rules.AttachmentAction{
		FolderID:       c.Folder,
		AttachmentName: c.Match,
		OutputFileName: c.Rename,
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

	ctx.Formatter.PrintSuccess(fmt.Sprintf("Added action %s to rule %s", id, c.RuleID))
	return nil
}

func (c *ActionDeleteCmd) Run(ctx *Context) error {
	manager, err := ctx.ruleManager()
	if err != nil {
		return err
	}

	if err := manager.DeleteAction(c.RuleID, c.ActionID); err != nil {
		return err
	}

	ctx.Formatter.PrintSuccess(fmt.Sprintf("Deleted action %s from rule %s", c.ActionID, c.RuleID))
	return nil
}
