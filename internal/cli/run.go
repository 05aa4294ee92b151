package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bscott/mailsort/internal/engine"
	"github.com/bscott/mailsort/internal/mailbox"
	"github.com/bscott/mailsort/internal/rules"
	"github.com/bscott/mailsort/internal/storage"
	"github.com/robfig/cron/v3"
)

func (c *RunCmd) Run(ctx *Context) error {
	return runOnce(ctx)
}

// runOnce is the trigger body: connect, process every rule once,
// disconnect.
func runOnce(ctx *Context) error {
	if ctx.Config.IMAP.Email == "" {
		return fmt.Errorf("not configured - run 'mailsort config init' first")
	}

	store, err := rules.NewFileStore(ctx.Globals.Rules)
	if err != nil {
		return err
	}

	client, err := mailbox.NewClient(ctx.Config)
	if err != nil {
		return err
	}
	if err := client.Connect(); err != nil {
		return err
	}
	defer client.Close()

	storageClient, err := storage.New(ctx.Config)
	if err != nil {
		return err
	}

	eng := engine.New(store, client, storageClient, ctx.Formatter, ctx.Config.Defaults.BatchSize)
	return eng.Run(context.Background())
}

func (c *WatchCmd) Run(ctx *Context) error {
	spec := c.Schedule
	if spec == "" {
		spec = "@every " + c.Every
	}

	scheduler := cron.New()
	_, err := scheduler.AddFunc(spec, func() {
		if err := runOnce(ctx); err != nil {
			ctx.Formatter.PrintError(err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	// First pass right away; the scheduler covers the rest.
	if err := runOnce(ctx); err != nil {
		ctx.Formatter.PrintError(err)
	}

	ctx.Formatter.Infof("watching (%s), press Ctrl-C to stop", spec)
	scheduler.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	<-scheduler.Stop().Done()
	return nil
}
