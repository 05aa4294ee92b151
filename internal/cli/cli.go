package cli

import (
	"github.com/bscott/mailsort/internal/config"
	"github.com/bscott/mailsort/internal/output"
	"github.com/bscott/mailsort/internal/rules"
)

var Version = "0.1.0"

type Globals struct {
	JSON    bool   `help:"Output as JSON" name:"json"`
	Config  string `help:"Path to config file" short:"c" type:"path"`
	Rules   string `help:"Path to rules file" type:"path"`
	Verbose bool   `help:"Verbose output" short:"v"`
	Quiet   bool   `help:"Suppress non-essential output" short:"q"`
}

type CLI struct {
	Globals

	Config  ConfigCmd  `cmd:"" help:"Configuration management"`
	Rule    RuleCmd    `cmd:"" help:"Manage routing rules"`
	Action  ActionCmd  `cmd:"" help:"Manage attachment actions on a rule"`
	Run     RunCmd     `cmd:"" help:"Process all rules once"`
	Watch   WatchCmd   `cmd:"" help:"Process rules on a schedule"`
	Mailbox MailboxCmd `cmd:"" help:"Mailbox inspection"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

type Context struct {
	Config    *config.Config
	Formatter *output.Formatter
	Globals   *Globals
}

func NewContext(globals *Globals) (*Context, error) {
	formatter := output.New(globals.JSON, globals.Verbose, globals.Quiet)

	var cfg *config.Config
	var err error

	if globals.Config != "" {
		cfg, err = config.Load(globals.Config)
	} else if config.Exists() {
		cfg, err = config.Load("")
	}

	if err != nil && cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Context{
		Config:    cfg,
		Formatter: formatter,
		Globals:   globals,
	}, nil
}

// ruleManager builds the rule management surface over the configured
// rules file.
func (ctx *Context) ruleManager() (*rules.Manager, error) {
	store, err := rules.NewFileStore(ctx.Globals.Rules)
	if err != nil {
		return nil, err
	}
	return rules.NewManager(store), nil
}

// ConfigCmd handles configuration management
type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Interactive setup wizard"`
	Show ConfigShowCmd `cmd:"" help:"Display current configuration"`
	Set  ConfigSetCmd  `cmd:"" help:"Set a configuration value"`
}

type ConfigInitCmd struct{}

type ConfigShowCmd struct{}

type ConfigSetCmd struct {
	Key   string `arg:"" help:"Configuration key (e.g., imap.host, defaults.batch_size)"`
	Value string `arg:"" help:"Value to set"`
}

// RuleCmd handles routing rule management
type RuleCmd struct {
	List   RuleListCmd   `cmd:"" help:"List all rules"`
	Add    RuleAddCmd    `cmd:"" help:"Add a new rule"`
	Delete RuleDeleteCmd `cmd:"" help:"Delete a rule"`
}

type RuleListCmd struct{}

type RuleAddCmd struct {
	Sender  string `help:"Match messages from this sender" short:"f"`
	Subject string `help:"Match messages whose subject contains this text" short:"s"`
}

type RuleDeleteCmd struct {
	ID string `arg:"" help:"Rule ID to delete"`
}

// ActionCmd handles attachment actions on rules
type ActionCmd struct {
	Add    ActionAddCmd    `cmd:"" help:"Add an attachment action to a rule"`
	Delete ActionDeleteCmd `cmd:"" help:"Delete an attachment action"`
}

type ActionAddCmd struct {
	RuleID string `arg:"" help:"Rule ID to attach the action to"`
	Folder string `help:"Destination folder id (bucket or bucket/prefix)" required:""`
	Match  string `help:"Attachment name filter (\"*\" matches any)" default:"*"`
	Rename string `help:"Output name template ({original_name}, {subject}, {date})"`
}

type ActionDeleteCmd struct {
	RuleID   string `arg:"" help:"Rule ID"`
	ActionID string `arg:"" help:"Action ID to delete"`
}

// RunCmd processes all rules once
type RunCmd struct{}

// WatchCmd runs the engine periodically until interrupted
type WatchCmd struct {
	Every    string `help:"Run interval (e.g., 5m, 1h)" default:"10m" xor:"schedule"`
	Schedule string `help:"Cron schedule expression (overrides --every)" xor:"schedule"`
}

// MailboxCmd handles mailbox inspection
type MailboxCmd struct {
	List MailboxListCmd `cmd:"" help:"List all mailboxes/folders"`
}

type MailboxListCmd struct{}

// VersionCmd shows version information
type VersionCmd struct{}
