package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bscott/mailsort/internal/config"
	"github.com/bscott/mailsort/internal/output"
	"github.com/bscott/mailsort/internal/rules"
)

func testContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	formatter := output.New(true, false, false)
	formatter.Writer = buf

	return &Context{
		Config:    config.DefaultConfig(),
		Formatter: formatter,
		Globals: &Globals{
			JSON:  true,
			Rules: filepath.Join(t.TempDir(), "rules.json"),
		},
	}, buf
}

func decodeJSON(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	return out
}

func TestRuleAddRequiresFilter(t *testing.T) {
	ctx, _ := testContext(t)

	cmd := &RuleAddCmd{}
	err := cmd.Run(ctx)
	if !errors.Is(err, rules.ErrInvalidRule) {
		t.Errorf("rule add without filters error = %v, want ErrInvalidRule", err)
	}
}

func TestRuleAddAndList(t *testing.T) {
	ctx, buf := testContext(t)

	add := &RuleAddCmd{Sender: "billing@example.com"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("rule add error = %v", err)
	}

	out := decodeJSON(t, buf)
	id, _ := out["id"].(string)
	if id == "" {
		t.Fatalf("rule add output missing id: %v", out)
	}

	buf.Reset()
	list := &RuleListCmd{}
	if err := list.Run(ctx); err != nil {
		t.Fatalf("rule list error = %v", err)
	}

	out = decodeJSON(t, buf)
	if count, _ := out["count"].(float64); count != 1 {
		t.Errorf("rule list count = %v, want 1", out["count"])
	}
}

func TestRuleDelete(t *testing.T) {
	ctx, buf := testContext(t)

	add := &RuleAddCmd{Subject: "invoice"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("rule add error = %v", err)
	}
	id := decodeJSON(t, buf)["id"].(string)

	del := &RuleDeleteCmd{ID: id}
	if err := del.Run(ctx); err != nil {
		t.Fatalf("rule delete error = %v", err)
	}

	if err := (&RuleDeleteCmd{ID: id}).Run(ctx); !errors.Is(err, rules.ErrRuleNotFound) {
		t.Errorf("deleting twice error = %v, want ErrRuleNotFound", err)
	}
}

func TestActionAddAndDelete(t *testing.T) {
	ctx, buf := testContext(t)

	add := &RuleAddCmd{Sender: "billing@example.com"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("rule add error = %v", err)
	}
	ruleID := decodeJSON(t, buf)["id"].(string)

	buf.Reset()
	addAction := &ActionAddCmd{
		RuleID: ruleID,
		Folder: "archive/invoices",
		Match:  "*",
		Rename: "{date}_{original_name}",
	}
	if err := addAction.Run(ctx); err != nil {
		t.Fatalf("action add error = %v", err)
	}
	actionID := decodeJSON(t, buf)["id"].(string)
	if actionID == "" {
		t.Fatal("action add returned empty id")
	}

	delAction := &ActionDeleteCmd{RuleID: ruleID, ActionID: actionID}
	if err := delAction.Run(ctx); err != nil {
		t.Fatalf("action delete error = %v", err)
	}
}

func TestActionAddUnknownRule(t *testing.T) {
	ctx, _ := testContext(t)

	cmd := &ActionAddCmd{RuleID: "nope", Folder: "docs", Match: "*"}
	if err := cmd.Run(ctx); !errors.Is(err, rules.ErrRuleNotFound) {
		t.Errorf("action add to unknown rule error = %v, want ErrRuleNotFound", err)
	}
}

func TestConfigSet(t *testing.T) {
	ctx, _ := testContext(t)
	ctx.Globals.Config = filepath.Join(t.TempDir(), "config.yaml")

	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"imap.host", "mail.example.com", false},
		{"imap.port", "1143", false},
		{"imap.port", "not-a-port", true},
		{"storage.endpoint", "s3.example.com", false},
		{"defaults.batch_size", "5", false},
		{"defaults.batch_size", "-1", true},
		{"defaults.format", "json", false},
		{"defaults.format", "xml", true},
		{"nosuchsection.key", "x", true},
		{"badkey", "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cmd := &ConfigSetCmd{Key: tt.key, Value: tt.value}
			err := cmd.Run(ctx)
			if tt.wantErr && err == nil {
				t.Errorf("config set %s=%s = nil error, want error", tt.key, tt.value)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("config set %s=%s error = %v", tt.key, tt.value, err)
			}
		})
	}

	if ctx.Config.IMAP.Host != "mail.example.com" {
		t.Errorf("IMAP.Host = %q", ctx.Config.IMAP.Host)
	}
	if ctx.Config.Defaults.BatchSize != 5 {
		t.Errorf("Defaults.BatchSize = %d, want 5", ctx.Config.Defaults.BatchSize)
	}
}

func TestRunRequiresConfiguration(t *testing.T) {
	ctx, _ := testContext(t)

	cmd := &RunCmd{}
	if err := cmd.Run(ctx); err == nil {
		t.Error("run without configuration = nil error, want error")
	}
}
