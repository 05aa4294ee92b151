package rules

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

// sequentialIDs returns a deterministic id generator for tests.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testManager(t *testing.T) *Manager {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "rules.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return NewManagerWithIDs(store, sequentialIDs())
}

func TestAddRuleValidation(t *testing.T) {
	m := testManager(t)

	_, err := m.AddRule(Rule{})
	if !errors.Is(err, ErrInvalidRule) {
		t.Fatalf("AddRule(empty) error = %v, want ErrInvalidRule", err)
	}

	id, err := m.AddRule(Rule{Sender: "a@b.com"})
	if err != nil {
		t.Fatalf("AddRule(sender only) error = %v", err)
	}
	if id == "" {
		t.Error("AddRule() returned empty id")
	}

	id2, err := m.AddRule(Rule{Subject: "invoice"})
	if err != nil {
		t.Fatalf("AddRule(subject only) error = %v", err)
	}
	if id2 == id {
		t.Errorf("AddRule() reused id %q", id)
	}
}

func TestAddRulePersists(t *testing.T) {
	m := testManager(t)

	id, err := m.AddRule(Rule{Sender: "a@b.com", Subject: "report"})
	if err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}

	set, err := m.GetRules()
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	if len(set) != 1 {
		t.Fatalf("GetRules() = %d rules, want 1", len(set))
	}

	r := set[0]
	if r.ID != id || r.Sender != "a@b.com" || r.Subject != "report" {
		t.Errorf("persisted rule = %+v", r)
	}
	if r.Actions == nil {
		t.Error("persisted rule has nil action list, want empty slice")
	}
}

func TestDeleteRule(t *testing.T) {
	m := testManager(t)

	id1, _ := m.AddRule(Rule{Sender: "a@b.com"})
	id2, _ := m.AddRule(Rule{Sender: "c@d.com"})

	if err := m.DeleteRule(id1); err != nil {
		t.Fatalf("DeleteRule() error = %v", err)
	}

	set, _ := m.GetRules()
	if len(set) != 1 || set[0].ID != id2 {
		t.Errorf("after delete, rules = %+v", set)
	}

	err := m.DeleteRule("nope")
	if !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("DeleteRule(unknown) error = %v, want ErrRuleNotFound", err)
	}
}

func TestAddAction(t *testing.T) {
	m := testManager(t)

	ruleID, _ := m.AddRule(Rule{Sender: "a@b.com"})

	actionID, err := m.AddAction(ruleID, AttachmentAction{
		FolderID:       "archive/invoices",
		AttachmentName: "invoice.pdf",
		OutputFileName: "{date}_{original_name}",
	})
	if err != nil {
		t.Fatalf("AddAction() error = %v", err)
	}
	if actionID == "" {
		t.Error("AddAction() returned empty id")
	}

	set, _ := m.GetRules()
	if len(set[0].Actions) != 1 {
		t.Fatalf("rule has %d actions, want 1", len(set[0].Actions))
	}
	a := set[0].Actions[0]
	if a.ID != actionID || a.FolderID != "archive/invoices" {
		t.Errorf("persisted action = %+v", a)
	}

	_, err = m.AddAction("nope", AttachmentAction{FolderID: "x"})
	if !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("AddAction(unknown rule) error = %v, want ErrRuleNotFound", err)
	}
}

func TestAddActionDefaultsNameFilter(t *testing.T) {
	m := testManager(t)

	ruleID, _ := m.AddRule(Rule{Sender: "a@b.com"})
	if _, err := m.AddAction(ruleID, AttachmentAction{FolderID: "docs"}); err != nil {
		t.Fatalf("AddAction() error = %v", err)
	}

	set, _ := m.GetRules()
	if got := set[0].Actions[0].AttachmentName; got != MatchAny {
		t.Errorf("default attachment name filter = %q, want %q", got, MatchAny)
	}
}

func TestDeleteAction(t *testing.T) {
	m := testManager(t)

	ruleID, _ := m.AddRule(Rule{Sender: "a@b.com"})
	actionID, _ := m.AddAction(ruleID, AttachmentAction{FolderID: "docs"})

	if err := m.DeleteAction(ruleID, actionID); err != nil {
		t.Fatalf("DeleteAction() error = %v", err)
	}

	set, _ := m.GetRules()
	if len(set[0].Actions) != 0 {
		t.Errorf("rule still has %d actions", len(set[0].Actions))
	}

	if err := m.DeleteAction(ruleID, "nope"); !errors.Is(err, ErrActionNotFound) {
		t.Errorf("DeleteAction(unknown action) error = %v, want ErrActionNotFound", err)
	}
	if err := m.DeleteAction("nope", actionID); !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("DeleteAction(unknown rule) error = %v, want ErrRuleNotFound", err)
	}
}

func TestRuleDescribe(t *testing.T) {
	tests := []struct {
		rule Rule
		want string
	}{
		{Rule{Sender: "a@b.com"}, "from a@b.com"},
		{Rule{Subject: "invoice"}, `subject "invoice"`},
		{Rule{Sender: "a@b.com", Subject: "invoice"}, `from a@b.com, subject "invoice"`},
	}

	for _, tt := range tests {
		if got := tt.rule.Describe(); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}
