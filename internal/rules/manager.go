package rules

import (
	"fmt"

	"github.com/google/uuid"
)

// Manager implements the rule management surface over a Store. Ids are
// assigned through an injected generator so tests stay deterministic.
type Manager struct {
	store Store
	newID func() string
}

// NewManager returns a manager using uuid-based id generation.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		newID: uuid.NewString,
	}
}

// NewManagerWithIDs returns a manager with a custom id generator.
func NewManagerWithIDs(store Store, newID func() string) *Manager {
	return &Manager{store: store, newID: newID}
}

// GetRules returns the persisted rule set.
func (m *Manager) GetRules() (RuleSet, error) {
	return m.store.Load()
}

// SaveRules replaces the persisted rule set wholesale.
func (m *Manager) SaveRules(set RuleSet) error {
	return m.store.Save(set)
}

// AddRule validates the rule, assigns it a fresh id, and persists it.
// The assigned id is returned.
func (m *Manager) AddRule(r Rule) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	set, err := m.store.Load()
	if err != nil {
		return "", err
	}

	r.ID = m.newID()
	if r.Actions == nil {
		r.Actions = []AttachmentAction{}
	}
	set = append(set, r)

	if err := m.store.Save(set); err != nil {
		return "", err
	}
	return r.ID, nil
}

// DeleteRule removes the rule with the given id.
func (m *Manager) DeleteRule(id string) error {
	set, err := m.store.Load()
	if err != nil {
		return err
	}

	kept := make(RuleSet, 0, len(set))
	for _, r := range set {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(set) {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}

	return m.store.Save(kept)
}

// AddAction appends an attachment action to an existing rule and returns
// the action's assigned id.
func (m *Manager) AddAction(ruleID string, a AttachmentAction) (string, error) {
	set, err := m.store.Load()
	if err != nil {
		return "", err
	}

	for i := range set {
		if set[i].ID != ruleID {
			continue
		}
		a.ID = m.newID()
		if a.AttachmentName == "" {
			a.AttachmentName = MatchAny
		}
		set[i].Actions = append(set[i].Actions, a)
		if err := m.store.Save(set); err != nil {
			return "", err
		}
		return a.ID, nil
	}

	return "", fmt.Errorf("%w: %s", ErrRuleNotFound, ruleID)
}

// DeleteAction removes one attachment action from a rule.
func (m *Manager) DeleteAction(ruleID, actionID string) error {
	set, err := m.store.Load()
	if err != nil {
		return err
	}

	for i := range set {
		if set[i].ID != ruleID {
			continue
		}
		actions := set[i].Actions
		for j, a := range actions {
			if a.ID == actionID {
				set[i].Actions = append(actions[:j], actions[j+1:]...)
				return m.store.Save(set)
			}
		}
		return fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
	}

	return fmt.Errorf("%w: %s", ErrRuleNotFound, ruleID)
}
