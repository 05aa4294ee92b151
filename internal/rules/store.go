package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// StoreKey is the document key the rule set is persisted under. It is an
// external contract shared with other front ends; do not rename it.
const StoreKey = "gmailManagerRules"

// Store persists the full rule set. Every mutation rewrites the whole
// document; the last writer wins.
type Store interface {
	Load() (RuleSet, error)
	Save(RuleSet) error
}

// FileStore keeps the rule set as a single JSON document on disk.
type FileStore struct {
	path string
}

// DefaultRulesPath returns the rules file location under the user config
// directory.
func DefaultRulesPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "mailsort", "rules.json"), nil
}

// NewFileStore returns a file-backed store at path. An empty path uses
// DefaultRulesPath.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		var err error
		path, err = DefaultRulesPath()
		if err != nil {
			return nil, err
		}
	}
	return &FileStore{path: path}, nil
}

// Load reads the rule set from disk. A missing file is an empty set.
func (s *FileStore) Load() (RuleSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return RuleSet{}, nil
		}
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}

	var doc map[string]RuleSet
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	set, ok := doc[StoreKey]
	if !ok {
		return RuleSet{}, nil
	}
	return set, nil
}

// Save rewrites the rule set on disk.
func (s *FileStore) Save(set RuleSet) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if set == nil {
		set = RuleSet{}
	}
	data, err := json.MarshalIndent(map[string]RuleSet{StoreKey: set}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write rules: %w", err)
	}

	return nil
}
