package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.IMAP.Port != DefaultIMAPPort {
		t.Errorf("IMAP.Port = %d, want %d", cfg.IMAP.Port, DefaultIMAPPort)
	}
	if !cfg.Storage.UseSSL {
		t.Error("Storage.UseSSL = false, want true")
	}
	if cfg.Defaults.Mailbox != DefaultMailbox {
		t.Errorf("Defaults.Mailbox = %q, want %q", cfg.Defaults.Mailbox, DefaultMailbox)
	}
	if cfg.Defaults.BatchSize != DefaultBatchSize {
		t.Errorf("Defaults.BatchSize = %d, want %d", cfg.Defaults.BatchSize, DefaultBatchSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() on missing file = nil error, want error")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.IMAP.Host = "mail.example.com"
	cfg.IMAP.Email = "user@example.com"
	cfg.Storage.Endpoint = "s3.example.com"
	cfg.Storage.AccessKey = "AKIA123"
	cfg.Defaults.BatchSize = 5

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.IMAP.Host != "mail.example.com" {
		t.Errorf("IMAP.Host = %q", loaded.IMAP.Host)
	}
	if loaded.IMAP.Email != "user@example.com" {
		t.Errorf("IMAP.Email = %q", loaded.IMAP.Email)
	}
	if loaded.Storage.Endpoint != "s3.example.com" {
		t.Errorf("Storage.Endpoint = %q", loaded.Storage.Endpoint)
	}
	if loaded.Defaults.BatchSize != 5 {
		t.Errorf("Defaults.BatchSize = %d, want 5", loaded.Defaults.BatchSize)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	// Partial config: only the IMAP host set.
	data := []byte("imap:\n  host: mail.example.com\n")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.IMAP.Host != "mail.example.com" {
		t.Errorf("IMAP.Host = %q", cfg.IMAP.Host)
	}
	if cfg.IMAP.Port != DefaultIMAPPort {
		t.Errorf("IMAP.Port = %d, want default %d", cfg.IMAP.Port, DefaultIMAPPort)
	}
	if cfg.Defaults.BatchSize != DefaultBatchSize {
		t.Errorf("Defaults.BatchSize = %d, want default %d", cfg.Defaults.BatchSize, DefaultBatchSize)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("imap: [not a map"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() on malformed yaml = nil error, want error")
	}
}

func TestSetPasswordRequiresEmail(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetIMAPPassword("secret"); err == nil {
		t.Error("SetIMAPPassword() without email = nil error, want error")
	}
}

func TestSetStorageSecretRequiresAccessKey(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetStorageSecret("secret"); err == nil {
		t.Error("SetStorageSecret() without access key = nil error, want error")
	}
}
