package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

const (
	AppName = "mailsort"

	DefaultIMAPPort  = 993
	DefaultMailbox   = "INBOX"
	DefaultBatchSize = 10
)

// IMAPConfig describes the mailbox server connection.
type IMAPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Email    string `yaml:"email"`
	StartTLS bool   `yaml:"starttls"`
	// Insecure skips TLS certificate verification, needed for local
	// bridges with self-signed certificates.
	Insecure bool `yaml:"insecure"`
}

// StorageConfig describes the S3-compatible object storage endpoint that
// attachment destination folders live in.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// DefaultsConfig holds per-run behavior defaults.
type DefaultsConfig struct {
	Mailbox string `yaml:"mailbox"`
	// BatchSize caps how many threads one rule processes per run.
	BatchSize int    `yaml:"batch_size"`
	Format    string `yaml:"format"`
}

type Config struct {
	IMAP     IMAPConfig     `yaml:"imap"`
	Storage  StorageConfig  `yaml:"storage"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

func DefaultConfig() *Config {
	return &Config{
		IMAP: IMAPConfig{
			Port: DefaultIMAPPort,
		},
		Storage: StorageConfig{
			UseSSL: true,
		},
		Defaults: DefaultsConfig{
			Mailbox:   DefaultMailbox,
			BatchSize: DefaultBatchSize,
			Format:    "text",
		},
	}
}

func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s - run 'mailsort config init' to create one", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Defaults.BatchSize <= 0 {
		cfg.Defaults.BatchSize = DefaultBatchSize
	}

	return cfg, nil
}

func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// SetIMAPPassword stores the mailbox password in the OS keyring, keyed by
// the configured email address.
func (c *Config) SetIMAPPassword(password string) error {
	if c.IMAP.Email == "" {
		return errors.New("email must be set before storing password")
	}
	return keyring.Set(AppName, c.IMAP.Email, password)
}

func (c *Config) GetIMAPPassword() (string, error) {
	if c.IMAP.Email == "" {
		return "", errors.New("email not configured")
	}
	password, err := keyring.Get(AppName, c.IMAP.Email)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("password not found in keyring - run 'mailsort config init' to set it")
		}
		return "", fmt.Errorf("failed to get password from keyring: %w", err)
	}
	return password, nil
}

// SetStorageSecret stores the object storage secret key in the OS keyring,
// keyed by the access key.
func (c *Config) SetStorageSecret(secret string) error {
	if c.Storage.AccessKey == "" {
		return errors.New("storage access key must be set before storing secret")
	}
	return keyring.Set(AppName+"-storage", c.Storage.AccessKey, secret)
}

func (c *Config) GetStorageSecret() (string, error) {
	if c.Storage.AccessKey == "" {
		return "", errors.New("storage access key not configured")
	}
	secret, err := keyring.Get(AppName+"-storage", c.Storage.AccessKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("storage secret not found in keyring - run 'mailsort config init' to set it")
		}
		return "", fmt.Errorf("failed to get storage secret from keyring: %w", err)
	}
	return secret, nil
}

func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
