package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bscott/mailsort/internal/config"
	"golang.org/x/term"
)

func (c *ConfigInitCmd) Run(ctx *Context) error {
	fmt.Println("mailsort Configuration Wizard")
	fmt.Println("=============================")
	fmt.Println()
	fmt.Println("This wizard configures the IMAP mailbox to watch and the object")
	fmt.Println("storage endpoint that attachments are routed into.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	cfg := config.DefaultConfig()

	// Email
	fmt.Printf("Email address: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email address is required")
	}
	cfg.IMAP.Email = email

	// IMAP Host
	fmt.Printf("IMAP host: ")
	imapHost, _ := reader.ReadString('\n')
	imapHost = strings.TrimSpace(imapHost)
	if imapHost == "" {
		return fmt.Errorf("IMAP host is required")
	}
	cfg.IMAP.Host = imapHost

	// IMAP Port
	fmt.Printf("IMAP port [%d]: ", config.DefaultIMAPPort)
	imapPortStr, _ := reader.ReadString('\n')
	imapPortStr = strings.TrimSpace(imapPortStr)
	if imapPortStr != "" {
		port, err := strconv.Atoi(imapPortStr)
		if err != nil {
			return fmt.Errorf("invalid IMAP port: %s", imapPortStr)
		}
		cfg.IMAP.Port = port
	}

	// IMAP Password
	fmt.Print("IMAP password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := string(passwordBytes)
	if password == "" {
		return fmt.Errorf("IMAP password is required")
	}

	fmt.Println()

	// Storage endpoint
	fmt.Printf("Storage endpoint (e.g., s3.example.com): ")
	endpoint, _ := reader.ReadString('\n')
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return fmt.Errorf("storage endpoint is required")
	}
	cfg.Storage.Endpoint = endpoint

	// Storage access key
	fmt.Printf("Storage access key: ")
	accessKey, _ := reader.ReadString('\n')
	accessKey = strings.TrimSpace(accessKey)
	if accessKey == "" {
		return fmt.Errorf("storage access key is required")
	}
	cfg.Storage.AccessKey = accessKey

	// Storage secret key
	fmt.Print("Storage secret key: ")
	secretBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read secret key: %w", err)
	}
	secret := string(secretBytes)
	if secret == "" {
		return fmt.Errorf("storage secret key is required")
	}

	// Save config
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if err := cfg.Save(""); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	// Store secrets in keyring
	if err := cfg.SetIMAPPassword(password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}
	if err := cfg.SetStorageSecret(secret); err != nil {
		return fmt.Errorf("failed to store storage secret in keyring: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	fmt.Println("Secrets stored securely in system keyring.")
	fmt.Println()
	fmt.Println("Test your connection with: mailsort mailbox list")

	return nil
}

func (c *ConfigShowCmd) Run(ctx *Context) error {
	if ctx.Config == nil {
		return fmt.Errorf("no configuration found - run 'mailsort config init' first")
	}

	if ctx.Formatter.JSON {
		return ctx.Formatter.PrintJSON(map[string]interface{}{
			"imap": map[string]interface{}{
				"host":     ctx.Config.IMAP.Host,
				"port":     ctx.Config.IMAP.Port,
				"email":    ctx.Config.IMAP.Email,
				"starttls": ctx.Config.IMAP.StartTLS,
			},
			"storage": map[string]interface{}{
				"endpoint":   ctx.Config.Storage.Endpoint,
				"access_key": ctx.Config.Storage.AccessKey,
				"use_ssl":    ctx.Config.Storage.UseSSL,
			},
			"defaults": map[string]interface{}{
				"mailbox":    ctx.Config.Defaults.Mailbox,
				"batch_size": ctx.Config.Defaults.BatchSize,
				"format":     ctx.Config.Defaults.Format,
			},
		})
	}

	configPath, _ := config.ConfigPath()
	fmt.Printf("Configuration file: %s\n\n", configPath)

	fmt.Println("IMAP Settings:")
	fmt.Printf("  Host:     %s\n", ctx.Config.IMAP.Host)
	fmt.Printf("  Port:     %d\n", ctx.Config.IMAP.Port)
	fmt.Printf("  Email:    %s\n", ctx.Config.IMAP.Email)
	fmt.Printf("  StartTLS: %v\n", ctx.Config.IMAP.StartTLS)

	fmt.Println()
	fmt.Println("Storage Settings:")
	fmt.Printf("  Endpoint:   %s\n", ctx.Config.Storage.Endpoint)
	fmt.Printf("  Access Key: %s\n", ctx.Config.Storage.AccessKey)
	fmt.Printf("  Use SSL:    %v\n", ctx.Config.Storage.UseSSL)

	fmt.Println()
	fmt.Println("Defaults:")
	fmt.Printf("  Mailbox:    %s\n", ctx.Config.Defaults.Mailbox)
	fmt.Printf("  Batch size: %d\n", ctx.Config.Defaults.BatchSize)
	fmt.Printf("  Format:     %s\n", ctx.Config.Defaults.Format)

	_, err := ctx.Config.GetIMAPPassword()
	fmt.Println()
	if err != nil {
		fmt.Println("Password: not set (run 'mailsort config init' to set)")
	} else {
		fmt.Println("Password: ********** (stored in keyring)")
	}

	return nil
}

func (c *ConfigSetCmd) Run(ctx *Context) error {
	if ctx.Config == nil {
		ctx.Config = config.DefaultConfig()
	}

	parts := strings.Split(c.Key, ".")
	if len(parts) != 2 {
		return fmt.Errorf("invalid key format - use section.key (e.g., imap.host, defaults.batch_size)")
	}

	section, key := parts[0], parts[1]

	switch section {
	case "imap":
		switch key {
		case "host":
			ctx.Config.IMAP.Host = c.Value
		case "port":
			port, err := strconv.Atoi(c.Value)
			if err != nil {
				return fmt.Errorf("invalid port value: %s", c.Value)
			}
			ctx.Config.IMAP.Port = port
		case "email":
			ctx.Config.IMAP.Email = c.Value
		case "starttls":
			ctx.Config.IMAP.StartTLS = c.Value == "true"
		case "insecure":
			ctx.Config.IMAP.Insecure = c.Value == "true"
		default:
			return fmt.Errorf("unknown imap key: %s", key)
		}
	case "storage":
		switch key {
		case "endpoint":
			ctx.Config.Storage.Endpoint = c.Value
		case "access_key":
			ctx.Config.Storage.AccessKey = c.Value
		case "use_ssl":
			ctx.Config.Storage.UseSSL = c.Value == "true"
		default:
			return fmt.Errorf("unknown storage key: %s", key)
		}
	case "defaults":
		switch key {
		case "mailbox":
			ctx.Config.Defaults.Mailbox = c.Value
		case "batch_size":
			size, err := strconv.Atoi(c.Value)
			if err != nil || size <= 0 {
				return fmt.Errorf("invalid batch_size value: %s", c.Value)
			}
			ctx.Config.Defaults.BatchSize = size
		case "format":
			if c.Value != "text" && c.Value != "json" {
				return fmt.Errorf("format must be 'text' or 'json'")
			}
			ctx.Config.Defaults.Format = c.Value
		default:
			return fmt.Errorf("unknown defaults key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s (use 'imap', 'storage' or 'defaults')", section)
	}

	if err := ctx.Config.Save(ctx.Globals.Config); err != nil {
		return err
	}

	ctx.Formatter.PrintSuccess(fmt.Sprintf("Set %s = %s", c.Key, c.Value))
	return nil
}
