package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

func TestLoadFromMap(t *testing.T) {
	input := map[string]any{
		"teams": map[string]any{
			"webhook_url":         "https://contoso.webhook.office.com/webhookb2/abc",
			"max_attempts":        5,
			"retry_delay_seconds": 2,
		},
		"card": map[string]any{
			"locale": "ja",
		},
	}

	cfg, err := Load(input)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Card.Locale != "ja" {
		t.Fatalf("expected locale ja, got %s", cfg.Card.Locale)
	}
	if cfg.Teams.MaxAttempts != 5 || cfg.Teams.RetryDelay() != 2*time.Second {
		t.Fatalf("unexpected teams config %+v", cfg.Teams)
	}
	if cfg.Teams.Timeout() != 30*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.Teams.Timeout())
	}
	if cfg.Storage.Driver != "memory" || cfg.Logging.Level != "info" {
		t.Fatalf("expected defaults for storage and logging, got %+v %+v", cfg.Storage, cfg.Logging)
	}
}

func TestLoadFromStruct(t *testing.T) {
	input := Defaults()
	input.Teams.DryRun = true
	input.Storage.Driver = "SQLite"

	cfg, err := Load(input)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Fatalf("expected normalized driver, got %s", cfg.Storage.Driver)
	}
	if cfg.Teams.MaxAttempts != 3 || cfg.Teams.RetryDelaySeconds != 10 {
		t.Fatalf("expected delivery defaults, got %+v", cfg.Teams)
	}
}

func TestLoadKeepsExplicitZeroRetryDelay(t *testing.T) {
	cfg, err := Load(map[string]any{
		"teams": map[string]any{
			"webhook_url":         "https://contoso.webhook.office.com/webhookb2/abc",
			"retry_delay_seconds": 0,
		},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Teams.RetryDelaySeconds != 0 || cfg.Teams.RetryDelay() != 0 {
		t.Fatalf("expected zero retry delay, got %d", cfg.Teams.RetryDelaySeconds)
	}
	if cfg.Teams.MaxAttempts != 3 || cfg.Teams.TimeoutSeconds != 30 {
		t.Fatalf("omitted keys should keep defaults, got %+v", cfg.Teams)
	}

	input := Defaults()
	input.Teams.DryRun = true
	input.Teams.RetryDelaySeconds = 0
	cfg, err = Load(input)
	if err != nil {
		t.Fatalf("load struct: %v", err)
	}
	if cfg.Teams.RetryDelaySeconds != 0 {
		t.Fatalf("expected zero retry delay from struct, got %d", cfg.Teams.RetryDelaySeconds)
	}
}

func TestLoadRejectsExplicitZeroAttempts(t *testing.T) {
	_, err := Load(map[string]any{
		"teams": map[string]any{"dry_run": true, "max_attempts": 0},
	})
	if err == nil {
		t.Fatalf("expected max_attempts 0 to be rejected")
	}
}

func TestLoadWithEnvOverlay(t *testing.T) {
	env := map[string]string{
		EnvWebhookURL: " https://contoso.webhook.office.com/webhookb2/env ",
		EnvLocale:     "ja",
		EnvDBDriver:   "sqlite",
		EnvDBDSN:      "file:leads.db",
		EnvLogLevel:   "debug",
		EnvDryRun:     "false",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg, err := Load(map[string]any{"card": map[string]any{"locale": "en"}}, WithEnv(lookup))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Teams.WebhookURL != "https://contoso.webhook.office.com/webhookb2/env" {
		t.Fatalf("expected env webhook, got %q", cfg.Teams.WebhookURL)
	}
	if cfg.Card.Locale != "ja" || cfg.Storage.Driver != "sqlite" || cfg.Storage.DSN != "file:leads.db" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected overlay result %+v", cfg)
	}
}

func TestValidateReportsFields(t *testing.T) {
	cfg := Defaults()
	cfg.Storage.Driver = "postgres"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors error, got %T", err)
	}
	if rich.TextCode != TextCodeInvalid || rich.Category != goerrors.CategoryValidation {
		t.Fatalf("unexpected classification %+v", rich)
	}

	cfg = Defaults()
	cfg.Teams.WebhookURL = "not-a-url"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected relative webhook url to be rejected")
	}

	cfg = Defaults()
	cfg.Teams.DryRun = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("dry run should not need a webhook: %v", err)
	}
}

func TestLoadBackoffPolicy(t *testing.T) {
	cfg, err := Load(map[string]any{
		"teams": map[string]any{
			"dry_run":                 true,
			"backoff":                 " Exponential ",
			"retry_delay_seconds":     2,
			"max_retry_delay_seconds": 5,
		},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Teams.Backoff != "exponential" {
		t.Fatalf("expected normalised policy, got %q", cfg.Teams.Backoff)
	}
	b, err := cfg.Teams.RetryBackoff()
	if err != nil {
		t.Fatalf("backoff: %v", err)
	}
	if b.Next(2) != 4*time.Second || b.Next(4) != 5*time.Second {
		t.Fatalf("unexpected delays %s %s", b.Next(2), b.Next(4))
	}

	if _, err := Load(map[string]any{"teams": map[string]any{"dry_run": true, "backoff": "jitter"}}); err == nil {
		t.Fatalf("expected unknown backoff to be rejected")
	}
	if _, err := Load(map[string]any{"teams": map[string]any{"dry_run": true, "max_retry_delay_seconds": -1}}); err == nil {
		t.Fatalf("expected negative max retry delay to be rejected")
	}
}

func TestSummary(t *testing.T) {
	cfg := Defaults()
	cfg.Teams.WebhookURL = "https://example.webhook.office.com/webhookb2/secret"
	cfg.Storage.DSN = "file:leads.db"

	summary := cfg.Summary()
	if summary["webhook_url"] != cfg.Teams.WebhookURL || summary["dsn"] != "file:leads.db" {
		t.Fatalf("unexpected summary %v", summary)
	}
	if summary["max_attempts"] != "3" || summary["retry_delay"] != "10s" || summary["backoff"] != "fixed" {
		t.Fatalf("unexpected retry settings %v", summary)
	}
}

func TestLoadRejectsUnsupportedInput(t *testing.T) {
	if _, err := Load(42); err == nil {
		t.Fatalf("expected error for unsupported input")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("LEADCARD_TEST_DOTENV=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("LEADCARD_TEST_DOTENV", "")
	os.Unsetenv("LEADCARD_TEST_DOTENV")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("LEADCARD_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
