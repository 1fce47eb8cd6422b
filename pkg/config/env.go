package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvWebhookURL = "TEAMS_WEBHOOK_URL"
	EnvDryRun     = "LEADCARD_DRY_RUN"
	EnvLocale     = "LEADCARD_LOCALE"
	EnvDBDriver   = "LEADCARD_DB_DRIVER"
	EnvDBDSN      = "LEADCARD_DB_DSN"
	EnvLogLevel   = "LEADCARD_LOG_LEVEL"
)

// LoadDotEnv loads the given files (default ".env") into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overlays non-empty environment values onto c.
func (c Config) ApplyEnv(lookup func(string) (string, bool)) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvWebhookURL); ok {
		c.Teams.WebhookURL = v
	}
	if v, ok := get(EnvDryRun); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Teams.DryRun = b
		}
	}
	if v, ok := get(EnvLocale); ok {
		c.Card.Locale = v
	}
	if v, ok := get(EnvDBDriver); ok {
		c.Storage.Driver = v
	}
	if v, ok := get(EnvDBDSN); ok {
		c.Storage.DSN = v
	}
	if v, ok := get(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	return c
}
