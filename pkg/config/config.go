package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-leadcards/pkg/retry"
)

// TextCodeInvalid tags configuration validation errors.
const TextCodeInvalid = "LEADCARD_CONFIG_INVALID"

// Config captures module-level configuration knobs. Each section feeds one
// component: teams the delivery client, card the composer, storage the
// delivery log.
type Config struct {
	Teams   TeamsConfig   `mapstructure:"teams" json:"teams"`
	Card    CardConfig    `mapstructure:"card" json:"card"`
	Storage StorageConfig `mapstructure:"storage" json:"storage"`
	Logging LoggingConfig `mapstructure:"logging" json:"logging"`
}

// TeamsConfig configures webhook delivery. Durations are whole seconds.
type TeamsConfig struct {
	WebhookURL        string `mapstructure:"webhook_url" json:"webhook_url"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	MaxAttempts       int    `mapstructure:"max_attempts" json:"max_attempts"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" json:"retry_delay_seconds"`
	// Backoff is "fixed" or "exponential"; exponential starts at the retry
	// delay and doubles up to MaxRetryDelaySeconds (0 means uncapped).
	Backoff              string            `mapstructure:"backoff" json:"backoff"`
	MaxRetryDelaySeconds int               `mapstructure:"max_retry_delay_seconds" json:"max_retry_delay_seconds"`
	Headers              map[string]string `mapstructure:"headers" json:"headers,omitempty"`
	DryRun               bool              `mapstructure:"dry_run" json:"dry_run"`
}

// Timeout is the per-attempt request timeout.
func (t TeamsConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// RetryDelay is the wait between attempts.
func (t TeamsConfig) RetryDelay() time.Duration {
	return time.Duration(t.RetryDelaySeconds) * time.Second
}

// MaxRetryDelay caps exponential backoff.
func (t TeamsConfig) MaxRetryDelay() time.Duration {
	return time.Duration(t.MaxRetryDelaySeconds) * time.Second
}

// RetryBackoff builds the configured retry policy.
func (t TeamsConfig) RetryBackoff() (retry.Backoff, error) {
	return retry.ForPolicy(t.Backoff, t.RetryDelay(), t.MaxRetryDelay())
}

// CardConfig tunes composition.
type CardConfig struct {
	Locale           string `mapstructure:"locale" json:"locale"`
	DefaultSourceURL string `mapstructure:"default_source_url" json:"default_source_url,omitempty"`
	DefaultUserImage string `mapstructure:"default_user_image" json:"default_user_image,omitempty"`
	PlainText        bool   `mapstructure:"plain_text" json:"plain_text"`
}

// StorageConfig selects the delivery log backend (memory, sqlite, postgres).
type StorageConfig struct {
	Driver string `mapstructure:"driver" json:"driver"`
	DSN    string `mapstructure:"dsn" json:"dsn,omitempty"`
}

// LoggingConfig sets the minimum log level.
type LoggingConfig struct {
	Level string `mapstructure:"level" json:"level"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Teams: TeamsConfig{
			TimeoutSeconds:    30,
			MaxAttempts:       3,
			RetryDelaySeconds: 10,
			Backoff:           retry.PolicyFixed,
		},
		Card:    CardConfig{Locale: "en"},
		Storage: StorageConfig{Driver: "memory"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Validate ensures required fields are present and sane. The webhook URL is
// only required when not running dry.
func (c *Config) Validate() error {
	var fields []goerrors.FieldError
	add := func(field, msg string) {
		fields = append(fields, goerrors.FieldError{Field: field, Message: msg})
	}

	if c.Teams.TimeoutSeconds <= 0 {
		add("teams.timeout_seconds", "must be > 0")
	}
	if c.Teams.MaxAttempts <= 0 {
		add("teams.max_attempts", "must be > 0")
	}
	if c.Teams.RetryDelaySeconds < 0 {
		add("teams.retry_delay_seconds", "must be >= 0")
	}
	if c.Teams.MaxRetryDelaySeconds < 0 {
		add("teams.max_retry_delay_seconds", "must be >= 0")
	}
	if _, err := c.Teams.RetryBackoff(); err != nil {
		add("teams.backoff", fmt.Sprintf("unsupported policy %q", c.Teams.Backoff))
	}
	if !c.Teams.DryRun {
		if c.Teams.WebhookURL == "" {
			add("teams.webhook_url", "is required unless dry_run is set")
		} else if u, err := url.Parse(c.Teams.WebhookURL); err != nil || u.Scheme == "" || u.Host == "" {
			add("teams.webhook_url", "must be an absolute URL")
		}
	}
	if c.Card.Locale == "" {
		add("card.locale", "is required")
	}
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
	case "postgres":
		if c.Storage.DSN == "" {
			add("storage.dsn", "is required for postgres")
		}
	default:
		add("storage.driver", fmt.Sprintf("unsupported driver %q", c.Storage.Driver))
	}

	if len(fields) == 0 {
		return nil
	}
	return goerrors.NewValidation("config: validation failed", fields...).
		WithTextCode(TextCodeInvalid)
}

// Load decodes input over Defaults() using cfgx, falling back to a JSON round
// trip when cfgx leaves the defaults untouched. Keys present in a map input
// win, including explicit zeros; a Config value is taken as complete.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	buildOpts := append([]cfgx.Option[Config]{cfgx.WithDefaults(Defaults())}, settings.buildOpts...)
	cfg, err := cfgx.Build(input, buildOpts...)
	if err != nil {
		return Config{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "config: decode failed").
			WithTextCode(TextCodeInvalid)
	}

	if isDefault(cfg) {
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "config: decode failed").
				WithTextCode(TextCodeInvalid)
		}
	}

	if settings.env != nil {
		cfg = cfg.ApplyEnv(settings.env)
	}
	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
	env       func(string) (string, bool)
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

// WithEnv overlays environment values (os.LookupEnv in production) before
// defaults and validation.
func WithEnv(lookup func(string) (string, bool)) LoadOption {
	return func(lo *loadOptions) {
		lo.env = lookup
	}
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	c.Teams.WebhookURL = strings.TrimSpace(c.Teams.WebhookURL)
	c.Teams.Backoff = strings.ToLower(strings.TrimSpace(c.Teams.Backoff))
	if c.Teams.Backoff == "" {
		c.Teams.Backoff = defaults.Teams.Backoff
	}
	c.Card.Locale = strings.TrimSpace(c.Card.Locale)
	if c.Card.Locale == "" {
		c.Card.Locale = defaults.Card.Locale
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = defaults.Storage.Driver
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	return c
}

// Summary flattens the settings worth logging at startup. Secret-bearing
// values are included as-is; pass the result through secrets.MaskFields
// before logging.
func (c Config) Summary() map[string]string {
	return map[string]string{
		"webhook_url":    c.Teams.WebhookURL,
		"dry_run":        strconv.FormatBool(c.Teams.DryRun),
		"max_attempts":   strconv.Itoa(c.Teams.MaxAttempts),
		"retry_delay":    c.Teams.RetryDelay().String(),
		"backoff":        c.Teams.Backoff,
		"locale":         c.Card.Locale,
		"storage_driver": c.Storage.Driver,
		"dsn":            c.Storage.DSN,
		"log_level":      c.Logging.Level,
	}
}

func isDefault(cfg Config) bool {
	return reflect.DeepEqual(cfg, Defaults())
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeMap(v, cfg)
	default:
		return fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
