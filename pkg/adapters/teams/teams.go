package teams

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-leadcards/pkg/adapters"
	"github.com/goliatone/go-leadcards/pkg/card"
	"github.com/goliatone/go-leadcards/pkg/interfaces/logger"
	"github.com/goliatone/go-leadcards/pkg/retry"
	"github.com/goliatone/go-leadcards/pkg/secrets"
)

const (
	DetailSent          = "Notification sent successfully."
	DetailUnexpected    = "Notification sent, but response was not '1' (Status: %d)."
	DetailTimedOut      = "Request timed out after multiple retries."
	DetailFailed        = "Request failed after multiple retries: %s"
	DetailAborted       = "Request aborted: %s"
	DetailMissingURL    = "Teams webhook URL is not configured."
	DetailInternalFault = "Internal tool error: unexpected %T during delivery."

	// TextCodeDeliveryFailed tags errors returned by Send.
	TextCodeDeliveryFailed = "LEADCARD_DELIVERY_FAILED"

	successBody     = "1"
	maxBodyLogBytes = 500
	maxBodyRead     = 64 << 10
)

// Config configures the Teams incoming-webhook client.
type Config struct {
	WebhookURL  string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
	Headers     map[string]string
	DryRun      bool
}

// DefaultConfig returns the delivery defaults: 30s per attempt, 3 attempts,
// 10s between attempts.
func DefaultConfig() Config {
	return Config{
		Timeout:     30 * time.Second,
		MaxAttempts: 3,
		RetryDelay:  10 * time.Second,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	c.WebhookURL = strings.TrimSpace(c.WebhookURL)
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	return c
}

// AttemptHook observes every delivery try.
type AttemptHook func(adapters.Attempt)

// Adapter posts Adaptive Card documents to a Teams incoming webhook.
type Adapter struct {
	name      string
	base      adapters.BaseAdapter
	caps      adapters.Capability
	cfg       Config
	client    *http.Client
	sleep     retry.Sleeper
	backoff   retry.Backoff
	onAttempt AttemptHook
}

type Option func(*Adapter)

// WithName overrides the adapter name.
func WithName(name string) Option {
	return func(a *Adapter) {
		if strings.TrimSpace(name) != "" {
			a.name = name
		}
	}
}

// WithConfig sets the adapter configuration.
func WithConfig(cfg Config) Option {
	return func(a *Adapter) {
		a.cfg = cfg
	}
}

// WithClient allows injecting a custom HTTP client.
func WithClient(c *http.Client) Option {
	return func(a *Adapter) {
		if c != nil {
			a.client = c
		}
	}
}

// WithSleeper replaces the wait between attempts (tests use a recorder).
func WithSleeper(fn retry.Sleeper) Option {
	return func(a *Adapter) {
		if fn != nil {
			a.sleep = fn
		}
	}
}

// WithBackoff replaces the fixed RetryDelay policy.
func WithBackoff(b retry.Backoff) Option {
	return func(a *Adapter) {
		if b != nil {
			a.backoff = b
		}
	}
}

// WithAttemptHook registers a callback invoked after each attempt.
func WithAttemptHook(fn AttemptHook) Option {
	return func(a *Adapter) {
		a.onAttempt = fn
	}
}

// New constructs the Teams adapter.
func New(l logger.Logger, opts ...Option) *Adapter {
	adapter := &Adapter{
		name: "teams",
		base: adapters.NewBaseAdapter(l),
		caps: adapters.Capability{
			Name:     "teams",
			Channels: []string{"chat", "teams"},
			Formats:  []string{"application/json", card.AdaptiveCardMIME},
		},
		cfg:   DefaultConfig(),
		sleep: retry.Sleep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	adapter.cfg = adapter.cfg.normalized()
	if adapter.backoff == nil {
		adapter.backoff = retry.FixedBackoff{Delay: adapter.cfg.RetryDelay}
	}
	if adapter.client == nil {
		adapter.client = &http.Client{}
	}
	return adapter
}

func (a *Adapter) Name() string { return a.name }

func (a *Adapter) Capabilities() adapters.Capability { return a.caps }

// Config returns the normalized configuration.
func (a *Adapter) Config() Config { return a.cfg }

// Send implements adapters.Messenger. msg.Body must hold the serialized card.
func (a *Adapter) Send(ctx context.Context, msg adapters.Message) error {
	out := a.Deliver(ctx, []byte(msg.Body))
	if out.OK() {
		a.base.LogSuccess(a.name, msg)
		return nil
	}
	err := goerrors.New(out.Detail, goerrors.CategoryExternal).
		WithTextCode(TextCodeDeliveryFailed).
		WithMetadata(map[string]any{
			"adapter":  a.name,
			"attempts": len(out.Attempts),
		})
	a.base.LogFailure(a.name, msg, err)
	return err
}

// DeliverDocument serializes doc and delivers it.
func (a *Adapter) DeliverDocument(ctx context.Context, doc card.Document) adapters.Outcome {
	payload, err := doc.Marshal()
	if err != nil {
		return adapters.Failure(fmt.Sprintf("Internal tool error: %v", err), nil)
	}
	return a.Deliver(ctx, payload)
}

// Deliver posts payload with bounded retries. It never returns an error:
// timeouts, transport failures, non-2xx responses and panics all end up in
// the returned outcome.
func (a *Adapter) Deliver(ctx context.Context, payload []byte) (out adapters.Outcome) {
	var attempts []adapters.Attempt
	defer func() {
		if r := recover(); r != nil {
			a.base.Logger().Error("teams delivery panicked", logger.Field{Key: "panic", Value: fmt.Sprint(r)})
			out = adapters.Failure(fmt.Sprintf(DetailInternalFault, r), attempts)
		}
	}()

	if a.cfg.WebhookURL == "" {
		a.base.Logger().Error("teams webhook url missing")
		return adapters.Failure(DetailMissingURL, nil)
	}

	log := a.base.Logger().With(logger.Field{Key: "webhook", Value: secrets.MaskURL(a.cfg.WebhookURL)})

	if a.cfg.DryRun {
		log.Info("[teams:dry-run] send skipped", logger.Field{Key: "bytes", Value: len(payload)})
		return adapters.Success(DetailSent, nil)
	}

	for n := 1; n <= a.cfg.MaxAttempts; n++ {
		att, body := a.try(ctx, n, payload)
		attempts = append(attempts, att)
		if a.onAttempt != nil {
			a.onAttempt(att)
		}

		if att.Err == nil {
			if body == successBody {
				log.Info("teams notification sent", logger.Field{Key: "attempt", Value: n})
				return adapters.Success(DetailSent, attempts)
			}
			log.Warn("teams notification sent with unexpected response",
				logger.Field{Key: "status", Value: att.StatusCode},
				logger.Field{Key: "body", Value: truncate(body, maxBodyLogBytes)},
			)
			return adapters.Success(fmt.Sprintf(DetailUnexpected, att.StatusCode), attempts)
		}

		if ctx.Err() != nil {
			log.Warn("teams delivery aborted", logger.Err(ctx.Err()))
			return adapters.Failure(fmt.Sprintf(DetailAborted, ctx.Err()), attempts)
		}

		timedOut := isTimeout(att.Err)
		fields := []logger.Field{
			{Key: "attempt", Value: n},
			{Key: "max_attempts", Value: a.cfg.MaxAttempts},
			logger.Err(att.Err),
		}
		if timedOut {
			log.Warn("teams request timed out", fields...)
		} else {
			log.Error("teams request failed", fields...)
		}

		if n == a.cfg.MaxAttempts {
			if timedOut {
				return adapters.Failure(DetailTimedOut, attempts)
			}
			return adapters.Failure(fmt.Sprintf(DetailFailed, att.Err), attempts)
		}

		delay := a.backoff.Next(n)
		log.Info("waiting before retry", logger.Field{Key: "delay", Value: delay.String()})
		if err := a.sleep(ctx, delay); err != nil {
			return adapters.Failure(fmt.Sprintf(DetailAborted, err), attempts)
		}
	}
	return adapters.Failure(fmt.Sprintf(DetailFailed, "no attempts made"), attempts)
}

func (a *Adapter) try(ctx context.Context, n int, payload []byte) (adapters.Attempt, string) {
	att := adapters.Attempt{Number: n, StartedAt: time.Now()}

	attemptCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		att.Err = fmt.Errorf("teams: build request: %w", err)
		att.Duration = time.Since(att.StartedAt)
		return att, ""
	}
	for k, v := range a.cfg.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		att.Err = err
		att.Duration = time.Since(att.StartedAt)
		return att, ""
	}
	defer resp.Body.Close()

	att.StatusCode = resp.StatusCode
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))
	if err != nil {
		att.Err = fmt.Errorf("teams: read response: %w", err)
	} else if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		att.Err = fmt.Errorf("teams: unexpected status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	att.Duration = time.Since(att.StartedAt)
	return att, string(raw)
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
