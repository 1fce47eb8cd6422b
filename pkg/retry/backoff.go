package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Backoff computes the delay before the next retry attempt.
type Backoff interface {
	Next(attempt int) time.Duration
}

// FixedBackoff waits the same delay between every attempt.
type FixedBackoff struct {
	Delay time.Duration
}

// Next returns the configured delay; negative values are treated as zero.
func (b FixedBackoff) Next(int) time.Duration {
	if b.Delay < 0 {
		return 0
	}
	return b.Delay
}

// ExponentialBackoff grows delays by powers of two, capped at Max.
type ExponentialBackoff struct {
	Base time.Duration
	Max  time.Duration
}

// Next returns the delay for the given attempt (1-based).
func (b ExponentialBackoff) Next(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := b.Base
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	if attempt > 32 {
		attempt = 32
	}
	delay := base << (attempt - 1)
	if b.Max > 0 && (delay <= 0 || delay > b.Max) {
		return b.Max
	}
	return delay
}

// Backoff policy names accepted by ForPolicy.
const (
	PolicyFixed       = "fixed"
	PolicyExponential = "exponential"
)

var ErrUnknownPolicy = errors.New("retry: unknown backoff policy")

// ForPolicy builds the named policy. delay is the fixed delay or the
// exponential base; max caps exponential growth (0 leaves it uncapped).
// An empty policy selects fixed.
func ForPolicy(policy string, delay, max time.Duration) (Backoff, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "", PolicyFixed:
		return FixedBackoff{Delay: delay}, nil
	case PolicyExponential:
		return ExponentialBackoff{Base: delay, Max: max}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep blocks for d. It returns ctx.Err() if the context ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
