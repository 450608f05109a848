// Package retry computes backoff delays and runs operations under a retry policy.
package retry

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// Policy holds backoff settings for transient failures. It is immutable after
// construction.
type Policy struct {
	Mode       config.RetryBackoffMode
	Initial    time.Duration
	Max        time.Duration
	MaxRetries int // attempts after the first failure
}

// DefaultPolicy is linear backoff from 500ms capped at 5s, with no retries.
func DefaultPolicy() Policy {
	return Policy{
		Mode:    config.RetryBackoffLinear,
		Initial: config.DefaultRetryInitial,
		Max:     config.DefaultRetryMax,
	}
}

// NewPolicy builds a policy from raw fields; zero or unknown values keep the
// defaults and Initial is clamped to Max.
func NewPolicy(mode config.RetryBackoffMode, initial, maxDelay time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries > 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDelay > 0 {
		p.Max = maxDelay
	}
	switch mode {
	case config.RetryBackoffFixed, config.RetryBackoffLinear, config.RetryBackoffExponential:
		p.Mode = mode
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// FromNotify builds the publish retry policy.
func FromNotify(cfg config.NotifyConfig) Policy {
	initial, maxDelay := cfg.RetryDelays()
	return NewPolicy(config.NormalizeRetryBackoff(cfg.Backoff), initial, maxDelay, cfg.Retries)
}

// Delay returns the wait before retry n (1-based).
func (p Policy) Delay(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case config.RetryBackoffFixed:
		return p.Initial
	case config.RetryBackoffExponential:
		shift := n - 1
		if shift > 30 {
			return p.Max
		}
		d = p.Initial << shift
	default:
		d = time.Duration(n) * p.Initial
	}
	if d > p.Max || d <= 0 {
		return p.Max
	}
	return d
}

// Validate reports a policy that cannot be applied.
func (p Policy) Validate() error {
	if p.Initial <= 0 {
		return fmt.Errorf("initial must be >0")
	}
	if p.Max <= 0 {
		return fmt.Errorf("max must be >0")
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}

// Do runs op until it succeeds, the retries are used up, or ctx ends. The
// returned error is the last one op produced, or ctx.Err() when canceled
// while waiting.
func (p Policy) Do(ctx context.Context, op func(context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if attempt >= p.MaxRetries {
			return err
		}
		timer := time.NewTimer(p.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
