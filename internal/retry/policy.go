// Package retry retries transient failures with bounded backoff.
package retry

import (
	"context"
	"time"

	"git.home.luguber.info/inful/pageloader/internal/config"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
)

// Policy bounds how often and how patiently a transient failure is retried.
// The zero Policy never retries.
type Policy struct {
	Mode       config.RetryBackoffMode
	Initial    time.Duration
	Max        time.Duration
	MaxRetries int
}

// DefaultPolicy backs off linearly from 200ms up to 2s and retries twice.
func DefaultPolicy() Policy {
	return Policy{Mode: config.RetryBackoffLinear, Initial: 200 * time.Millisecond, Max: 2 * time.Second, MaxRetries: 2}
}

// FromConfig overlays the set fields of c on DefaultPolicy. A MaxRetries of 0
// is honoured and disables retrying.
func FromConfig(c config.RetryConfig) Policy {
	p := DefaultPolicy()
	p.MaxRetries = max(c.MaxRetries, 0)
	if c.Initial > 0 {
		p.Initial = c.Initial
	}
	if c.Max > 0 {
		p.Max = c.Max
	}
	if c.Backoff != "" {
		p.Mode = c.Backoff
	}
	p.Initial = min(p.Initial, p.Max)
	return p
}

// Delay is the wait before retry n, counting from 1. It never exceeds Max.
func (p Policy) Delay(n int) time.Duration {
	if n < 1 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case config.RetryBackoffFixed:
		d = p.Initial
	case config.RetryBackoffExponential:
		shift := min(n-1, 30)
		d = p.Initial << shift
		if d>>shift != p.Initial {
			return p.Max
		}
	default:
		d = p.Initial * time.Duration(n)
	}
	if p.Max > 0 && d > p.Max {
		return p.Max
	}
	return d
}

// Retryable reports whether err is worth another attempt. Only transient
// failures are; a missing or malformed resource stays that way.
func Retryable(err error) bool {
	return derrors.IsTransient(err)
}

// Do calls fn until it succeeds, returns a non-retryable error, or the policy
// is exhausted. It returns the last error.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil || !Retryable(err) || attempt >= p.MaxRetries {
			return err
		}
		timer := time.NewTimer(p.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
