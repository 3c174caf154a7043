package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pageloader/internal/config"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
)

func TestFromConfig(t *testing.T) {
	p := FromConfig(config.RetryConfig{})
	assert.Equal(t, config.RetryBackoffLinear, p.Mode)
	assert.Equal(t, 200*time.Millisecond, p.Initial)
	assert.Zero(t, p.MaxRetries)

	// initial > max is clamped
	p = FromConfig(config.RetryConfig{Backoff: config.RetryBackoffFixed, Initial: 5 * time.Second, Max: 2 * time.Second, MaxRetries: 5})
	assert.Equal(t, 2*time.Second, p.Initial)
	assert.Equal(t, config.RetryBackoffFixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)
}

func TestDelayModes(t *testing.T) {
	ms := time.Millisecond
	fixed := Policy{Mode: config.RetryBackoffFixed, Initial: 100 * ms, Max: 500 * ms}
	linear := Policy{Mode: config.RetryBackoffLinear, Initial: 100 * ms, Max: 250 * ms}
	exp := Policy{Mode: config.RetryBackoffExponential, Initial: 50 * ms, Max: 160 * ms}

	tests := []struct {
		name   string
		policy Policy
		want   []time.Duration
	}{
		{"fixed", fixed, []time.Duration{100 * ms, 100 * ms, 100 * ms}},
		{"linear", linear, []time.Duration{100 * ms, 200 * ms, 250 * ms, 250 * ms}},
		{"exponential", exp, []time.Duration{50 * ms, 100 * ms, 160 * ms, 160 * ms}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.want {
				assert.Equal(t, want, tt.policy.Delay(i+1), "attempt %d", i+1)
			}
			assert.Zero(t, tt.policy.Delay(0))
			assert.Zero(t, tt.policy.Delay(-1))
		})
	}
}

func TestDoRetriesNetworkErrors(t *testing.T) {
	p := Policy{Mode: config.RetryBackoffFixed, Initial: time.Millisecond, Max: time.Millisecond, MaxRetries: 2}
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return derrors.NetworkError("connection reset").Build()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUp(t *testing.T) {
	p := Policy{Mode: config.RetryBackoffFixed, Initial: time.Millisecond, Max: time.Millisecond, MaxRetries: 1}
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return derrors.NetworkError("unavailable").Build()
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoDoesNotRetryPermanentErrors(t *testing.T) {
	p := Policy{Mode: config.RetryBackoffFixed, Initial: time.Millisecond, Max: time.Millisecond, MaxRetries: 3}
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return derrors.NotFoundError("gone").Build()
	})
	assert.True(t, derrors.HasCategory(err, derrors.CategoryNotFound))
	assert.Equal(t, 1, calls)

	calls = 0
	_ = p.Do(context.Background(), func() error {
		calls++
		return errors.New("plain")
	})
	assert.Equal(t, 1, calls)
}

func TestDoStopsOnCancel(t *testing.T) {
	p := Policy{Mode: config.RetryBackoffFixed, Initial: time.Hour, Max: time.Hour, MaxRetries: 3}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := p.Do(ctx, func() error {
		calls++
		return derrors.NetworkError("unavailable").Build()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
