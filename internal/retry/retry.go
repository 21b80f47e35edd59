// Package retry paces repeated attempts at outbound deliveries, such as
// posting a renewal digest to Slack.
package retry

import (
	"context"
	"math/rand"
	"time"

	cerrors "github.com/policydesk/policydesk/internal/errors"
)

// Policy controls how delivery attempts are spaced out.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

// DeliveryPolicy returns the pacing used for digest posts: three attempts,
// doubling from half a second, capped at ten seconds.
func DeliveryPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Jitter:      true,
	}
}

// backoff computes the wait before the next attempt. The delay doubles per
// failed attempt up to MaxDelay; with Jitter it is spread across the upper
// half of that window so concurrent senders drift apart instead of hitting
// the Slack API in lockstep.
func (p Policy) backoff(attempt int) time.Duration {
	delay := p.BaseDelay << uint(attempt)
	if delay > p.MaxDelay || delay <= 0 {
		delay = p.MaxDelay
	}
	if p.Jitter {
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()*0.5))
	}
	return delay
}

// Do runs fn until it succeeds, fails terminally, or the policy's attempts
// are spent. Only errors the errors package marks retryable are retried;
// anything else is returned to the caller as-is.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !cerrors.IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff(attempt)):
		}
	}
	return lastErr
}
