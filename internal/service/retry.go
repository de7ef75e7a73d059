package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/set-night/swifthub/internal/config"
	"github.com/set-night/swifthub/internal/domain"
)

// RetryPolicy bounds retries of transient completion failures.
type RetryPolicy struct {
	MaxRetries   int           // 0 disables retries
	InitialDelay time.Duration // delay before the first retry
	MaxDelay     time.Duration // cap, also applied to Retry-After
	Multiplier   float64       // exponential backoff factor
}

func RetryPolicyFromConfig(cfg config.AssistantConfig) RetryPolicy {
	return RetryPolicy{
		MaxRetries:   cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     cfg.RetryMaxDelay,
		Multiplier:   2.0,
	}
}

// retryTransient runs fn until it succeeds, fails with a non-transient kind,
// or the policy is exhausted. It returns the number of attempts made.
func retryTransient[T any](
	ctx context.Context,
	policy RetryPolicy,
	fn func(ctx context.Context) (T, error),
	onRetry func(attempt int, delay time.Duration, err error),
) (T, int, error) {
	var zero T
	attempt := 0
	for {
		attempt++
		result, err := fn(ctx)
		if err == nil {
			return result, attempt, nil
		}
		if !domain.KindOf(err).Transient() || attempt > policy.MaxRetries {
			return zero, attempt, err
		}

		delay := policy.delay(attempt-1, err)
		if onRetry != nil {
			onRetry(attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, attempt, &domain.GatewayError{
				Kind: domain.KindNetworkFailure,
				Err:  fmt.Errorf("context cancelled during retry: %w", errors.Join(ctx.Err(), err)),
			}
		case <-timer.C:
		}
	}
}

// delay is InitialDelay * Multiplier^retry, or the server's Retry-After,
// capped at MaxDelay.
func (p RetryPolicy) delay(retry int, err error) time.Duration {
	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) && gwErr.RetryAfter > 0 {
		return p.capped(gwErr.RetryAfter)
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(p.InitialDelay) * math.Pow(mult, float64(retry))
	return p.capped(time.Duration(d))
}

func (p RetryPolicy) capped(d time.Duration) time.Duration {
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}
