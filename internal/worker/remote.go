package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/DengYangGong/YT-AISpider/internal/translate"
)

// throttled spaces calls to next through a shared limiter.
type throttled struct {
	next    translate.Translator
	limiter *rate.Limiter
}

func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

func (t *throttled) Translate(ctx context.Context, text, source, target string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	return t.next.Translate(ctx, text, source, target)
}

// retrying bounds each call with a timeout and retries failures with
// exponential backoff.
type retrying struct {
	next     translate.Translator
	attempts int
	timeout  time.Duration
	backoff  time.Duration
	logger   *slog.Logger
}

func (r *retrying) Translate(ctx context.Context, text, source, target string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < r.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		out, err := r.next.Translate(callCtx, text, source, target)
		cancel()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt < r.attempts-1 {
			backoff := r.backoff << uint(attempt) // 1s, 2s, 4s...
			r.logger.Debug("translation call failed, retrying",
				"attempt", attempt+1,
				"backoff", backoff,
				"err", err)

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", r.attempts, lastErr)
}
