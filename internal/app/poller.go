package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// maxBackoff caps the delay between refreshes after repeated failures.
const maxBackoff = 30 * time.Minute

// poll reloads the catalog every interval until ctx is cancelled. Failed
// reloads back off exponentially.
func (s *Shell) poll(ctx context.Context, interval time.Duration) {
	failures := 0
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := s.Service.ReloadTools(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			s.Logger.Warn("catalog refresh failed",
				zap.Int("failures", failures),
				zap.Error(err),
			)
		} else {
			failures = 0
		}
		timer.Reset(calculateBackoff(failures, interval))
	}
}

// calculateBackoff returns the delay before the next refresh: the base
// interval doubled per consecutive failure, capped at maxBackoff or the base
// interval, whichever is larger.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	limit := max(maxBackoff, base)
	if failures <= 0 {
		return base
	}
	delay := base
	for range failures {
		delay *= 2
		if delay >= limit {
			return limit
		}
	}
	return delay
}
