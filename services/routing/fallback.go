package routing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

// fallback makes one call per remaining available provider in fallback
// order and returns the first success.
func (r *LiveRouter) fallback(ctx context.Context, task TaskType, failed providers.Identity, preq *providers.Request, start time.Time, lastErr error) (*CompletionResult, error) {
	attempted := []providers.Identity{failed}

	for _, id := range r.strategy.FallbackCandidates(failed, r.availableFn) {
		if err := ctx.Err(); err != nil {
			return nil, &AllProvidersExhaustedError{Attempted: attempted, Cause: err}
		}

		adapter, err := r.registry.Get(id)
		if err != nil {
			continue
		}
		attempted = append(attempted, id)

		r.logger.Info("trying fallback provider", zap.String("provider", string(id)))

		attemptCtx, cancel := context.WithTimeout(ctx, r.retry.AttemptTimeout)
		text, err := r.callOnce(attemptCtx, adapter, preq)
		cancel()

		if err != nil {
			lastErr = err
			r.logger.Warn("fallback provider failed",
				zap.String("provider", string(id)),
				zap.Error(err))
			continue
		}

		r.metrics.ObserveFallback(string(failed), string(id))
		r.logger.Info("completion succeeded via fallback",
			zap.String("task_type", string(task)),
			zap.String("failed_provider", string(failed)),
			zap.String("provider", string(id)),
			zap.Duration("latency", time.Since(start)))
		return r.result(text, adapter, start, true), nil
	}

	if err := ctx.Err(); err != nil {
		lastErr = err
	}

	r.logger.Error("all providers exhausted",
		zap.String("task_type", string(task)),
		zap.Int("attempted", len(attempted)))
	return nil, &AllProvidersExhaustedError{Attempted: attempted, Cause: lastErr}
}
