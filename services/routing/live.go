package routing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/willckim/ClaimInvestigator-AI/internal/observability"
	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

// LiveRouter routes completions to real providers with retry and fallback.
// Availability is fixed at construction, so concurrent calls share only
// read-only state.
type LiveRouter struct {
	registry  *providers.Registry
	strategy  Strategy
	retry     RetryPolicy
	logger    *zap.Logger
	metrics   observability.Metrics
	available []providers.Identity
	isAvail   map[providers.Identity]bool
}

// NewLiveRouter creates a router over the adapters currently registered
func NewLiveRouter(registry *providers.Registry, opts Options) *LiveRouter {
	opts = opts.withDefaults()

	available := registry.Available()
	isAvail := make(map[providers.Identity]bool, len(available))
	for _, id := range available {
		isAvail[id] = true
	}

	return &LiveRouter{
		registry:  registry,
		strategy:  opts.Strategy,
		retry:     opts.Retry,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		available: available,
		isAvail:   isAvail,
	}
}

// AvailableProviders returns the usable providers in enumeration order
func (r *LiveRouter) AvailableProviders() []providers.Identity {
	return append([]providers.Identity(nil), r.available...)
}

func (r *LiveRouter) availableFn(id providers.Identity) bool {
	return r.isAvail[id]
}

// Complete selects a provider, calls it under the retry policy and walks the
// fallback order if it keeps failing.
func (r *LiveRouter) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	start := time.Now()

	selected, ok := r.strategy.Select(req.TaskType, req.PreferredProvider, r.availableFn)
	if !ok {
		return nil, &ConfigurationError{Message: "no LLM provider is available; configure at least one provider API key"}
	}
	adapter, err := r.registry.Get(selected)
	if err != nil {
		return nil, &ConfigurationError{Message: "provider " + string(selected) + " is not registered"}
	}

	preq := &providers.Request{
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		MaxTokens:    req.MaxTokens,
		Temperature:  req.Temperature,
		JSONMode:     req.JSONMode,
	}

	text, err := r.callWithRetry(ctx, adapter, preq)
	if err == nil {
		r.logger.Info("completion succeeded",
			zap.String("task_type", string(req.TaskType)),
			zap.String("provider", string(selected)),
			zap.Duration("latency", time.Since(start)))
		return r.result(text, adapter, start, false), nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &AllProvidersExhaustedError{Attempted: []providers.Identity{selected}, Cause: ctxErr}
	}

	r.logger.Warn("provider exhausted retries, trying fallback",
		zap.String("provider", string(selected)),
		zap.Int("attempts", r.retry.Attempts),
		zap.Error(err))

	return r.fallback(ctx, req.TaskType, selected, preq, start, err)
}

// callWithRetry runs the retry policy against one adapter
func (r *LiveRouter) callWithRetry(ctx context.Context, adapter providers.Adapter, preq *providers.Request) (string, error) {
	var text string
	err := r.retry.Do(ctx, func(attemptCtx context.Context, attempt int) error {
		t, err := r.callOnce(attemptCtx, adapter, preq)
		if err != nil {
			r.logger.Debug("provider attempt failed",
				zap.String("provider", string(adapter.Identity())),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		text = t
		return nil
	})
	return text, err
}

// callOnce performs a single call and parse, recording the outcome
func (r *LiveRouter) callOnce(ctx context.Context, adapter providers.Adapter, preq *providers.Request) (string, error) {
	id := string(adapter.Identity())
	start := time.Now()

	raw, err := adapter.Call(ctx, preq)
	if err != nil {
		r.metrics.ObserveAttempt(id, attemptOutcome(ctx, err))
		return "", err
	}

	text, err := adapter.Parse(raw)
	if err != nil {
		r.metrics.ObserveAttempt(id, observability.OutcomeShapeError)
		r.logger.Warn("provider returned an unexpected response shape",
			zap.String("provider", id),
			zap.Error(err))
		return "", err
	}

	r.metrics.ObserveAttempt(id, observability.OutcomeSuccess)
	r.metrics.ObserveLatency(id, time.Since(start).Seconds())
	return text, nil
}

func (r *LiveRouter) result(text string, adapter providers.Adapter, start time.Time, usedFallback bool) *CompletionResult {
	return &CompletionResult{
		Text:         text,
		Provider:     adapter.Identity(),
		Model:        adapter.Model(),
		LatencyMs:    time.Since(start).Milliseconds(),
		UsedFallback: usedFallback,
	}
}

func attemptOutcome(ctx context.Context, err error) string {
	switch {
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		return observability.OutcomeCanceled
	case providers.IsResponseShapeError(err):
		return observability.OutcomeShapeError
	default:
		return observability.OutcomeTransportError
	}
}
