package routing

import (
	"context"

	"go.uber.org/zap"

	"github.com/willckim/ClaimInvestigator-AI/internal/observability"
	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

const (
	// MockProvider identifies results produced by the OfflineRouter
	MockProvider providers.Identity = "mock"

	// MockModel is the model name reported for offline results
	MockModel = "mock-v1"
)

// CompletionRequest is a routed completion. Prompt must already be redacted.
type CompletionRequest struct {
	Prompt            string
	TaskType          TaskType
	PreferredProvider providers.Identity
	SystemPrompt      string
	MaxTokens         int
	Temperature       float64
	JSONMode          bool
}

// CompletionResult is the canonical outcome of a successful completion.
type CompletionResult struct {
	Text         string             `json:"text"`
	Provider     providers.Identity `json:"provider"`
	Model        string             `json:"model"`
	LatencyMs    int64              `json:"latency_ms"`
	UsedFallback bool               `json:"used_fallback"`
}

// Router completes prompts against the configured providers. Complete only
// fails with a *ConfigurationError or an *AllProvidersExhaustedError.
type Router interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error)
	AvailableProviders() []providers.Identity
}

// Options configures a router
type Options struct {
	Strategy    Strategy
	Retry       RetryPolicy
	OfflineMode bool
	Logger      *zap.Logger
	Metrics     observability.Metrics
}

func (o Options) withDefaults() Options {
	if o.Strategy.Routing == nil {
		o.Strategy = DefaultStrategy(o.Strategy.Default)
	}
	o.Retry = o.Retry.withDefaults()
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Metrics == nil {
		o.Metrics = observability.NopMetrics{}
	}
	return o
}

// New returns an OfflineRouter when offline mode is enabled and the registry
// is empty, and a LiveRouter otherwise.
func New(registry *providers.Registry, opts Options) Router {
	opts = opts.withDefaults()

	if registry.Count() == 0 {
		if opts.OfflineMode {
			opts.Logger.Warn("no LLM providers configured, serving canned offline responses")
			return NewOfflineRouter(opts.Logger)
		}
		opts.Logger.Warn("no LLM providers configured, completions will fail")
	}
	return NewLiveRouter(registry, opts)
}
