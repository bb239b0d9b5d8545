package routing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

// OfflineRouter serves canned responses when no provider is configured and
// offline mode is enabled. It never touches the network.
type OfflineRouter struct {
	logger *zap.Logger
}

// NewOfflineRouter creates an offline router
func NewOfflineRouter(logger *zap.Logger) *OfflineRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfflineRouter{logger: logger}
}

// Complete returns the canned text for the request's task type
func (r *OfflineRouter) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, &AllProvidersExhaustedError{Cause: err}
	}

	task := req.TaskType
	if task == "" {
		task = TaskGeneral
	}
	r.logger.Info("serving offline completion", zap.String("task_type", string(task)))

	return &CompletionResult{
		Text:      MockResponse(task),
		Provider:  MockProvider,
		Model:     MockModel,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

// AvailableProviders is always empty for the offline router
func (r *OfflineRouter) AvailableProviders() []providers.Identity {
	return []providers.Identity{}
}
