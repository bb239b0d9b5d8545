// Package completion is the caller boundary of the gateway: every prompt is
// redacted before it is routed to a provider, and every outcome is audited
// by counts only.
package completion

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/willckim/ClaimInvestigator-AI/internal/observability"
	"github.com/willckim/ClaimInvestigator-AI/internal/pii"
	"github.com/willckim/ClaimInvestigator-AI/models"
	"github.com/willckim/ClaimInvestigator-AI/services"
	"github.com/willckim/ClaimInvestigator-AI/services/audit"
	"github.com/willckim/ClaimInvestigator-AI/services/providers"
	"github.com/willckim/ClaimInvestigator-AI/services/routing"
)

// Error classes written to the audit trail
const (
	errorClassConfiguration = "configuration"
	errorClassExhausted     = "providers_exhausted"
	errorClassCancelled     = "cancelled"
	errorClassInternal      = "internal"
)

// Service orchestrates redaction, routing and auditing
type Service struct {
	redactor *pii.Redactor
	router   routing.Router
	recorder audit.Recorder
	metrics  observability.Metrics
	config   Config
	logger   *zap.Logger
}

// NewService creates a completion service. A nil recorder or metrics sink
// disables that concern.
func NewService(
	redactor *pii.Redactor,
	router routing.Router,
	recorder audit.Recorder,
	metrics observability.Metrics,
	config Config,
	logger *zap.Logger,
) *Service {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	if metrics == nil {
		metrics = observability.NopMetrics{}
	}
	if config.DefaultMaxTokens <= 0 {
		config.DefaultMaxTokens = DefaultConfig().DefaultMaxTokens
	}
	return &Service{
		redactor: redactor,
		router:   router,
		recorder: recorder,
		metrics:  metrics,
		config:   config,
		logger:   logger,
	}
}

// Redact previews what the gateway would send upstream for text
func (s *Service) Redact(ctx context.Context, req *RedactRequest) (*RedactResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, services.NewDomainError(services.ErrorTypeValidation, services.ErrEmptyText.Message, nil)
	}

	redactor, err := s.redactorFor(req.Entities)
	if err != nil {
		return nil, err
	}

	result := redactor.Redact(req.Text)
	s.observeRedaction(result)

	s.logger.Debug("redaction preview",
		zap.Int("redactions", len(result.Mappings)),
		zap.Int("text_length", len(req.Text)))

	return &RedactResponse{
		RedactedText: result.RedactedText,
		EntityCounts: countsByName(result),
		Summary:      pii.Summary(result),
		PIIRedacted:  result.HasRedactions(),
	}, nil
}

// Complete redacts the request text, routes it to a provider and records the
// outcome. The response text is returned as produced by the provider;
// placeholders are not restored.
func (s *Service) Complete(ctx context.Context, req *Request) (*Response, error) {
	id := uuid.New()
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = id.String()
	}

	if strings.TrimSpace(req.Text) == "" {
		return nil, services.NewDomainError(services.ErrorTypeValidation, services.ErrEmptyText.Message, nil)
	}

	task, err := routing.ParseTaskType(req.TaskType)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, services.ErrInvalidTaskType.Message, err).
			WithDetail("task_type", req.TaskType)
	}

	preferred, err := providers.ParseIdentity(req.PreferredProvider)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, services.ErrInvalidProvider.Message, err).
			WithDetail("preferred_provider", req.PreferredProvider)
	}

	s.logger.Info("starting completion",
		zap.String("completion_id", id.String()),
		zap.String("request_id", requestID),
		zap.String("task_type", string(task)),
		zap.String("preferred_provider", string(preferred)))

	// Step 1: redact
	redaction := s.redactor.Redact(req.Text)
	s.observeRedaction(redaction)
	s.logger.Debug("step 1: redacted prompt",
		zap.String("completion_id", id.String()),
		zap.Int("redactions", len(redaction.Mappings)))

	// Step 2: fill request defaults
	routed := &routing.CompletionRequest{
		Prompt:            redaction.RedactedText,
		TaskType:          task,
		PreferredProvider: preferred,
		SystemPrompt:      req.SystemPrompt,
		MaxTokens:         req.MaxTokens,
		Temperature:       s.config.DefaultTemperature,
		JSONMode:          req.JSONMode,
	}
	if strings.TrimSpace(routed.SystemPrompt) == "" {
		routed.SystemPrompt = routing.DefaultSystemPrompt(task)
	}
	if routed.MaxTokens <= 0 {
		routed.MaxTokens = s.config.DefaultMaxTokens
	}
	if req.Temperature != nil {
		routed.Temperature = *req.Temperature
	}

	record := models.NewCompletionRecord(requestID, string(task)).
		WithEntityCounts(countsByName(redaction))
	record.ID = id

	// Step 3: route
	s.logger.Debug("step 3: routing completion", zap.String("completion_id", id.String()))
	result, err := s.router.Complete(ctx, routed)
	if err != nil {
		class, domainErr := classify(ctx, err)
		s.record(record.WithFailure(class, time.Since(start).Milliseconds()))

		s.logger.Warn("completion failed",
			zap.String("completion_id", id.String()),
			zap.String("error_class", class),
			zap.Error(err))
		return nil, domainErr
	}

	// Step 4: audit
	s.record(record.WithResult(string(result.Provider), result.Model, result.LatencyMs, result.UsedFallback))

	s.logger.Info("completion finished",
		zap.String("completion_id", id.String()),
		zap.String("provider", string(result.Provider)),
		zap.String("model", result.Model),
		zap.Int64("latency_ms", result.LatencyMs),
		zap.Bool("used_fallback", result.UsedFallback))

	return &Response{
		ID:               id,
		Text:             result.Text,
		Provider:         result.Provider,
		Model:            result.Model,
		LatencyMs:        result.LatencyMs,
		UsedFallback:     result.UsedFallback,
		TaskType:         string(task),
		PIIRedacted:      redaction.HasRedactions(),
		RedactionSummary: pii.Summary(redaction),
	}, nil
}

// Status reports provider availability and redaction settings. Mode is mock
// when no provider is available.
func (s *Service) Status() *Status {
	available := make(map[providers.Identity]bool)
	for _, id := range s.router.AvailableProviders() {
		available[id] = true
	}

	mode := ModeProduction
	if len(available) == 0 {
		mode = ModeMock
	}

	infos := make([]providers.Info, 0, len(providers.Identities()))
	for _, id := range providers.Identities() {
		infos = append(infos, providers.Info{
			Provider:  id,
			ModelName: s.config.ProviderModels[id],
			Available: available[id],
			BestFor:   providers.BestFor(id),
		})
	}

	entities := s.redactor.Entities()
	entityNames := make([]string, len(entities))
	for i, e := range entities {
		entityNames[i] = string(e)
	}

	tasks := routing.TaskTypes()
	taskNames := make([]string, len(tasks))
	for i, t := range tasks {
		taskNames[i] = string(t)
	}

	return &Status{
		Mode:              mode,
		Providers:         infos,
		RedactionEnabled:  s.redactor.Enabled(),
		RedactionEntities: entityNames,
		TaskTypes:         taskNames,
	}
}

// redactorFor returns the configured redactor, or one scoped to the given
// entity names
func (s *Service) redactorFor(names []string) (*pii.Redactor, error) {
	if len(names) == 0 {
		return s.redactor, nil
	}

	entities, unknown := pii.ParseEntityTypes(names)
	if len(unknown) > 0 {
		return nil, services.NewDomainError(services.ErrorTypeValidation, services.ErrInvalidEntity.Message, nil).
			WithDetail("unknown_entities", unknown)
	}
	return pii.New(pii.Config{Enabled: s.redactor.Enabled(), Entities: entities}), nil
}

func (s *Service) observeRedaction(result *pii.Result) {
	for entity, n := range result.EntityCounts {
		s.metrics.ObserveRedaction(string(entity), n)
	}
}

func (s *Service) record(rec *models.CompletionRecord) {
	if err := s.recorder.Record(rec); err != nil {
		s.logger.Warn("failed to queue completion record",
			zap.String("completion_id", rec.ID.String()),
			zap.Error(err))
	}
}

// classify maps router errors to an audit class and a domain error. Attempt
// timeouts inside the router are provider failures; only the caller's own
// context ending counts as a cancellation.
func classify(ctx context.Context, err error) (string, error) {
	switch {
	case routing.IsConfigurationError(err):
		return errorClassConfiguration, services.WrapUnavailable(services.ErrNoProviderAvailable.Message, err)

	case ctx.Err() != nil:
		var exhausted *routing.AllProvidersExhaustedError
		domainErr := services.NewDomainError(services.ErrorTypeExternal, "completion cancelled before a provider answered", err)
		if errors.As(err, &exhausted) {
			domainErr.WithDetail("attempted", exhausted.Attempted)
		}
		return errorClassCancelled, domainErr

	case routing.IsAllProvidersExhausted(err):
		var exhausted *routing.AllProvidersExhaustedError
		errors.As(err, &exhausted)
		return errorClassExhausted, services.NewDomainError(services.ErrorTypeExternal, services.ErrProvidersExhausted.Message, err).
			WithDetail("attempted", exhausted.Attempted)

	default:
		return errorClassInternal, services.WrapInternal("completion failed", err)
	}
}

func countsByName(result *pii.Result) map[string]int {
	counts := make(map[string]int, len(result.EntityCounts))
	for entity, n := range result.EntityCounts {
		counts[string(entity)] = n
	}
	return counts
}
