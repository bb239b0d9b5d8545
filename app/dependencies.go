package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/willckim/ClaimInvestigator-AI/config"
	"github.com/willckim/ClaimInvestigator-AI/internal/observability"
	"github.com/willckim/ClaimInvestigator-AI/internal/pii"
	"github.com/willckim/ClaimInvestigator-AI/repositories/postgres"
	"github.com/willckim/ClaimInvestigator-AI/services/audit"
	"github.com/willckim/ClaimInvestigator-AI/services/completion"
	"github.com/willckim/ClaimInvestigator-AI/services/providers"
	"github.com/willckim/ClaimInvestigator-AI/services/providers/anthropic"
	"github.com/willckim/ClaimInvestigator-AI/services/providers/azure"
	"github.com/willckim/ClaimInvestigator-AI/services/providers/gemini"
	"github.com/willckim/ClaimInvestigator-AI/services/providers/ollama"
	"github.com/willckim/ClaimInvestigator-AI/services/providers/openai"
	"github.com/willckim/ClaimInvestigator-AI/services/routing"
)

// auditStopTimeout bounds how long Close waits for queued records
const auditStopTimeout = 10 * time.Second

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// DB is nil when no audit database is configured
	DB          *sql.DB
	RepoFactory *postgres.RepositoryFactory

	// Metrics is nil when metrics are disabled
	Metrics *observability.PrometheusMetrics

	// Pipeline
	ProviderRegistry  *providers.Registry
	Redactor          *pii.Redactor
	Router            routing.Router
	AuditService      *audit.AuditService
	CompletionService *completion.Service
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Observability.MetricsEnabled {
		deps.Metrics = observability.NewPrometheusMetrics(prometheus.NewRegistry())
	}

	// Initialize the audit store when a database is configured
	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize provider registry
	registry, err := NewProviderRegistry(cfg.Providers, logger)
	if err != nil {
		deps.closeDatabase()
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}
	deps.ProviderRegistry = registry

	deps.Redactor = NewRedactor(cfg.Redaction, logger)
	deps.Router = routing.New(registry, RouterOptions(cfg.Routing, deps.metrics(), logger))

	var recorder audit.Recorder = audit.NopRecorder{}
	if deps.AuditService != nil {
		recorder = deps.AuditService
	}

	deps.CompletionService = completion.NewService(
		deps.Redactor,
		deps.Router,
		recorder,
		deps.metrics(),
		completion.Config{
			DefaultMaxTokens:   cfg.Routing.MaxTokens,
			DefaultTemperature: cfg.Routing.Temperature,
			ProviderModels:     ProviderModels(cfg.Providers),
		},
		logger,
	)

	logger.Info("all dependencies initialized successfully",
		zap.Int("providers", registry.Count()),
		zap.Bool("audit_enabled", deps.AuditService != nil),
		zap.Bool("redaction_enabled", deps.Redactor.Enabled()))
	return deps, nil
}

// metrics returns the configured sink, or nil to let consumers fall back to
// their no-op default
func (d *Dependencies) metrics() observability.Metrics {
	if d.Metrics == nil {
		return nil
	}
	return d.Metrics
}

// initDatabase opens the audit database, creates its schema and starts the
// audit worker pool. A missing database configuration disables auditing.
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	if !cfg.Database.Enabled() {
		d.Logger.Info("no audit database configured, completion records will not be persisted")
		return nil
	}

	factory, err := postgres.NewRepositoryFactory(cfg.Database, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	if err := factory.GetDB().InitSchema(ctx); err != nil {
		_ = factory.Close()
		return fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	repos := factory.NewRepositories()
	auditService := audit.NewAuditService(repos.CompletionRecords, d.Logger, audit.Config{
		BufferSize:  cfg.Audit.BufferSize,
		WorkerCount: cfg.Audit.WorkerCount,
	})
	if err := auditService.Start(); err != nil {
		_ = factory.Close()
		return fmt.Errorf("failed to start audit service: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB().DB
	d.AuditService = auditService
	return nil
}

// NewProviderRegistry registers an adapter for every provider with
// credentials. All adapters share one HTTP client; each gets its own pacing.
func NewProviderRegistry(cfg config.ProvidersConfig, logger *zap.Logger) (*providers.Registry, error) {
	registry := providers.NewRegistry()
	client := providers.NewHTTPClient(cfg.HTTPTimeout)

	transport := func(id providers.Identity) *providers.HTTPTransport {
		return providers.NewHTTPTransport(id, client, cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	for _, id := range cfg.Configured() {
		var adapter providers.Adapter

		switch id {
		case providers.Claude:
			adapter = anthropic.NewAdapter(anthropic.Config{
				APIKey:  cfg.Anthropic.APIKey,
				Model:   cfg.Anthropic.Model,
				BaseURL: cfg.Anthropic.BaseURL,
			}, transport(id))
		case providers.OpenAI:
			adapter = openai.NewAdapter(openai.Config{
				APIKey:  cfg.OpenAI.APIKey,
				Model:   cfg.OpenAI.Model,
				BaseURL: cfg.OpenAI.BaseURL,
			}, transport(id))
		case providers.Gemini:
			adapter = gemini.NewAdapter(gemini.Config{
				APIKey:  cfg.Gemini.APIKey,
				Model:   cfg.Gemini.Model,
				BaseURL: cfg.Gemini.BaseURL,
			}, transport(id))
		case providers.Azure:
			adapter = azure.NewAdapter(azure.Config{
				APIKey:     cfg.Azure.APIKey,
				Endpoint:   cfg.Azure.Endpoint,
				Deployment: cfg.Azure.Deployment,
				APIVersion: cfg.Azure.APIVersion,
			}, transport(id))
		case providers.Ollama:
			a, err := ollama.NewAdapter(ollama.Config{
				Host:  cfg.Ollama.Host,
				Model: cfg.Ollama.Model,
			}, transport(id))
			if err != nil {
				return nil, fmt.Errorf("ollama: %w", err)
			}
			adapter = a
		default:
			continue
		}

		if err := registry.Register(adapter); err != nil {
			return nil, err
		}
		logger.Info("registered provider",
			zap.String("provider", string(id)),
			zap.String("model", adapter.Model()))
	}

	if registry.Count() == 0 {
		logger.Warn("no LLM providers configured")
	}
	return registry, nil
}

// NewRedactor builds the redactor from configured entity names. Unknown names
// are logged and skipped.
func NewRedactor(cfg config.RedactionConfig, logger *zap.Logger) *pii.Redactor {
	entities, unknown := pii.ParseEntityTypes(cfg.Entities)
	if len(unknown) > 0 {
		logger.Warn("ignoring unknown PII entity types", zap.Strings("entities", unknown))
	}
	if len(entities) == 0 {
		entities = pii.DefaultEntities()
	}
	return pii.New(pii.Config{Enabled: cfg.Enabled, Entities: entities})
}

// RouterOptions translates routing configuration into router options
func RouterOptions(cfg config.RoutingConfig, metrics observability.Metrics, logger *zap.Logger) routing.Options {
	defaultProvider, _ := providers.ParseIdentity(cfg.DefaultProvider)

	return routing.Options{
		Strategy: routing.DefaultStrategy(defaultProvider),
		Retry: routing.RetryPolicy{
			Attempts:       cfg.RetryAttempts,
			Multiplier:     cfg.RetryMultiplier,
			MinWait:        cfg.RetryMinWait,
			MaxWait:        cfg.RetryMaxWait,
			AttemptTimeout: cfg.AttemptTimeout,
		},
		OfflineMode: cfg.OfflineMode,
		Logger:      logger,
		Metrics:     metrics,
	}
}

// ProviderModels names the model each provider is configured with
func ProviderModels(cfg config.ProvidersConfig) map[providers.Identity]string {
	return map[providers.Identity]string{
		providers.Claude: cfg.Anthropic.Model,
		providers.OpenAI: cfg.OpenAI.Model,
		providers.Gemini: cfg.Gemini.Model,
		providers.Azure:  cfg.Azure.Deployment,
		providers.Ollama: cfg.Ollama.Model,
	}
}

func (d *Dependencies) closeDatabase() {
	if d.AuditService != nil {
		_ = d.AuditService.Stop(auditStopTimeout)
	}
	if d.RepoFactory != nil {
		_ = d.RepoFactory.Close()
	}
}

// Close gracefully shuts down all dependencies. Queued audit records are
// flushed before the database is closed.
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.AuditService != nil {
		if err := d.AuditService.Stop(auditStopTimeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audit service: %w", err))
		}
	}

	// Close database connection
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
