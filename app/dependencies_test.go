package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/willckim/ClaimInvestigator-AI/config"
	"github.com/willckim/ClaimInvestigator-AI/internal/pii"
	"github.com/willckim/ClaimInvestigator-AI/services/completion"
	"github.com/willckim/ClaimInvestigator-AI/services/providers"
	"github.com/willckim/ClaimInvestigator-AI/services/providers/openai"
	"github.com/willckim/ClaimInvestigator-AI/services/routing"
)

func TestNewDependencies(t *testing.T) {
	t.Run("offline without database or providers", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig(t)
		cfg.Routing.OfflineMode = true
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(ctx, cfg, logger)
		require.NoError(t, err)
		require.NotNil(t, deps)

		assert.Nil(t, deps.DB)
		assert.Nil(t, deps.AuditService)
		assert.Nil(t, deps.Metrics)
		assert.Equal(t, 0, deps.ProviderRegistry.Count())
		assert.IsType(t, &routing.OfflineRouter{}, deps.Router)

		status := deps.CompletionService.Status()
		assert.Equal(t, completion.ModeMock, status.Mode)

		resp, err := deps.CompletionService.Complete(ctx, &completion.Request{Text: "Claim CLM-20240001 triage", TaskType: "claim_triage"})
		require.NoError(t, err)
		assert.Equal(t, routing.MockProvider, resp.Provider)

		assert.NoError(t, deps.Close(ctx))
	})

	t.Run("live router without providers reports unavailable", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig(t)
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(ctx, cfg, logger)
		require.NoError(t, err)

		assert.IsType(t, &routing.LiveRouter{}, deps.Router)

		_, err = deps.CompletionService.Complete(ctx, &completion.Request{Text: "hello"})
		require.Error(t, err)
	})

	t.Run("metrics enabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Observability.MetricsEnabled = true

		deps, err := NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		require.NotNil(t, deps.Metrics)
		assert.NotNil(t, deps.Metrics.Handler())
	})

	t.Run("database connection failure", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping database dial in short mode")
		}
		ctx := context.Background()
		cfg := testConfig(t)
		cfg.Database = config.DatabaseConfig{
			Host:         "invalid-host-that-does-not-exist",
			Port:         5432,
			User:         "claims",
			Database:     "claims_audit",
			SSLMode:      "disable",
			MaxOpenConns: 1,
		}
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(ctx, cfg, logger)
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize database")
	})
}

func TestNewDependencies_EndToEndRedaction(t *testing.T) {
	var (
		mu       sync.Mutex
		received openai.ChatRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		mu.Lock()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Noted."}}]}`))
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Providers.OpenAI = config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o", BaseURL: server.URL}

	deps, err := NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer deps.Close(context.Background())

	resp, err := deps.CompletionService.Complete(context.Background(), &completion.Request{
		Text:     "Adjuster call with claimant, SSN 123-45-6789, phone (555) 123-4567",
		TaskType: "file_notes",
	})
	require.NoError(t, err)

	assert.Equal(t, "Noted.", resp.Text)
	assert.Equal(t, providers.OpenAI, resp.Provider)
	assert.Equal(t, "gpt-4o", resp.Model)
	assert.False(t, resp.UsedFallback)
	assert.True(t, resp.PIIRedacted)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received.Messages, 2)
	assert.Equal(t, "system", received.Messages[0].Role)
	assert.Equal(t, routing.DefaultSystemPrompt(routing.TaskFileNotes), received.Messages[0].Content)
	assert.NotContains(t, received.Messages[1].Content, "123-45-6789")
	assert.NotContains(t, received.Messages[1].Content, "123-4567")
	assert.Contains(t, received.Messages[1].Content, "[SSN_1]")
}

func TestNewProviderRegistry(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("registers configured providers only", func(t *testing.T) {
		cfg := config.ProvidersConfig{
			Anthropic:   config.AnthropicConfig{APIKey: "a", Model: "claude-sonnet-4-20250514"},
			Azure:       config.AzureConfig{APIKey: "b"}, // no endpoint
			Ollama:      config.OllamaConfig{Host: "http://localhost:11434", Model: "llama3.2"},
			HTTPTimeout: time.Second,
		}

		registry, err := NewProviderRegistry(cfg, logger)
		require.NoError(t, err)

		assert.Equal(t, []providers.Identity{providers.Claude, providers.Ollama}, registry.Available())

		adapter, err := registry.Get(providers.Ollama)
		require.NoError(t, err)
		assert.Equal(t, "llama3.2", adapter.Model())
	})

	t.Run("empty configuration", func(t *testing.T) {
		registry, err := NewProviderRegistry(config.ProvidersConfig{}, logger)
		require.NoError(t, err)
		assert.Equal(t, 0, registry.Count())
	})
}

func TestNewRedactor(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("unknown names are skipped", func(t *testing.T) {
		r := NewRedactor(config.RedactionConfig{Enabled: true, Entities: []string{"US_SSN", "SHOE_SIZE"}}, logger)

		assert.True(t, r.Enabled())
		assert.Contains(t, r.Entities(), pii.EntitySSN)
		assert.Contains(t, r.Entities(), pii.EntityClaimNumber)
		assert.NotContains(t, r.Entities(), pii.EntityEmail)
	})

	t.Run("nothing valid falls back to defaults", func(t *testing.T) {
		r := NewRedactor(config.RedactionConfig{Enabled: true, Entities: []string{"SHOE_SIZE"}}, logger)
		assert.Contains(t, r.Entities(), pii.EntityEmail)
	})

	t.Run("disabled", func(t *testing.T) {
		r := NewRedactor(config.RedactionConfig{Enabled: false}, logger)
		assert.False(t, r.Enabled())
	})
}

func TestRouterOptions(t *testing.T) {
	cfg := config.RoutingConfig{
		DefaultProvider: "openai",
		OfflineMode:     true,
		RetryAttempts:   5,
		RetryMultiplier: time.Second,
		RetryMinWait:    time.Second,
		RetryMaxWait:    4 * time.Second,
		AttemptTimeout:  30 * time.Second,
	}

	opts := RouterOptions(cfg, nil, zaptest.NewLogger(t))

	assert.Equal(t, providers.OpenAI, opts.Strategy.Default)
	assert.Equal(t, providers.Claude, opts.Strategy.Routing[routing.TaskClaimTriage])
	assert.Equal(t, 5, opts.Retry.Attempts)
	assert.Equal(t, 4*time.Second, opts.Retry.MaxWait)
	assert.Equal(t, 30*time.Second, opts.Retry.AttemptTimeout)
	assert.True(t, opts.OfflineMode)
}

func TestProviderModels(t *testing.T) {
	models := ProviderModels(config.ProvidersConfig{
		Anthropic: config.AnthropicConfig{Model: "claude-sonnet-4-20250514"},
		Azure:     config.AzureConfig{Deployment: "gpt-4-prod"},
	})

	assert.Equal(t, "claude-sonnet-4-20250514", models[providers.Claude])
	assert.Equal(t, "gpt-4-prod", models[providers.Azure])
	assert.Len(t, models, len(providers.Identities()))
}

// Test helpers

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000"},
		},
		Providers: config.ProvidersConfig{
			HTTPTimeout:    5 * time.Second,
			RateLimitBurst: 1,
		},
		Routing: config.RoutingConfig{
			DefaultProvider: "claude",
			RetryAttempts:   1,
			RetryMultiplier: time.Millisecond,
			RetryMinWait:    time.Millisecond,
			RetryMaxWait:    time.Millisecond,
			AttemptTimeout:  5 * time.Second,
			MaxTokens:       1024,
			Temperature:     0.3,
		},
		Redaction: config.RedactionConfig{
			Enabled:  true,
			Entities: []string{"PERSON", "PHONE_NUMBER", "EMAIL_ADDRESS", "US_SSN"},
		},
		Audit: config.AuditConfig{
			BufferSize:  100,
			WorkerCount: 1,
		},
		Observability: config.ObservabilityConfig{
			LogLevel:  "error",
			LogFormat: "json",
		},
	}
}
