package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/willckim/ClaimInvestigator-AI/app"
	"github.com/willckim/ClaimInvestigator-AI/config"
	"github.com/willckim/ClaimInvestigator-AI/internal/observability"
)

type stringSetting struct {
	key   string
	env   string
	apply func(cfg *config.Config, value string)
}

// stringSettings maps claimctl.yaml keys onto the gateway's environment names
var stringSettings = []stringSetting{
	{"providers.anthropic.api_key", "ANTHROPIC_API_KEY", func(c *config.Config, s string) { c.Providers.Anthropic.APIKey = s }},
	{"providers.anthropic.model", "CLAUDE_MODEL", func(c *config.Config, s string) { c.Providers.Anthropic.Model = s }},
	{"providers.anthropic.base_url", "ANTHROPIC_BASE_URL", func(c *config.Config, s string) { c.Providers.Anthropic.BaseURL = s }},
	{"providers.openai.api_key", "OPENAI_API_KEY", func(c *config.Config, s string) { c.Providers.OpenAI.APIKey = s }},
	{"providers.openai.model", "OPENAI_MODEL", func(c *config.Config, s string) { c.Providers.OpenAI.Model = s }},
	{"providers.openai.base_url", "OPENAI_BASE_URL", func(c *config.Config, s string) { c.Providers.OpenAI.BaseURL = s }},
	{"providers.gemini.api_key", "GOOGLE_API_KEY", func(c *config.Config, s string) { c.Providers.Gemini.APIKey = s }},
	{"providers.gemini.model", "GEMINI_MODEL", func(c *config.Config, s string) { c.Providers.Gemini.Model = s }},
	{"providers.gemini.base_url", "GEMINI_BASE_URL", func(c *config.Config, s string) { c.Providers.Gemini.BaseURL = s }},
	{"providers.azure.api_key", "AZURE_OPENAI_API_KEY", func(c *config.Config, s string) { c.Providers.Azure.APIKey = s }},
	{"providers.azure.endpoint", "AZURE_OPENAI_ENDPOINT", func(c *config.Config, s string) { c.Providers.Azure.Endpoint = s }},
	{"providers.azure.deployment", "AZURE_OPENAI_DEPLOYMENT", func(c *config.Config, s string) { c.Providers.Azure.Deployment = s }},
	{"providers.ollama.host", "OLLAMA_HOST", func(c *config.Config, s string) { c.Providers.Ollama.Host = s }},
	{"providers.ollama.model", "OLLAMA_MODEL", func(c *config.Config, s string) { c.Providers.Ollama.Model = s }},
	{"routing.default_provider", "DEFAULT_LLM_PROVIDER", func(c *config.Config, s string) { c.Routing.DefaultProvider = s }},
}

func bindEnv(v *viper.Viper) {
	for _, s := range stringSettings {
		_ = v.BindEnv(s.key, s.env)
	}
	_ = v.BindEnv("routing.offline", "OFFLINE_MODE_ENABLED")
	_ = v.BindEnv("routing.timeout", "LLM_TIMEOUT")
	_ = v.BindEnv("redaction.enabled", "ENABLE_PII_REDACTION")
	_ = v.BindEnv("redaction.entities", "PII_ENTITIES_TO_REDACT")
}

// loadConfig starts from the gateway's environment configuration and applies
// claimctl.yaml and flag overrides. The CLI never persists audit records.
func loadConfig(ctx context.Context, v *viper.Viper) (*config.Config, error) {
	cfg, err := config.New(ctx)
	if err != nil {
		return nil, err
	}

	for _, s := range stringSettings {
		if v.IsSet(s.key) {
			s.apply(cfg, v.GetString(s.key))
		}
	}
	if v.IsSet("routing.offline") {
		cfg.Routing.OfflineMode = v.GetBool("routing.offline")
	}
	if v.IsSet("routing.timeout") {
		cfg.Routing.AttemptTimeout = v.GetDuration("routing.timeout")
	}
	if v.IsSet("redaction.enabled") {
		cfg.Redaction.Enabled = v.GetBool("redaction.enabled")
	}
	if v.IsSet("redaction.entities") {
		cfg.Redaction.Entities = entityList(v.GetStringSlice("redaction.entities"))
	}

	cfg.Database = config.DatabaseConfig{}
	cfg.Observability.MetricsEnabled = false

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// entityList accepts both YAML lists and the comma separated env form
func entityList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// newDependencies wires the same pipeline the API serves
func newDependencies(cmd *cobra.Command, v *viper.Viper) (*app.Dependencies, error) {
	cfg, err := loadConfig(cmd.Context(), v)
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(v.GetString("log_level"), "console")
	if err != nil {
		return nil, err
	}

	return app.NewDependencies(cmd.Context(), cfg, logger)
}
