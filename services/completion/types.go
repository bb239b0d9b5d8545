package completion

import (
	"github.com/google/uuid"

	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

// Mode reports whether completions reach real providers
type Mode string

const (
	ModeProduction Mode = "production"
	ModeMock       Mode = "mock"
)

// RedactRequest previews redaction of a text. Entities overrides the
// configured entity set when non-empty.
type RedactRequest struct {
	Text     string
	Entities []string
}

// RedactResponse is the redaction preview. Placeholder mappings are never
// returned to callers.
type RedactResponse struct {
	RedactedText string         `json:"redacted_text" yaml:"redacted_text"`
	EntityCounts map[string]int `json:"entity_counts" yaml:"entity_counts"`
	Summary      string         `json:"summary" yaml:"summary"`
	PIIRedacted  bool           `json:"pii_redacted" yaml:"pii_redacted"`
}

// Request is one completion through the redact-then-route pipeline
type Request struct {
	RequestID         string
	Text              string
	TaskType          string
	PreferredProvider string
	SystemPrompt      string
	MaxTokens         int
	Temperature       *float64
	JSONMode          bool
}

// Response is a completed request
type Response struct {
	ID               uuid.UUID          `json:"id" yaml:"id"`
	Text             string             `json:"text" yaml:"text"`
	Provider         providers.Identity `json:"provider" yaml:"provider"`
	Model            string             `json:"model" yaml:"model"`
	LatencyMs        int64              `json:"latency_ms" yaml:"latency_ms"`
	UsedFallback     bool               `json:"used_fallback" yaml:"used_fallback"`
	TaskType         string             `json:"task_type" yaml:"task_type"`
	PIIRedacted      bool               `json:"pii_redacted" yaml:"pii_redacted"`
	RedactionSummary string             `json:"redaction_summary" yaml:"redaction_summary"`
}

// Status describes the gateway's provider and redaction configuration
type Status struct {
	Mode              Mode             `json:"mode" yaml:"mode"`
	Providers         []providers.Info `json:"providers" yaml:"providers"`
	RedactionEnabled  bool             `json:"redaction_enabled" yaml:"redaction_enabled"`
	RedactionEntities []string         `json:"redaction_entities" yaml:"redaction_entities"`
	TaskTypes         []string         `json:"task_types" yaml:"task_types"`
}

// Config holds the request defaults applied by the service
type Config struct {
	DefaultMaxTokens   int
	DefaultTemperature float64

	// ProviderModels names the model each provider would use, for status
	// reporting of providers that are not configured.
	ProviderModels map[providers.Identity]string
}

// DefaultConfig returns the stock request defaults
func DefaultConfig() Config {
	return Config{
		DefaultMaxTokens:   4096,
		DefaultTemperature: 0.3,
	}
}
