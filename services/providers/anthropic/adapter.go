package anthropic

import (
	"context"
	"strings"

	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 4096
)

// Config holds the Anthropic connection settings
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Adapter implements providers.Adapter for the Anthropic messages API
type Adapter struct {
	config    Config
	transport *providers.HTTPTransport
}

// NewAdapter creates a new Anthropic adapter
func NewAdapter(config Config, transport *providers.HTTPTransport) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Model == "" {
		config.Model = defaultModel
	}
	if transport == nil {
		transport = providers.NewHTTPTransport(providers.Claude, nil, 0, 0)
	}
	return &Adapter{config: config, transport: transport}
}

// Identity returns the provider identity
func (a *Adapter) Identity() providers.Identity {
	return providers.Claude
}

// Model returns the configured model name
func (a *Adapter) Model() string {
	return a.config.Model
}

// Call posts to /v1/messages. The messages API requires max_tokens, so a
// zero value falls back to the service default.
func (a *Adapter) Call(ctx context.Context, req *providers.Request) (*providers.RawResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body := &MessagesRequest{
		Model:       a.config.Model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		System:      req.SystemPrompt,
		Messages:    []Message{{Role: "user", Content: req.Prompt}},
	}
	headers := map[string]string{
		"x-api-key":         a.config.APIKey,
		"anthropic-version": apiVersion,
	}

	return a.transport.PostJSON(ctx, a.config.BaseURL+"/v1/messages", headers, body)
}

// Parse extracts content[0].text
func (a *Adapter) Parse(raw *providers.RawResponse) (string, error) {
	var resp MessagesResponse
	if err := providers.DecodeJSON(providers.Claude, raw, &resp); err != nil {
		return "", err
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		return "", providers.NewResponseShapeError(providers.Claude, "content[0].text", nil)
	}
	return *resp.Content[0].Text, nil
}

type MessagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type MessagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

type ContentBlock struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
