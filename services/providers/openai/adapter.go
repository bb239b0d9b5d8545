package openai

import (
	"context"
	"strings"

	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o"
)

// Config holds the OpenAI connection settings
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Adapter implements providers.Adapter for the OpenAI chat completions API
type Adapter struct {
	config    Config
	transport *providers.HTTPTransport
}

// NewAdapter creates a new OpenAI adapter
func NewAdapter(config Config, transport *providers.HTTPTransport) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Model == "" {
		config.Model = defaultModel
	}
	if transport == nil {
		transport = providers.NewHTTPTransport(providers.OpenAI, nil, 0, 0)
	}

	return &Adapter{
		config:    config,
		transport: transport,
	}
}

// Identity returns the provider identity
func (a *Adapter) Identity() providers.Identity {
	return providers.OpenAI
}

// Model returns the configured model name
func (a *Adapter) Model() string {
	return a.config.Model
}

// Call performs a chat completion request
func (a *Adapter) Call(ctx context.Context, req *providers.Request) (*providers.RawResponse, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + a.config.APIKey,
	}
	return a.transport.PostJSON(ctx, a.config.BaseURL+"/chat/completions", headers, BuildChatRequest(a.config.Model, req))
}

// Parse extracts choices[0].message.content
func (a *Adapter) Parse(raw *providers.RawResponse) (string, error) {
	return ParseChatResponse(providers.OpenAI, raw)
}

// BuildChatRequest converts a canonical request into the chat completions
// body. An empty model is omitted, as Azure deployments carry it in the URL.
func BuildChatRequest(model string, req *providers.Request) *ChatRequest {
	messages := make([]Message, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, Message{Role: "user", Content: req.Prompt})

	chatReq := &ChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}
	return chatReq
}

// ParseChatResponse reads the completion text from a chat completions reply
func ParseChatResponse(provider providers.Identity, raw *providers.RawResponse) (string, error) {
	var resp ChatResponse
	if err := providers.DecodeJSON(provider, raw, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", providers.NewResponseShapeError(provider, "choices[0].message.content", nil)
	}
	return *resp.Choices[0].Message.Content, nil
}

// Chat completions wire types

type ChatRequest struct {
	Model          string          `json:"model,omitempty"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int              `json:"index"`
	Message      *ResponseMessage `json:"message"`
	FinishReason string           `json:"finish_reason"`
}

type ResponseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
