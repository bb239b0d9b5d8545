// Package ollama adapts a local Ollama server through the official API
// client. Replies are re-encoded into a providers.RawResponse so the router
// handles them like any HTTP provider.
package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

const defaultModel = "llama3.2"

// Config holds the Ollama connection settings
type Config struct {
	Host  string
	Model string
}

// Adapter implements providers.Adapter for Ollama's chat endpoint
type Adapter struct {
	config    Config
	client    *api.Client
	transport *providers.HTTPTransport
}

// NewAdapter creates a new Ollama adapter. The transport supplies the shared
// HTTP client and rate limiter.
func NewAdapter(config Config, transport *providers.HTTPTransport) (*Adapter, error) {
	if config.Host == "" {
		return nil, errors.New("ollama host is required")
	}
	base, err := url.Parse(config.Host)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid ollama host %q", config.Host)
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if transport == nil {
		transport = providers.NewHTTPTransport(providers.Ollama, nil, 0, 0)
	}

	return &Adapter{
		config:    config,
		client:    api.NewClient(base, transport.Client()),
		transport: transport,
	}, nil
}

// Identity returns the provider identity
func (a *Adapter) Identity() providers.Identity {
	return providers.Ollama
}

// Model returns the configured model name
func (a *Adapter) Model() string {
	return a.config.Model
}

// Call sends a non-streaming chat request
func (a *Adapter) Call(ctx context.Context, req *providers.Request) (*providers.RawResponse, error) {
	if err := a.transport.Wait(ctx); err != nil {
		return nil, err
	}

	messages := make([]api.Message, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, api.Message{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, api.Message{Role: "user", Content: req.Prompt})

	chatReq := &api.ChatRequest{
		Model:    a.config.Model,
		Messages: messages,
		Options: map[string]interface{}{
			"temperature": req.Temperature,
		},
		Stream: new(bool),
	}
	if req.MaxTokens > 0 {
		chatReq.Options["num_predict"] = req.MaxTokens
	}
	if req.JSONMode {
		chatReq.Format = json.RawMessage(`"json"`)
	}

	var response api.ChatResponse
	err := a.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return nil, providers.NewTransportError(providers.Ollama, statusErr.StatusCode, statusErr.ErrorMessage, nil)
		}
		return nil, providers.NewTransportError(providers.Ollama, 0, "chat request failed", err)
	}

	body, err := json.Marshal(response)
	if err != nil {
		return nil, providers.NewTransportError(providers.Ollama, 0, "failed to encode response", err)
	}
	return &providers.RawResponse{StatusCode: 200, Body: body}, nil
}

// Parse extracts message.content
func (a *Adapter) Parse(raw *providers.RawResponse) (string, error) {
	var resp struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	}
	if err := providers.DecodeJSON(providers.Ollama, raw, &resp); err != nil {
		return "", err
	}
	if resp.Message == nil || resp.Message.Content == nil {
		return "", providers.NewResponseShapeError(providers.Ollama, "message.content", nil)
	}
	return *resp.Message.Content, nil
}
