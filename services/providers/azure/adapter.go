// Package azure adapts Azure OpenAI deployments. The wire format is the
// OpenAI chat completions body minus the model field, which is implied by the
// deployment in the URL.
package azure

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/willckim/ClaimInvestigator-AI/services/providers"
	"github.com/willckim/ClaimInvestigator-AI/services/providers/openai"
)

const (
	defaultDeployment = "gpt-4"
	defaultAPIVersion = "2024-02-15-preview"
)

// Config holds the Azure OpenAI connection settings
type Config struct {
	APIKey     string
	Endpoint   string
	Deployment string
	APIVersion string
}

// Adapter implements providers.Adapter for Azure OpenAI
type Adapter struct {
	config    Config
	transport *providers.HTTPTransport
}

// NewAdapter creates a new Azure OpenAI adapter
func NewAdapter(config Config, transport *providers.HTTPTransport) *Adapter {
	config.Endpoint = strings.TrimRight(config.Endpoint, "/")
	if config.Deployment == "" {
		config.Deployment = defaultDeployment
	}
	if config.APIVersion == "" {
		config.APIVersion = defaultAPIVersion
	}
	if transport == nil {
		transport = providers.NewHTTPTransport(providers.Azure, nil, 0, 0)
	}
	return &Adapter{config: config, transport: transport}
}

// Identity returns the provider identity
func (a *Adapter) Identity() providers.Identity {
	return providers.Azure
}

// Model returns the deployment name
func (a *Adapter) Model() string {
	return a.config.Deployment
}

// Call posts to the deployment's chat completions endpoint
func (a *Adapter) Call(ctx context.Context, req *providers.Request) (*providers.RawResponse, error) {
	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		a.config.Endpoint, url.PathEscape(a.config.Deployment), url.QueryEscape(a.config.APIVersion))
	headers := map[string]string{
		"api-key": a.config.APIKey,
	}
	return a.transport.PostJSON(ctx, endpoint, headers, openai.BuildChatRequest("", req))
}

// Parse extracts choices[0].message.content
func (a *Adapter) Parse(raw *providers.RawResponse) (string, error) {
	return openai.ParseChatResponse(providers.Azure, raw)
}
