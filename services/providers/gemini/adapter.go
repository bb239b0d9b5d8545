package gemini

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-1.5-pro"
)

// Config holds the Gemini connection settings
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Adapter implements providers.Adapter for the Gemini generateContent API
type Adapter struct {
	config    Config
	transport *providers.HTTPTransport
}

// NewAdapter creates a new Gemini adapter
func NewAdapter(config Config, transport *providers.HTTPTransport) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Model == "" {
		config.Model = defaultModel
	}
	if transport == nil {
		transport = providers.NewHTTPTransport(providers.Gemini, nil, 0, 0)
	}
	return &Adapter{config: config, transport: transport}
}

// Identity returns the provider identity
func (a *Adapter) Identity() providers.Identity {
	return providers.Gemini
}

// Model returns the configured model name
func (a *Adapter) Model() string {
	return a.config.Model
}

// Call posts to models/{model}:generateContent. The key travels in the
// x-goog-api-key header so it never appears in URLs or transport errors.
func (a *Adapter) Call(ctx context.Context, req *providers.Request) (*providers.RawResponse, error) {
	body := &GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: req.Prompt}}}},
		GenerationConfig: GenerationConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		},
	}
	if req.SystemPrompt != "" {
		body.SystemInstruction = &Content{Parts: []Part{{Text: req.SystemPrompt}}}
	}
	if req.JSONMode {
		body.GenerationConfig.ResponseMIMEType = "application/json"
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		a.config.BaseURL, url.PathEscape(a.config.Model))
	headers := map[string]string{
		"x-goog-api-key": a.config.APIKey,
	}

	return a.transport.PostJSON(ctx, endpoint, headers, body)
}

// Parse extracts candidates[0].content.parts[0].text
func (a *Adapter) Parse(raw *providers.RawResponse) (string, error) {
	var resp GenerateResponse
	if err := providers.DecodeJSON(providers.Gemini, raw, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 || resp.Candidates[0].Content.Parts[0].Text == nil {
		return "", providers.NewResponseShapeError(providers.Gemini, "candidates[0].content.parts[0].text", nil)
	}
	return *resp.Candidates[0].Content.Parts[0].Text, nil
}

type GenerateRequest struct {
	Contents          []Content        `json:"contents"`
	SystemInstruction *Content         `json:"systemInstruction,omitempty"`
	GenerationConfig  GenerationConfig `json:"generationConfig"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

type GenerationConfig struct {
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type Candidate struct {
	Content      *CandidateContent `json:"content"`
	FinishReason string            `json:"finishReason"`
}

type CandidateContent struct {
	Role  string          `json:"role"`
	Parts []CandidatePart `json:"parts"`
}

type CandidatePart struct {
	Text *string `json:"text"`
}
