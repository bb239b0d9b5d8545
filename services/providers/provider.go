package providers

import (
	"context"
	"fmt"
	"strings"
)

// Identity names a provider kind.
type Identity string

const (
	Claude Identity = "claude"
	OpenAI Identity = "openai"
	Gemini Identity = "gemini"
	Azure  Identity = "azure"
	Ollama Identity = "ollama"
)

// Identities returns every provider kind in enumeration order. This order is
// also the global fallback priority.
func Identities() []Identity {
	return []Identity{Claude, OpenAI, Gemini, Azure, Ollama}
}

// ParseIdentity converts a provider name into an Identity. An empty string or
// "auto" yields the empty Identity, meaning no preference.
func ParseIdentity(name string) (Identity, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == "auto" {
		return "", nil
	}
	for _, id := range Identities() {
		if string(id) == n {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownProvider, name)
}

// Request is the canonical completion request handed to every adapter.
type Request struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
	JSONMode     bool
}

// RawResponse is a provider's undecoded reply.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// Adapter translates canonical requests into one provider's wire format.
// Call performs the network exchange; Parse extracts the completion text from
// the provider's envelope and fails with a *ResponseShapeError when expected
// fields are missing.
type Adapter interface {
	Identity() Identity
	Model() string
	Call(ctx context.Context, req *Request) (*RawResponse, error)
	Parse(raw *RawResponse) (string, error)
}

// Info describes a provider for status reporting.
type Info struct {
	Provider  Identity `json:"provider" yaml:"provider"`
	ModelName string   `json:"model_name" yaml:"model_name"`
	Available bool     `json:"available" yaml:"available"`
	BestFor   []string `json:"best_for" yaml:"best_for"`
}

var bestFor = map[Identity][]string{
	Claude: {"Complex reasoning", "Question generation", "Coverage analysis"},
	OpenAI: {"Structured JSON output", "File notes", "Fast responses"},
	Gemini: {"Extraction tasks", "Document processing"},
	Azure:  {"Enterprise compliance", "Regulated environments"},
	Ollama: {"Local inference", "Air-gapped environments"},
}

// BestFor returns the workloads a provider is suited to.
func BestFor(id Identity) []string {
	return append([]string(nil), bestFor[id]...)
}
