package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdapter is a minimal Adapter for registry tests
type stubAdapter struct {
	id Identity
}

func (s *stubAdapter) Identity() Identity { return s.id }
func (s *stubAdapter) Model() string      { return "stub-model" }

func (s *stubAdapter) Call(ctx context.Context, req *Request) (*RawResponse, error) {
	return &RawResponse{StatusCode: 200, Body: []byte(`{}`)}, nil
}

func (s *stubAdapter) Parse(raw *RawResponse) (string, error) {
	return "ok", nil
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(&stubAdapter{id: OpenAI}))
	assert.Equal(t, 1, registry.Count())

	err := registry.Register(&stubAdapter{id: OpenAI})
	assert.True(t, errors.Is(err, ErrProviderAlreadyRegistered))

	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(&stubAdapter{}))
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&stubAdapter{id: Gemini}))

	adapter, err := registry.Get(Gemini)
	require.NoError(t, err)
	assert.Equal(t, Gemini, adapter.Identity())

	_, err = registry.Get(Claude)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestRegistry_AvailableFollowsEnumerationOrder(t *testing.T) {
	registry := NewRegistry()
	for _, id := range []Identity{Ollama, Azure, Claude, Gemini} {
		require.NoError(t, registry.Register(&stubAdapter{id: id}))
	}

	assert.Equal(t, []Identity{Claude, Gemini, Azure, Ollama}, registry.Available())
}

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		input   string
		want    Identity
		wantErr bool
	}{
		{"claude", Claude, false},
		{" OpenAI ", OpenAI, false},
		{"auto", "", false},
		{"", "", false},
		{"bedrock", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIdentity(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownProvider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrorClassification(t *testing.T) {
	transport := NewTransportError(Claude, 503, "overloaded", nil)
	shape := NewResponseShapeError(OpenAI, "choices[0].message.content", nil)

	assert.True(t, IsTransportError(transport))
	assert.False(t, IsResponseShapeError(transport))
	assert.True(t, IsResponseShapeError(shape))
	assert.False(t, IsTransportError(shape))

	assert.Equal(t, "claude transport error (status 503): overloaded", transport.Error())
	assert.Contains(t, shape.Error(), "missing choices[0].message.content")

	cause := errors.New("dial tcp: refused")
	wrapped := NewTransportError(Gemini, 0, "request failed", cause)
	assert.ErrorIs(t, wrapped, cause)
}

func TestBestFor(t *testing.T) {
	got := BestFor(Gemini)
	assert.Equal(t, []string{"Extraction tasks", "Document processing"}, got)

	// Callers get a copy.
	got[0] = "changed"
	assert.Equal(t, "Extraction tasks", BestFor(Gemini)[0])
}
