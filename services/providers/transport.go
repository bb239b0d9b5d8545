package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"
)

const (
	// maxResponseBytes caps how much of a provider reply is read into memory.
	maxResponseBytes = 8 << 20

	// maxErrorBodyBytes caps the raw body quoted in a transport error.
	maxErrorBodyBytes = 200
)

// NewHTTPClient returns a client with a pooled transport meant to be shared
// by every adapter. Per-attempt deadlines come from the caller's context, so
// timeout is only a backstop.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

// HTTPTransport posts JSON payloads for one provider, optionally paced by a
// token bucket.
type HTTPTransport struct {
	provider Identity
	client   *http.Client
	limiter  *rate.Limiter
}

// NewHTTPTransport wraps client for provider. A ratePerSecond of zero or less
// disables pacing.
func NewHTTPTransport(provider Identity, client *http.Client, ratePerSecond float64, burst int) *HTTPTransport {
	if client == nil {
		client = NewHTTPClient(0)
	}
	t := &HTTPTransport{provider: provider, client: client}
	if ratePerSecond > 0 {
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}
	return t
}

// Client exposes the underlying HTTP client for SDK based adapters.
func (t *HTTPTransport) Client() *http.Client {
	return t.client
}

// Wait blocks until the rate limiter admits one request.
func (t *HTTPTransport) Wait(ctx context.Context) error {
	if t.limiter == nil {
		return nil
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return NewTransportError(t.provider, 0, "rate limiter wait failed", err)
	}
	return nil
}

// PostJSON marshals payload, posts it to url with the given headers and
// returns the raw body. Non-2xx replies become a *TransportError carrying the
// provider's error message when one can be extracted.
func (t *HTTPTransport) PostJSON(ctx context.Context, url string, headers map[string]string, payload interface{}) (*RawResponse, error) {
	if err := t.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewTransportError(t.provider, 0, "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewTransportError(t.provider, 0, "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, NewTransportError(t.provider, 0, "request failed", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, NewTransportError(t.provider, httpResp.StatusCode, "failed to read response", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, NewTransportError(t.provider, httpResp.StatusCode, errorMessage(respBody), nil)
	}

	return &RawResponse{StatusCode: httpResp.StatusCode, Body: respBody}, nil
}

// errorMessage pulls a human readable message out of the common provider
// error envelopes: {"error":{"message":...}} and {"error":"..."}.
func errorMessage(body []byte) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Error != "" {
		return flat.Error
	}
	if len(body) > maxErrorBodyBytes {
		cut := maxErrorBodyBytes
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}
	return string(bytes.TrimSpace(body))
}

// DecodeJSON unmarshals a raw reply into v, reporting decode failures as a
// *ResponseShapeError.
func DecodeJSON(provider Identity, raw *RawResponse, v interface{}) error {
	if raw == nil || len(raw.Body) == 0 {
		return NewResponseShapeError(provider, "body", nil)
	}
	if err := json.Unmarshal(raw.Body, v); err != nil {
		return NewResponseShapeError(provider, "", fmt.Errorf("invalid JSON: %w", err))
	}
	return nil
}
