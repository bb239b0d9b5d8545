package routing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

// fakeAdapter fails its first failFor calls (all calls when failFor < 0)
type fakeAdapter struct {
	id      providers.Identity
	model   string
	text    string
	failFor int
	shape   bool
	onCall  func()

	mu       sync.Mutex
	calls    int
	requests []*providers.Request
}

func newFake(id providers.Identity, failFor int) *fakeAdapter {
	return &fakeAdapter{id: id, model: string(id) + "-model", text: "reply from " + string(id), failFor: failFor}
}

func (f *fakeAdapter) Identity() providers.Identity { return f.id }
func (f *fakeAdapter) Model() string                { return f.model }

func (f *fakeAdapter) Call(ctx context.Context, req *providers.Request) (*providers.RawResponse, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.onCall != nil {
		f.onCall()
	}
	if f.failFor < 0 || n <= f.failFor {
		if f.shape {
			return &providers.RawResponse{StatusCode: 200, Body: []byte("{}")}, nil
		}
		return nil, providers.NewTransportError(f.id, 503, "unavailable", nil)
	}
	return &providers.RawResponse{StatusCode: 200, Body: []byte(f.text)}, nil
}

func (f *fakeAdapter) Parse(raw *providers.RawResponse) (string, error) {
	if string(raw.Body) == "{}" {
		return "", providers.NewResponseShapeError(f.id, "text", nil)
	}
	return string(raw.Body), nil
}

func (f *fakeAdapter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// sleepRecorder replaces real backoff waits
type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

func registryOf(adapters ...providers.Adapter) *providers.Registry {
	registry := providers.NewRegistry()
	for _, a := range adapters {
		if err := registry.Register(a); err != nil {
			panic(err)
		}
	}
	return registry
}

var errBoom = errors.New("boom")
