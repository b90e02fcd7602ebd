package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and records requests.
// Once the script runs out every call fails with ErrProviderUnavailable,
// so callers fall back to their offline path.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	calls  []Request

	// Respond, when set, answers requests after the script is exhausted.
	Respond func(Request) MockResponse
}

// NewMockProvider returns a provider that replays script.
func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	var (
		r  MockResponse
		ok bool
	)
	switch {
	case len(m.script) > 0:
		r, m.script, ok = m.script[0], m.script[1:], true
	case m.Respond != nil:
		r, ok = m.Respond(req), true
	}
	m.mu.Unlock()

	if !ok {
		return nil, &ErrProviderUnavailable{}
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return finish(req, r.Content, r.Usage, "mock", "end")
}

func (m *MockProvider) ModelID() string { return "mock" }

// Calls returns a copy of the requests seen so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
