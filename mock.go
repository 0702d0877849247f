package fetchpipe

import (
	"context"
	"sync/atomic"
	"time"
)

// MockResult is one canned transport completion.
type MockResult struct {
	Data []byte
	Meta *ResponseMeta
	Err  error
}

// MockVerifier inspects the outbound request (most usefully its body) and
// computes the completion to deliver.
type MockVerifier func(req *Request) MockResult

// MockTransport is a deterministic Transport substitute for tests. It serves
// either a fixed MockResult or one computed per request by a verifier, after
// an optional delay, and counts how many times it was dispatched.
type MockTransport struct {
	Result   MockResult
	Verifier MockVerifier
	Delay    time.Duration

	calls atomic.Int64
}

// NewMockTransport returns a MockTransport answering every request with the
// given status and body.
func NewMockTransport(statusCode int, data []byte) *MockTransport {
	return &MockTransport{
		Result: MockResult{
			Data: data,
			Meta: &ResponseMeta{StatusCode: statusCode},
		},
	}
}

// NewMockTransportError returns a MockTransport failing every request with err
// and no status metadata.
func NewMockTransportError(err error) *MockTransport {
	return &MockTransport{Result: MockResult{Err: err}}
}

// LoadData implements Transport.
func (m *MockTransport) LoadData(ctx context.Context, req *Request) ([]byte, *ResponseMeta, error) {
	m.calls.Add(1)

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	res := m.Result
	if m.Verifier != nil {
		res = m.Verifier(req)
	}
	return res.Data, res.Meta, res.Err
}

// Calls returns the number of times LoadData was invoked.
func (m *MockTransport) Calls() int {
	return int(m.calls.Load())
}
