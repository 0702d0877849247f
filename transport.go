package fetchpipe

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// ResponseMeta is the status metadata a transport observed. A nil *ResponseMeta
// means no HTTP response materialized at all (no status line was received).
type ResponseMeta struct {
	StatusCode int
	Header     http.Header
}

// Transport is the network boundary the pipeline dispatches requests through.
// LoadData performs one exchange and returns the raw body bytes, the status
// metadata (nil when none was received) and any transport-level error. Bytes,
// metadata and error may coexist; classification sorts them out.
//
// Implementations must honor context cancellation and must be safe for
// concurrent use.
type Transport interface {
	LoadData(ctx context.Context, req *Request) ([]byte, *ResponseMeta, error)
}

// HTTPTransport is the default Transport, backed by a *http.Client.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps client as a Transport. A nil client uses
// http.DefaultClient.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client}
}

// LoadData executes the request. The body is read fully so the connection can
// be reused; a body read error is reported alongside the status metadata.
func (t *HTTPTransport) LoadData(ctx context.Context, req *Request) ([]byte, *ResponseMeta, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, nil, err
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	meta := &ResponseMeta{StatusCode: resp.StatusCode, Header: resp.Header.Clone()}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, meta, err
	}
	return data, meta, nil
}
