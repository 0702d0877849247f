package fetchpipe

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client runs requests through the pipeline: cache lookup, transport
// dispatch, response classification, cache population and optional typed
// decode. It is safe for concurrent use; the response cache is the only
// shared mutable state.
type Client struct {
	transport       Transport
	cache           Cache
	graphQLMode     bool
	logger          Logger
	debug           *DebugConfig
	metrics         *MetricsCollector
	validationError error
}

// New constructs a Client using the provided functional options. A best effort
// validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		transport: NewHTTPTransport(&http.Client{Timeout: 30 * time.Second}),
		cache:     NewMemoryCache("fetchpipe.Client"),
		debug:     DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// Cache returns the client's response cache. It may be nil when caching was
// disabled at construction.
func (c *Client) Cache() Cache {
	return c.cache
}

// Fetch is the level-0 pipeline entry: it resolves the request to optional
// raw bytes. With useCache true, a cache hit completes immediately without
// touching the transport; a miss dispatches the transport, classifies the
// completion and stores successful bytes under the request's URL. Each call
// performs at most one transport dispatch, one cache read and one cache
// write. The returned Call completes exactly once.
func (c *Client) Fetch(ctx context.Context, req *Request, useCache bool) *Call {
	start := time.Now()

	if req == nil {
		return completedCall(Result{Err: unspecifiedError("nil request")}, false)
	}
	if c.validationError != nil {
		return completedCall(Result{Err: unspecifiedError("invalid client configuration: " + c.validationError.Error())}, false)
	}

	endpoint := endpointFromRequest(req)

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}

	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("Starting request", "requestID", requestID, "method", req.Method, "url", req.URL.String(), "useCache", useCache)
	}

	c.metrics.RecordRequestStart(req.Method, endpoint)

	cacheKey := req.CacheKey()
	if useCache && c.cache != nil {
		if data, found := c.cache.Get(cacheKey); found {
			if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
				c.logger.Debug("Cache hit", "requestID", requestID, "cacheKey", cacheKey)
			}
			c.metrics.RecordCacheHit(req.Method, endpoint)
			c.metrics.RecordRequestEnd(req.Method, endpoint)
			c.metrics.RecordRequest(req.Method, endpoint, 0, time.Since(start))
			return completedCall(Result{Data: data}, true)
		}

		c.metrics.RecordCacheMiss(req.Method, endpoint)
		if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
			c.logger.Debug("Cache miss", "requestID", requestID, "cacheKey", cacheKey)
		}
	}

	tctx, cancel := context.WithCancel(ctx)
	call := newCall(cancel)

	go func() {
		defer cancel()

		data, meta, terr := c.transport.LoadData(tctx, req)

		statusCode := 0
		if meta != nil {
			statusCode = meta.StatusCode
		}

		payload, perr := classify(data, meta, terr, req.AcceptedStatuses(), c.graphQLMode)

		if perr != nil {
			c.metrics.RecordError(perr.Kind.String(), req.Method, endpoint)
			if c.debug != nil && c.debug.Enabled && c.debug.LogErrors && c.logger != nil {
				c.logger.Warn("Request failed", "requestID", requestID, "kind", perr.Kind.String(), "error", perr.Error(), "transportError", errorText(terr))
			}
			c.metrics.RecordRequestEnd(req.Method, endpoint)
			c.metrics.RecordRequest(req.Method, endpoint, statusCode, time.Since(start))
			call.complete(Result{Err: perr})
			return
		}

		if useCache && c.cache != nil && payload != nil {
			c.cache.Set(cacheKey, payload)
			c.recordCacheAccounting()
			if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
				c.logger.Debug("Response cached", "requestID", requestID, "cacheKey", cacheKey, "bytes", len(payload))
			}
		}

		c.metrics.RecordRequestEnd(req.Method, endpoint)
		c.metrics.RecordRequest(req.Method, endpoint, statusCode, time.Since(start))
		call.complete(Result{Data: payload})
	}()

	return call
}

// FetchData is the level-1 pipeline entry: like Fetch, but a success without
// any body bytes becomes a KindBadData failure. Failures from level 0 pass
// through unchanged.
func (c *Client) FetchData(ctx context.Context, req *Request, useCache bool) *Call {
	inner := c.Fetch(ctx, req, useCache)
	return deriveCall(inner, func(res Result) Result {
		if res.Err == nil && len(res.Data) == 0 {
			return Result{Err: &Error{Kind: KindBadData}}
		}
		return res
	})
}

// deriveCall layers a completion transform on an existing call without a
// second transport dispatch. An already-completed inner call resolves
// synchronously.
func deriveCall(inner *Call, transform func(Result) Result) *Call {
	select {
	case <-inner.done:
		outer := completedCall(transform(inner.result), inner.fromCache)
		outer.cancel = inner.cancel
		return outer
	default:
	}

	outer := newCall(inner.cancel)
	go func() {
		<-inner.done
		outer.fromCache = inner.fromCache
		outer.complete(transform(inner.result))
	}()
	return outer
}

// Get runs a GET through level 1 and blocks for the outcome.
func (c *Client) Get(ctx context.Context, url string, useCache bool) ([]byte, error) {
	req, err := NewRequest(http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	res := c.FetchData(ctx, req, useCache).Result()
	return res.Data, res.Err
}

// Post runs a POST through level 1 and blocks for the outcome. POST responses
// are cacheable here like any other; callers who do not want the URL-keyed
// collision simply pass useCache false.
func (c *Client) Post(ctx context.Context, url, contentType string, body []byte) ([]byte, error) {
	req, err := NewRequest(http.MethodPost, url, WithHeader("Content-Type", contentType), WithBody(body))
	if err != nil {
		return nil, err
	}
	res := c.FetchData(ctx, req, false).Result()
	return res.Data, res.Err
}

// GetJSON runs a GET through the full pipeline and decodes the body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any, useCache bool) error {
	data, err := c.Get(ctx, url, useCache)
	if err != nil {
		return err
	}
	if derr := decodePayload(data, v); derr != nil {
		c.recordDecodeFailure(derr)
		return derr
	}
	return nil
}

func (c *Client) recordDecodeFailure(err *Error) {
	c.metrics.RecordDecodeFailure(err.Kind.String())
	if c.debug != nil && c.debug.Enabled && c.debug.LogErrors && c.logger != nil {
		c.logger.Warn("Decode failed", "kind", err.Kind.String(), "error", err.Error())
	}
}

func (c *Client) recordCacheAccounting() {
	if mc, ok := c.cache.(*MemoryCache); ok {
		c.metrics.RecordCacheSize(mc.Name(), mc.Len())
		c.metrics.RecordCacheCost(mc.Name(), mc.TotalCost())
	}
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// endpointFromRequest extracts a bounded-cardinality endpoint label.
func endpointFromRequest(req *Request) string {
	if req.URL == nil {
		return "unknown"
	}

	var builder strings.Builder
	builder.WriteString(req.URL.Host)

	if path := req.URL.Path; path != "" && path != "/" {
		builder.WriteString(path)
	} else {
		builder.WriteByte('/')
	}

	return builder.String()
}
