// Package fetchpipe provides an HTTP request pipeline with integrated
// in-memory response caching and layered result decoding:
//
//   - Bounded LRU response cache (count and total-cost limits, mutable at runtime)
//   - Status-code validation against a per-request acceptable set
//   - Closed error taxonomy (one kind per failure class, comparable payloads)
//   - Optional GraphQL error-body interpretation for HTTP 200 responses
//   - Three fetch levels: raw optional bytes, required bytes, typed JSON decode
//   - Pluggable Transport boundary with a deterministic mock for tests
//   - Prometheus metrics and opt-in structured debug logging
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - Exactly-once completion per call, delivered through a channel-backed future
//   - Safe concurrent use of a single *Client instance
//   - Extensibility via injectable transport, cache, logger and metrics
//
// Typical usage:
//
//	client := fetchpipe.New(
//	    fetchpipe.WithCacheLimits(256, 4<<20),
//	    fetchpipe.WithMetrics(),
//	)
//	req, _ := fetchpipe.NewRequest("GET", "https://api.example.com/data")
//	call := client.Fetch(ctx, req, true)
//	res := call.Result()
//
// Failures never surface as untyped errors: every error crossing the pipeline
// boundary is an *Error carrying one of the closed Kind values. Retry, request
// coalescing and persistence are deliberately left to callers.
package fetchpipe
