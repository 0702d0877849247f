package fetchpipe

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Option represents a configuration option.
type Option func(*Client)

// WithTransport sets the transport the pipeline dispatches requests through.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithHTTPClient routes requests through the given *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.transport = NewHTTPTransport(client)
	}
}

// WithCache sets a custom response cache implementation.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithCacheLimits bounds the default in-memory cache: at most count entries
// and totalCost summed bytes. 0 means unbounded.
func WithCacheLimits(count, totalCost int) Option {
	return func(c *Client) {
		mc, ok := c.cache.(*MemoryCache)
		if !ok {
			mc = NewMemoryCache("fetchpipe.Client")
			c.cache = mc
		}
		mc.SetCountLimit(count)
		mc.SetTotalCostLimit(totalCost)
	}
}

// WithoutCache disables response caching entirely; useCache arguments are
// then ignored.
func WithoutCache() Option {
	return func(c *Client) {
		c.cache = nil
	}
}

// WithGraphQLMode opts in to interpreting acceptable responses whose body is
// a GraphQL error container as failures.
func WithGraphQLMode() Option {
	return func(c *Client) {
		c.graphQLMode = true
	}
}

// WithMetrics enables Prometheus metrics collection.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithDebug enables debug logging with default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a simple console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithZerologLogger enables debug logging through a zerolog logger.
func WithZerologLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewZerologLogger(logger)
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// ValidateConfiguration validates the client configuration and returns an
// error if invalid.
func (c *Client) ValidateConfiguration() error {
	var problems []string

	if c.transport == nil {
		problems = append(problems, "transport must not be nil")
	}

	if mc, ok := c.cache.(*MemoryCache); ok {
		if mc.CountLimit() < 0 {
			problems = append(problems, "cache count limit must be non-negative")
		}
		if mc.TotalCostLimit() < 0 {
			problems = append(problems, "cache total cost limit must be non-negative")
		}
	}

	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen == nil {
		problems = append(problems, "debug RequestIDGen must not be nil when debug is enabled")
	}

	if len(problems) > 0 {
		return unspecifiedError("configuration validation failed: " + strings.Join(problems, "; "))
	}

	return nil
}
