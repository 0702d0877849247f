// Package config hydrates fetchpipe client options from defaults, YAML files
// and environment variables, in that precedence order (later wins).
package config

import (
	"net/http"
	"time"

	"github.com/fetchpipe/fetchpipe"
)

// TransportConfig configures the default HTTP transport.
type TransportConfig struct {
	// Timeout is the whole-exchange timeout in seconds. 0 keeps the
	// library default.
	Timeout int `koanf:"timeout"`
}

// CacheConfig configures the in-memory response cache.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Name    string `koanf:"name"`
	// CountLimit bounds the entry count; 0 is unbounded.
	CountLimit int `koanf:"countlimit"`
	// CostLimit bounds the summed byte size of entries; 0 is unbounded.
	CostLimit int `koanf:"costlimit"`
}

// GraphQLConfig toggles GraphQL error-body interpretation.
type GraphQLConfig struct {
	Enabled bool `koanf:"enabled"`
}

// DebugConfig toggles the opt-in diagnostic logging classes.
type DebugConfig struct {
	Enabled     bool `koanf:"enabled"`
	LogRequests bool `koanf:"logrequests"`
	LogCache    bool `koanf:"logcache"`
	LogErrors   bool `koanf:"logerrors"`
}

// MetricsConfig toggles Prometheus metrics collection.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Config is the full client configuration snapshot.
type Config struct {
	Transport TransportConfig `koanf:"transport"`
	Cache     CacheConfig     `koanf:"cache"`
	GraphQL   GraphQLConfig   `koanf:"graphql"`
	Debug     DebugConfig     `koanf:"debug"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present: caching on and unbounded, everything else off.
func DefaultConfig() Config {
	return Config{
		Transport: TransportConfig{Timeout: 30},
		Cache: CacheConfig{
			Enabled: true,
			Name:    "fetchpipe.Client",
		},
		Debug: DebugConfig{
			LogRequests: true,
			LogCache:    true,
			LogErrors:   true,
		},
	}
}

func (c Config) defaultsMap() map[string]any {
	return map[string]any{
		"transport.timeout": c.Transport.Timeout,
		"cache.enabled":     c.Cache.Enabled,
		"cache.name":        c.Cache.Name,
		"cache.countlimit":  c.Cache.CountLimit,
		"cache.costlimit":   c.Cache.CostLimit,
		"graphql.enabled":   c.GraphQL.Enabled,
		"debug.enabled":     c.Debug.Enabled,
		"debug.logrequests": c.Debug.LogRequests,
		"debug.logcache":    c.Debug.LogCache,
		"debug.logerrors":   c.Debug.LogErrors,
		"metrics.enabled":   c.Metrics.Enabled,
	}
}

// Options renders the snapshot as functional options for fetchpipe.New.
func (c Config) Options() []fetchpipe.Option {
	var opts []fetchpipe.Option

	if c.Transport.Timeout > 0 {
		opts = append(opts, fetchpipe.WithHTTPClient(&http.Client{
			Timeout: time.Duration(c.Transport.Timeout) * time.Second,
		}))
	}

	if c.Cache.Enabled {
		cache := fetchpipe.NewMemoryCache(c.Cache.Name)
		cache.SetCountLimit(c.Cache.CountLimit)
		cache.SetTotalCostLimit(c.Cache.CostLimit)
		opts = append(opts, fetchpipe.WithCache(cache))
	} else {
		opts = append(opts, fetchpipe.WithoutCache())
	}

	if c.GraphQL.Enabled {
		opts = append(opts, fetchpipe.WithGraphQLMode())
	}

	if c.Metrics.Enabled {
		opts = append(opts, fetchpipe.WithMetrics())
	}

	if c.Debug.Enabled {
		debug := fetchpipe.DefaultDebugConfig()
		debug.Enabled = true
		debug.LogRequests = c.Debug.LogRequests
		debug.LogCache = c.Debug.LogCache
		debug.LogErrors = c.Debug.LogErrors
		opts = append(opts, fetchpipe.WithDebugConfig(debug))
	}

	return opts
}
