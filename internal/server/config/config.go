// Package config handles configuration for the diary server, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the diary server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - RedisURL: redis:// connection URL for the key-value store.
//   - GeminiAPIKey: API key for the Gemini text-generation API. May be empty,
//     in which case the deterministic local fallbacks are used.
//   - GeminiModelName: Gemini model identifier.
//   - SessionTTL: lifetime of an issued session token.
//   - GenerationTimeout: upper bound on a single upstream generation call.
type Config struct {
	EndpointAddrHTTP  string
	RedisURL          string
	GeminiAPIKey      string
	GeminiModelName   string
	SessionTTL        time.Duration
	GenerationTimeout time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.RedisURL = "redis://localhost:6379/0"
	c.GeminiAPIKey = ""
	c.GeminiModelName = "gemini-2.0-flash"
	c.SessionTTL = 12 * time.Hour
	c.GenerationTimeout = 30 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
