package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// RequestTimeoutSeconds bounds each sync triggered over HTTP.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" default:"120"`
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + c.Port
}

// IsSecured reports whether an API key is configured.
func (c Config) IsSecured() bool {
	return c.ApiKey != ""
}

// RequestTimeout returns the per-request timeout, defaulting to two minutes.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
