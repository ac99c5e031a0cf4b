// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Browser  BrowserConfig
	CEP      CEPConfig
	Rate     RateLimitConfig
	Audit    AuditConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// SessionConfig holds browsing session settings. Each session owns one
// customer browser (query, page, sort, selection).
type SessionConfig struct {
	// Secret signs the session cookie; at least 32 bytes (required)
	Secret string `env:"SESSION_SECRET" envAlt:"CRM_SESSION_SECRET" required:"true"`

	CookieName string `env:"SESSION_COOKIE_NAME" default:"crm_session"`

	// MaxAge is the cookie lifetime (default: 12h)
	MaxAge time.Duration `env:"SESSION_MAX_AGE" default:"12h"`

	// IdleTimeout drops browser state not touched for this long (default: 2h)
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" default:"2h"`

	// SweepInterval is how often idle sessions are collected (default: 10m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"10m"`

	// PendingLimit caps browsers kept for cookies the client has not sent
	// back yet (default: 256)
	PendingLimit int `env:"SESSION_PENDING_LIMIT" default:"256"`

	// PendingTTL drops those browsers after this long (default: 5m)
	PendingTTL time.Duration `env:"SESSION_PENDING_TTL" default:"5m"`

	// Secure marks the cookie HTTPS-only (default: false)
	Secure bool `env:"SESSION_SECURE" default:"false"`
}

// BrowserConfig holds customer list settings.
type BrowserConfig struct {
	// DefaultPageSize is the rows per page for new sessions (default: 10)
	DefaultPageSize int `env:"BROWSER_PAGE_SIZE" default:"10"`

	// PageSizes are the sizes offered in the page-size selector
	PageSizes []int `env:"BROWSER_PAGE_SIZES" default:"10,20,30,40,50"`
}

// CEPConfig holds postal-code lookup settings.
type CEPConfig struct {
	BaseURL string        `env:"CEP_BASE_URL" default:"https://viacep.com.br"`
	Timeout time.Duration `env:"CEP_TIMEOUT" default:"5s"`

	// RequestsPerSecond throttles calls to the provider (default: 5)
	RequestsPerSecond float64 `env:"CEP_REQUESTS_PER_SECOND" default:"5"`
	Burst             int     `env:"CEP_BURST" default:"5"`
}

// RateLimitConfig holds inbound rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// LookupLimit is requests per minute per IP for CEP lookups (default: 30)
	LookupLimit int `env:"RATE_LIMIT_LOOKUP" default:"30"`
}

// AuditConfig holds change log settings.
type AuditConfig struct {
	// Capacity is how many customer changes are kept in memory (default: 500)
	Capacity int `env:"AUDIT_CAPACITY" default:"500"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
