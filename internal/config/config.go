// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-task-keeper server. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// an optional JSON file and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as token parameters,
	// the application name and version, and the log level.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the relational database and the
	// Redis cache.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP and
	// gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// RateLimit holds the per-class request budgets.
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`

	// Adapter holds configuration for outbound integrations (mail relay).
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the configuration for all storage backends used by the
// application.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Cache holds the Redis connection settings used for token revocation,
	// password reset tokens and rate limiting.
	Cache Cache `envPrefix:"CACHE_"`
}

// App holds application-level configuration values that control token
// lifecycle, naming and versioning.
type App struct {
	// Name is reported by the health endpoint.
	// Env: APP_NAME
	Name string `env:"NAME"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel is a zerolog level name ("debug", "info", "warn", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// TokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// AccessTokenTTL is the lifetime of access tokens.
	// Env: APP_ACCESS_TOKEN_TTL
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL"`

	// RefreshTokenTTL is the lifetime of refresh tokens.
	// Env: APP_REFRESH_TOKEN_TTL
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL"`

	// PasswordResetTTL is how long a password reset token stays redeemable.
	// Env: APP_PASSWORD_RESET_TTL
	PasswordResetTTL time.Duration `env:"PASSWORD_RESET_TTL"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health server.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown of both servers.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// TrustedProxies lists the IPs or CIDRs of reverse proxies whose
	// X-Forwarded-For / X-Real-IP headers are honoured. Empty means the
	// socket peer is always the client.
	// Env: SERVER_TRUSTED_PROXIES (comma separated)
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the PostgreSQL connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Cache holds Redis connection settings.
type Cache struct {
	// Address is the Redis "host:port".
	// Env: STORAGE_CACHE_ADDRESS
	Address string `env:"ADDRESS"`

	// Password is the optional Redis AUTH password.
	// Env: STORAGE_CACHE_PASSWORD
	Password string `env:"PASSWORD"`

	// DB is the Redis logical database index.
	// Env: STORAGE_CACHE_DB
	DB int `env:"DB"`

	// DialTimeout, ReadTimeout and WriteTimeout bound every Redis round trip.
	// Env: STORAGE_CACHE_DIAL_TIMEOUT, STORAGE_CACHE_READ_TIMEOUT,
	// STORAGE_CACHE_WRITE_TIMEOUT
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT"`
}

// RateLimit holds the sliding window budgets for the two endpoint classes.
type RateLimit struct {
	// AuthLimit is the number of auth requests admitted per window per client.
	// Env: RATE_LIMIT_AUTH_LIMIT
	AuthLimit int `env:"AUTH_LIMIT"`

	// GeneralLimit is the number of API requests admitted per window per client.
	// Env: RATE_LIMIT_GENERAL_LIMIT
	GeneralLimit int `env:"GENERAL_LIMIT"`

	// Window is the length of the sliding window.
	// Env: RATE_LIMIT_WINDOW
	Window time.Duration `env:"WINDOW"`

	// Timeout is the budget for one Redis round trip before the in-process
	// limiter takes over.
	// Env: RATE_LIMIT_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`

	// SweepSchedule is a cron spec for purging stale in-process buckets.
	// Env: RATE_LIMIT_SWEEP_SCHEDULE
	SweepSchedule string `env:"SWEEP_SCHEDULE"`
}

// Adapter holds configuration for outbound integrations.
type Adapter struct {
	// Mail configures the HTTP mail relay.
	Mail Mail `envPrefix:"MAIL_"`
}

// Mail holds settings for the HTTP mail relay. An empty BaseURL switches the
// server to a log-only mailer.
type Mail struct {
	// Env: ADAPTER_MAIL_BASE_URL
	BaseURL string `env:"BASE_URL"`
	// Env: ADAPTER_MAIL_API_KEY
	APIKey string `env:"API_KEY"`
	// Env: ADAPTER_MAIL_FROM
	From string `env:"FROM"`
	// ResetURL is the front-end page that receives the reset token as a
	// "token" query parameter.
	// Env: ADAPTER_MAIL_RESET_URL
	ResetURL string `env:"RESET_URL"`
	// Env: ADAPTER_MAIL_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// MailQueueSize is the capacity of the outbound mail queue.
	// Env: WORKERS_MAIL_QUEUE_SIZE
	MailQueueSize int `env:"MAIL_QUEUE_SIZE"`

	// MailWorkers is the number of goroutines delivering queued mail.
	// Env: WORKERS_MAIL_WORKERS
	MailWorkers int `env:"MAIL_WORKERS"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration. Sources are consulted in the following priority order
// (an earlier source wins for every field it sets):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		withDefaults().
		build()
}
