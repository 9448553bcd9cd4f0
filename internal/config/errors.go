package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates a missing database DSN or cache address.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates missing token settings.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidServerConfigs indicates that no listen address is configured.
	ErrInvalidServerConfigs = errors.New("invalid server configuration: no listen address")
	// ErrInvalidTrustedProxy indicates a trusted proxy entry that is neither
	// an IP nor a CIDR.
	ErrInvalidTrustedProxy = errors.New("invalid trusted proxy")
	// ErrInvalidRateLimitConfigs indicates non-positive limits or window, or
	// an unparsable sweep schedule.
	ErrInvalidRateLimitConfigs = errors.New("invalid rate limit configuration")
	// ErrInvalidWorkerConfigs indicates a non-positive mail queue size or
	// worker count.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
