package ratelimit

import "errors"

var (
	ErrRunningScript      = errors.New("error running rate limit script")
	ErrUnexpectedResponse = errors.New("unexpected rate limit script response")
	ErrInvalidPolicy      = errors.New("limit and window must be positive")
	ErrNoPrimary          = errors.New("no primary rate limiter configured")
)
