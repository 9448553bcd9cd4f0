// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package ratelimit throttles requests per client identity and endpoint
// class. The primary limiter keeps a sliding window in Redis; when Redis
// fails or answers too slowly the fallback limiter counts in process.
package ratelimit

import (
	"context"
	"time"
)

// Class groups endpoints that share a limit.
type Class string

const (
	ClassAuth    Class = "auth"
	ClassGeneral Class = "general"
)

// Policy is the number of requests admitted per window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Result describes a single admission decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether one more request for key fits into limit per
// window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// Key builds the "{class}:{identity}" limiter key.
func Key(class Class, identity string) string {
	return string(class) + ":" + identity
}

func denied(limit int, window time.Duration) Result {
	return Result{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		RetryAfter: window,
	}
}
