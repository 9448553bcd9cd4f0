// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks and normalizes client input before it reaches
// the services.
//
// Request payloads that only need checking go through a [Validator].
// Payloads that also need normalization (trimming, enum aliases, defaults)
// go through the Normalize* and Parse* functions, which return the
// normalized value or [ValidationErrors] listing every violated field.
package validators

import "context"

// Validator checks a request payload and returns [ValidationErrors] when
// any field is invalid.
type Validator interface {
	Validate(ctx context.Context, obj any) error
}
