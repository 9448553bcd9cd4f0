// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import "errors"

// Error kinds. Every business error returned by the service layer wraps
// exactly one of them; the HTTP layer maps the kind to a status code.
var (
	ErrDuplicateResource     = errors.New("duplicate_resource")
	ErrNotFound              = errors.New("not_found")
	ErrAuthenticationFailure = errors.New("authentication_failure")
	ErrConflict              = errors.New("conflict")
	ErrValidation            = errors.New("validation_failure")
	ErrRateLimited           = errors.New("rate_limited")
)

// Kinds lists the error kinds in the order they are matched.
var Kinds = []error{
	ErrDuplicateResource,
	ErrNotFound,
	ErrAuthenticationFailure,
	ErrConflict,
	ErrValidation,
	ErrRateLimited,
}

// Error is a business error with a message that is safe to show to the
// client.
type Error struct {
	Kind    error
	Message string
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// KindOf returns the kind wrapped by err, or nil for unexpected errors.
func KindOf(err error) error {
	for _, kind := range Kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
