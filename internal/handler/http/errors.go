// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"

	"github.com/MKhiriev/go-task-keeper/internal/app"
)

// Transport-level errors. They wrap an [app] error kind so that
// [statusFromError] treats them exactly like service errors.
var (
	// ErrNotAuthenticated answers a protected request without a usable
	// "Authorization: Bearer" header.
	ErrNotAuthenticated = app.NewError(app.ErrAuthenticationFailure, app.MsgNotAuthenticated)

	// ErrInvalidJSON answers a request whose body is not valid JSON for the
	// endpoint.
	ErrInvalidJSON = app.NewError(app.ErrValidation, app.MsgInvalidDataProvided)

	// ErrRouteNotFound answers unknown routes and unsupported methods.
	ErrRouteNotFound = app.NewError(app.ErrNotFound, app.MsgNotFound)

	ErrAuthRateLimited    = app.NewError(app.ErrRateLimited, app.MsgAuthRateLimited)
	ErrGeneralRateLimited = app.NewError(app.ErrRateLimited, app.MsgGeneralRateLimited)
)

// errNoUserInContext means a protected handler was mounted without the auth
// middleware.
var errNoUserInContext = errors.New("no authenticated user in request context")

// errInvalidGzipBody is logged when a gzip encoded request body cannot be
// read.
var errInvalidGzipBody = errors.New("invalid gzip request body")
