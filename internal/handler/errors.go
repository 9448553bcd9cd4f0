// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated means the server config names neither an HTTP nor
// a gRPC listen address.
var errNoHandlersAreCreated = errors.New("no listen address configured: nothing to serve")
