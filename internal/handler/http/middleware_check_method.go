// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod returns the handler registered as the router's
// MethodNotAllowed handler.
//
// Chi answers 405 when a path is known but the method is not. The API hides
// which methods exist instead and answers 404 with the same body as an
// unknown path. The lookup goes through [chi.Mux.Match], so parameterised
// and mounted routes are expanded; a request that does match is served by
// the router as usual.
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			notFound(w, r)
			return
		}

		// drop the route context of the failed lookup
		ctx := context.WithValue(r.Context(), chi.RouteCtxKey, (*chi.Context)(nil))
		router.ServeHTTP(w, r.WithContext(ctx))
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, ErrRouteNotFound)
}
