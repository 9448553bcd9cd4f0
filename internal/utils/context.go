// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, bearer
// authorization headers, HTTP response writing, HTTP client initialization
// and identifier generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserCtxKey is the key under which the authenticated user is stored.
var UserCtxKey = contextKey("user")

// AccessTokenCtxKey is the key under which the raw access token of the
// request is stored. Logout needs it to blacklist the token.
var AccessTokenCtxKey = contextKey("accessToken")

// WithUser returns a copy of ctx carrying the authenticated user and the
// access token that proved it.
func WithUser(ctx context.Context, user models.User, accessToken string) context.Context {
	ctx = context.WithValue(ctx, UserCtxKey, user)
	return context.WithValue(ctx, AccessTokenCtxKey, accessToken)
}

// GetUserFromContext retrieves the authenticated user from the context.
//
// Returns the user and an ok flag:
//   - ok == true: value is found and has the correct type
//   - ok == false: value is missing or has an unexpected type
func GetUserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(models.User)
	return user, ok
}

// GetUserIDFromContext is a shortcut for the id of [GetUserFromContext].
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	user, ok := GetUserFromContext(ctx)
	return user.ID, ok
}

func GetAccessTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(AccessTokenCtxKey).(string)
	return token, ok
}
