package utils

import (
	"errors"
	"strings"
)

var ErrInvalidAuthorizationHeader = errors.New("invalid authorization header")

// ParseBearerToken extracts the token of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func ParseBearerToken(authorizationHeader string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(authorizationHeader), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", ErrInvalidAuthorizationHeader
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrInvalidAuthorizationHeader
	}
	return token, nil
}
