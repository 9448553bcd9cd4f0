package models

import "time"

// TokenType tags a token with its purpose so that a refresh token cannot be
// used as an access token and vice versa.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Token is a verified or freshly issued token.
type Token struct {
	// Subject is the email of the user the token was issued to.
	Subject string

	Type TokenType

	// ID is the unique "jti" claim. It keeps two tokens issued in the same
	// second for the same subject distinct.
	ID string

	ExpiresAt time.Time

	// SignedString is the compact JWS representation of the token.
	SignedString string
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}

// TTL returns the remaining lifetime of the token relative to now.
func (t *Token) TTL(now time.Time) time.Duration {
	return t.ExpiresAt.Sub(now)
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}
