// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/MKhiriev/go-task-keeper/models"
)

// tokenClaims are the claims of every issued token. Subject is the user's
// email.
type tokenClaims struct {
	Type models.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// jwtCodec signs tokens with HMAC-SHA256.
type jwtCodec struct {
	signKey []byte
	issuer  string
	now     func() time.Time
}

// NewTokenCodec returns a [TokenCodec] signing with signKey. Expiry is
// checked without leeway.
func NewTokenCodec(signKey, issuer string) (TokenCodec, error) {
	if signKey == "" {
		return nil, ErrEmptySignKey
	}
	return &jwtCodec{
		signKey: []byte(signKey),
		issuer:  issuer,
		now:     time.Now,
	}, nil
}

func (c *jwtCodec) Issue(subject string, tokenType models.TokenType, ttl time.Duration) (models.Token, error) {
	now := c.now().UTC()
	expiresAt := jwt.NewNumericDate(now.Add(ttl))

	claims := tokenClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: expiresAt,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return models.Token{
		Subject:      subject,
		Type:         tokenType,
		ID:           claims.ID,
		ExpiresAt:    expiresAt.Time,
		SignedString: signed,
	}, nil
}

func (c *jwtCodec) Verify(tokenString string, expected models.TokenType) (models.Token, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return c.signKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(0),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return models.Token{}, ErrInvalidToken
	}

	if claims.Type != expected || claims.Subject == "" {
		return models.Token{}, ErrInvalidToken
	}

	return models.Token{
		Subject:      claims.Subject,
		Type:         claims.Type,
		ID:           claims.ID,
		ExpiresAt:    claims.ExpiresAt.Time,
		SignedString: tokenString,
	}, nil
}
