// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides outbound integrations of the server.
//
// The primary abstraction is [MailRelay], which decouples mail delivery from
// the relay protocol. The package ships an HTTP/JSON implementation
// ([NewHTTPMailRelay]) and a log-only one ([NewLogMailRelay]) used when no
// relay is configured.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrUnauthorized] for 401, [ErrTooManyRequests] for 429).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/mail_relay_mock.go -package=mock

// MailRelay delivers one mail synchronously.
type MailRelay interface {
	Deliver(ctx context.Context, mail models.Mail) error
}
