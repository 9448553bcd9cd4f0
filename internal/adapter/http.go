package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// MessagesPath is the relay endpoint accepting one message per request.
const MessagesPath = "/v1/messages"

type httpMailRelay struct {
	client *utils.HTTPClient

	from string

	logger *logger.Logger
}

// relayMessage is the JSON body posted to the relay.
type relayMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// NewHTTPMailRelay constructs an HTTP/JSON implementation of [MailRelay].
// It normalises and validates the base URL from cfg.BaseURL and configures
// the underlying HTTP client with the resolved base URL, request timeout and
// API key.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid URL.
func NewHTTPMailRelay(cfg config.Mail, logger *logger.Logger) (MailRelay, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid mail relay address: %w", err)
	}

	client := utils.NewHTTPClient(utils.HTTPClientOptions{
		BaseURL:   baseURL,
		Timeout:   cfg.Timeout,
		AuthToken: cfg.APIKey,
	})

	return &httpMailRelay{client: client, from: cfg.From, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidAddress
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Deliver implements [MailRelay]. It POSTs the message to [MessagesPath] and
// maps non-2xx responses through mapHTTPError.
func (h *httpMailRelay) Deliver(ctx context.Context, mail models.Mail) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(relayMessage{
			From:    h.from,
			To:      mail.To,
			Subject: mail.Subject,
			Text:    mail.Text,
		}).
		Post(MessagesPath)
	if err != nil {
		return fmt.Errorf("mail relay request: %w", err)
	}

	return mapHTTPError(resp)
}
