package utils

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClientOptions configures an outbound client used by the adapters.
type HTTPClientOptions struct {
	BaseURL   string
	Timeout   time.Duration
	AuthToken string

	// RetryCount is the number of extra attempts made on transport errors
	// and 5xx responses. Zero disables retries.
	RetryCount int
}

// HTTPClient embeds *resty.Client so callers build requests with R().
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client that speaks JSON to opts.BaseURL.
func NewHTTPClient(opts HTTPClientOptions) *HTTPClient {
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if opts.BaseURL != "" {
		client.SetBaseURL(opts.BaseURL)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.AuthToken != "" {
		client.SetAuthToken(opts.AuthToken)
	}
	if opts.RetryCount > 0 {
		client.
			SetRetryCount(opts.RetryCount).
			SetRetryWaitTime(100 * time.Millisecond).
			SetRetryMaxWaitTime(time.Second).
			AddRetryCondition(retryOnServerError)
	}

	return &HTTPClient{Client: client}
}

func retryOnServerError(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp != nil && resp.StatusCode() >= http.StatusInternalServerError
}
