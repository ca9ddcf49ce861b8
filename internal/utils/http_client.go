package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// UserAgent is sent with every request issued through HTTPClient.
const UserAgent = "cromwell-tools"

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient(time.Minute)
//	resp, err := client.R().Get("https://example.com")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates and returns a new HTTPClient instance.
//
// A positive timeout bounds every request made through the client; zero
// leaves requests bounded only by their context. Retries are disabled: a
// failed call is reported to the caller as-is.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetHeader("User-Agent", UserAgent).
		SetRetryCount(0)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPClient{Client: client}
}

// Download fetches url with a GET request and returns the response body.
// Any non-2xx status is reported as an error.
func (c *HTTPClient) Download(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("error downloading %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("error downloading %s: unexpected status %d", url, resp.StatusCode())
	}
	return resp.Body(), nil
}
