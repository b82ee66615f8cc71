package httpclient

import (
	"net/http"
	"time"
)

// Client is the outbound HTTP surface used by the identity and mail clients.
// Narrowed to Do so tests can fake it with a function.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps the standard http.Client
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient creates an HTTP client with a 30 second overall timeout.
// Callers shorten it per request via context deadlines.
func NewStandardClient() Client {
	return &StandardHTTPClient{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Do executes an HTTP request
func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
