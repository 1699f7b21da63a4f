package ledgersdk

import (
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds each request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// Client talks to a ledgers authority.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// token, when set, is sent as the bearer of every request.
	token string
}

// NewClient creates a client with a plain HTTP client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// NewClientWithHTTP creates a client using hc, e.g. one whose transport
// adds the PSU bearer from the request context.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	c := NewClient(baseURL)
	if hc != nil {
		c.HTTPClient = hc
	}
	return c
}

// WithToken returns a copy of c that sends token as bearer.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}
