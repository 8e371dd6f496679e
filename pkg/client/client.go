// Package client queries a wordscape search service over HTTP.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bastiangx/wordscape/pkg/server"
	"github.com/bastiangx/wordscape/pkg/widget"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrTransport wraps failures to reach the service.
	ErrTransport = errors.New("search transport failed")
	// ErrStatus wraps non-2xx responses.
	ErrStatus = errors.New("search service returned an error")
	// ErrDecode wraps bodies that are not a list of words.
	ErrDecode = errors.New("malformed search response")
)

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// Client calls GET <endpoint>/api/search. It implements widget.Searcher.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	msgpack bool
}

var _ widget.Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero, the default, means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMsgpack asks the service for msgpack bodies instead of JSON.
func WithMsgpack(enabled bool) Option {
	return func(c *Client) {
		c.msgpack = enabled
	}
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for the service at endpoint. The search path is
// resolved relative to the endpoint's path, as a page-relative
// "api/search" would be.
func New(endpoint string, opts ...Option) (*Client, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	c := &Client{
		base: base.JoinPath("api", "search"),
		http: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the request URL for a query.
func (c *Client) URL(letters, template string) string {
	u := *c.base
	u.RawQuery = url.Values{
		"letters":  {strings.ToLower(letters)},
		"template": {strings.ToLower(template)},
	}.Encode()
	return u.String()
}

// Search issues one request for q and returns the words in response order.
func (c *Client) Search(ctx context.Context, q widget.Query) ([]string, error) {
	return c.Find(ctx, q.Letters, q.Pattern)
}

// Find is Search for raw strings.
func (c *Client) Find(ctx context.Context, letters, template string) ([]string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(letters, template), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if c.msgpack {
		req.Header.Set("Accept", server.MIMEMsgpack)
	} else {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, body)
	}
	return decodeWords(resp.Header.Get("Content-Type"), body)
}

func statusError(code int, body []byte) error {
	var e server.ErrorResponse
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return fmt.Errorf("%w: %d %s", ErrStatus, code, e.Error)
	}
	return fmt.Errorf("%w: %d %s", ErrStatus, code, http.StatusText(code))
}

// decodeWords follows the response's content type rather than the request's
// Accept header, so a JSON-only service still works with msgpack enabled.
func decodeWords(contentType string, body []byte) ([]string, error) {
	var words []string
	var err error
	if strings.HasPrefix(contentType, server.MIMEMsgpack) {
		err = msgpack.Unmarshal(body, &words)
	} else {
		err = json.Unmarshal(body, &words)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if words == nil {
		words = []string{}
	}
	return words, nil
}
